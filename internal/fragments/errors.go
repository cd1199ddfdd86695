package fragments

import (
	"fmt"
	"strings"
)

// DuplicateFragmentError reports two fragments sharing a name with
// different bodies.
type DuplicateFragmentError struct {
	Name string
}

func (e *DuplicateFragmentError) Error() string {
	return fmt.Sprintf("fragment %q is declared more than once with different bodies", e.Name)
}

// CycleError reports fragments spreading each other.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "fragment spread cycle: " + strings.Join(e.Path, " -> ")
}
