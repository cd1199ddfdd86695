package codegen

import "fmt"

// DefinitionError attaches the fragment or operation name to an error
// raised while resolving it.
type DefinitionError struct {
	Kind Kind
	Name string
	Err  error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Name, e.Err)
}

func (e *DefinitionError) Unwrap() error { return e.Err }

// DuplicateDeclarationError reports two definitions generating the same
// declaration name.
type DuplicateDeclarationError struct {
	Name string
}

func (e *DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("declaration name %q is generated more than once", e.Name)
}
