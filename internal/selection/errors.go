package selection

import "fmt"

// MissingRootTypeError reports an operation whose kind has no root type in
// the schema.
type MissingRootTypeError struct {
	Operation string
	Kind      string
}

func (e *MissingRootTypeError) Error() string {
	return fmt.Sprintf("schema has no %s root type for operation %q", e.Kind, e.Operation)
}

// NestedInlineFragmentError reports an inline fragment without a type
// condition directly inside another inline fragment without one.
type NestedInlineFragmentError struct {
	TypeName string
}

func (e *NestedInlineFragmentError) Error() string {
	return fmt.Sprintf("nested inline fragment without type condition on %s", e.TypeName)
}

// InvalidFragmentSpreadTargetError reports a type condition that names no
// composite schema type. Fragment is empty for inline fragments.
type InvalidFragmentSpreadTargetError struct {
	Fragment   string
	TypeName   string
	ParentType string
}

func (e *InvalidFragmentSpreadTargetError) Error() string {
	if e.Fragment == "" {
		return fmt.Sprintf("inline fragment on %q cannot apply to %s", e.TypeName, e.ParentType)
	}
	return fmt.Sprintf("fragment %q on %q cannot apply to %s", e.Fragment, e.TypeName, e.ParentType)
}

// UnknownFragmentError reports a spread of a fragment absent from the table.
type UnknownFragmentError struct {
	Name string
}

func (e *UnknownFragmentError) Error() string {
	return fmt.Sprintf("unknown fragment %q", e.Name)
}

// UnknownFieldError reports a selected field the schema type does not have.
type UnknownFieldError struct {
	TypeName string
	Field    string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("type %s has no field %q", e.TypeName, e.Field)
}
