package source

import (
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

type Violation struct {
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

type ValidationError []*Violation

func (e ValidationError) Error() string {
	msg := "violations found:\n"
	for _, v := range e {
		line := "- " + v.Message
		if v.File != "" {
			line += fmt.Sprintf(" %s:%d:%d", v.File, v.Line, v.Column)
		}
		msg += line + "\n"
	}
	return msg
}

// asValidationError converts gqlparser errors into a ValidationError and
// returns any other error unchanged.
func asValidationError(err error) error {
	var list gqlerror.List
	if errors.As(err, &list) {
		out := make(ValidationError, 0, len(list))
		for _, e := range list {
			out = append(out, violationFromGQLError(e))
		}
		return out
	}
	var single *gqlerror.Error
	if errors.As(err, &single) {
		return ValidationError{violationFromGQLError(single)}
	}
	return err
}

func violationFromGQLError(err *gqlerror.Error) *Violation {
	v := &Violation{Message: err.Message}
	if file, ok := err.Extensions["file"].(string); ok {
		v.File = file
	}
	if len(err.Locations) > 0 {
		v.Line = err.Locations[0].Line
		v.Column = err.Locations[0].Column
	}
	return v
}
