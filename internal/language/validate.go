package language

import (
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
)

// Fragments are generated as standalone types, so a fragment that no
// operation spreads is still meaningful input. Repeated fragment names are
// checked by the fragment table, which accepts identical redeclarations.
var ignoredRules = map[string]bool{
	"NoUnusedFragments":   true,
	"NoUnusedVariables":   true,
	"UniqueFragmentNames": true,
}

func validateQuery(s *Schema, doc *QueryDocument) gqlerror.List {
	var errs gqlerror.List
	for _, err := range validator.Validate(s, doc) {
		if ignoredRules[err.Rule] {
			continue
		}
		errs = append(errs, err)
	}
	return errs
}
