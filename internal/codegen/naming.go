package codegen

import (
	"strconv"
	"strings"

	language "github.com/hanpama/gqlshape/internal/language"
)

type Naming struct {
	// DedupeOperationSuffix keeps an operation named UserQuery from
	// becoming UserQueryQuery.
	DedupeOperationSuffix bool
	FragmentSuffix        string
}

func DefaultNaming() Naming {
	return Naming{DedupeOperationSuffix: true, FragmentSuffix: "Fragment"}
}

func operationSuffix(op language.Operation) string {
	switch op {
	case language.Mutation:
		return "Mutation"
	case language.Subscription:
		return "Subscription"
	}
	return "Query"
}

// OperationName names the declaration of op. Anonymous operations are
// numbered from 1 in document order by the caller.
func (n Naming) OperationName(op *language.OperationDefinition, anonymous int) string {
	name := op.Name
	if name == "" {
		name = "Anonymous" + strconv.Itoa(anonymous)
	}
	name = capitalize(name)
	suffix := operationSuffix(op.Operation)
	if n.DedupeOperationSuffix && strings.HasSuffix(name, suffix) {
		return name
	}
	return name + suffix
}

// FragmentName names the public declaration of a fragment.
func (n Naming) FragmentName(fragment string) string {
	return capitalize(fragment) + n.FragmentSuffix
}

// FragmentBranchName names the private declaration of one fragment branch.
func (n Naming) FragmentBranchName(fragment, branch string) string {
	name := capitalize(fragment) + "_" + branch
	if n.FragmentSuffix != "" {
		name += "_" + n.FragmentSuffix
	}
	return name
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
