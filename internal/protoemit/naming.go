package protoemit

import (
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
)

func nameProtoMessage(name string) protoreflect.Name {
	return protoreflect.Name(capitalize(name))
}

// nameProtoField converts a response key or declaration name to a field
// name. Underscores already in name are dropped before conversion.
func nameProtoField(name string) protoreflect.Name {
	return protoreflect.Name(snakeCase(strings.ReplaceAll(name, "_", "")))
}

func nameProtoEnumValue(graphQLEnumName string, graphQLEnumValueName string) protoreflect.Name {
	prefix := strings.ToUpper(snakeCase(graphQLEnumName))
	return protoreflect.Name(prefix + "_" + strings.ToUpper(graphQLEnumValueName))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// snakeCase converts a string from CamelCase or PascalCase to snake_case.
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
