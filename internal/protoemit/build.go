// Package protoemit renders generated declarations as protobuf messages.
// A shape with several branches becomes a message with a oneof named value
// over one nested message per branch.
package protoemit

import (
	"fmt"
	"strings"

	codegen "github.com/hanpama/gqlshape/internal/codegen"
	schema "github.com/hanpama/gqlshape/internal/schema"
	selection "github.com/hanpama/gqlshape/internal/selection"
	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"
)

type Options struct {
	Package string
	// Path is the file name recorded in the descriptor.
	Path string
	// Scalars maps custom scalar names to proto scalar kinds such as
	// "int64". Unmapped custom scalars become strings.
	Scalars map[string]string
}

var builtinScalars = map[string]string{
	"ID":      "string",
	"String":  "string",
	"Int":     "int32",
	"Float":   "double",
	"Boolean": "bool",
}

type builder struct {
	schema   *schema.Schema
	opts     Options
	file     *protobuilder.FileBuilder
	messages map[string]*protobuilder.MessageBuilder // declaration name -> message
	enums    map[string]*protobuilder.EnumBuilder    // GraphQL enum -> enum
}

// Build converts out into one proto3 file descriptor with a top-level
// message per declaration, in emission order.
func Build(s *schema.Schema, out *codegen.Output, opts Options) (protoreflect.FileDescriptor, error) {
	if opts.Path == "" {
		opts.Path = "gqlshape.proto"
	}
	b := &builder{
		schema:   s,
		opts:     opts,
		file:     protobuilder.NewFile(opts.Path),
		messages: make(map[string]*protobuilder.MessageBuilder),
		enums:    make(map[string]*protobuilder.EnumBuilder),
	}
	b.file.SetPackageName(protoreflect.FullName(opts.Package))
	b.file.SetSyntax(protoreflect.Proto3)

	for _, d := range out.Declarations {
		mb, err := b.declaration(d)
		if err != nil {
			return nil, fmt.Errorf("declaration %s: %w", d.Name, err)
		}
		if err := b.file.TryAddMessage(mb); err != nil {
			return nil, fmt.Errorf("declaration %s: %w", d.Name, err)
		}
		b.messages[d.Name] = mb
	}
	return b.file.Build()
}

func (b *builder) declaration(d *codegen.Declaration) (*protobuilder.MessageBuilder, error) {
	mb := protobuilder.NewMessage(nameProtoMessage(d.Name))
	mb.SetComments(comment(declarationComment(d)))
	switch {
	case d.Kind == codegen.DeclFragmentBranch:
		return mb, b.addBranchFields(mb, d.Branch)
	case d.Umbrella:
		oneof := protobuilder.NewOneof("value")
		var choices []*protobuilder.FieldBuilder
		for _, member := range d.Members {
			target, ok := b.messages[member]
			if !ok {
				return nil, fmt.Errorf("unknown branch declaration %q", member)
			}
			fb := protobuilder.NewField(nameProtoField(member), protobuilder.FieldTypeMessage(target))
			if err := oneof.TryAddChoice(fb); err != nil {
				return nil, err
			}
			choices = append(choices, fb)
		}
		allocateFieldNumbers(choices)
		if len(choices) > 0 {
			mb.AddOneOf(oneof)
		}
		return mb, nil
	}
	return mb, b.addShape(mb, d.Shape)
}

// addShape fills mb with the fields of a single-branch shape, or with a
// oneof over nested branch messages.
func (b *builder) addShape(mb *protobuilder.MessageBuilder, e *selection.ShapeExpression) error {
	if e.Unknown || len(e.Branches) == 0 {
		return nil
	}
	if len(e.Branches) == 1 && !e.EmptyFallback {
		return b.addBranchFields(mb, e.Branches[0])
	}
	oneof := protobuilder.NewOneof("value")
	var choices []*protobuilder.FieldBuilder
	for _, br := range e.Branches {
		nested := protobuilder.NewMessage(nameProtoMessage(br.Name))
		nested.SetComments(comment(strings.Join(br.TypeNames, " | ")))
		if err := b.addBranchFields(nested, br); err != nil {
			return err
		}
		if err := mb.TryAddNestedMessage(nested); err != nil {
			return err
		}
		fb := protobuilder.NewField(nameProtoField(br.Name), protobuilder.FieldTypeMessage(nested))
		if err := oneof.TryAddChoice(fb); err != nil {
			return err
		}
		choices = append(choices, fb)
	}
	allocateFieldNumbers(choices)
	mb.AddOneOf(oneof)
	return nil
}

func (b *builder) addBranchFields(mb *protobuilder.MessageBuilder, br *selection.Branch) error {
	var fields []*protobuilder.FieldBuilder
	for _, f := range br.Fields {
		fb, err := b.field(mb, f)
		if err != nil {
			return err
		}
		if err := mb.TryAddField(fb); err != nil {
			return err
		}
		fields = append(fields, fb)
	}
	for _, u := range br.Fragments {
		target, ok := b.messages[u.BranchName]
		if !ok {
			return fmt.Errorf("fragment %s has no declaration %q", u.FragmentName, u.BranchName)
		}
		fb := protobuilder.NewField(nameProtoField(u.BranchName), protobuilder.FieldTypeMessage(target))
		fb.SetComments(comment("..." + u.FragmentName))
		if err := mb.TryAddField(fb); err != nil {
			return err
		}
		fields = append(fields, fb)
	}
	allocateFieldNumbers(fields)
	return nil
}

func (b *builder) field(parent *protobuilder.MessageBuilder, f selection.FieldShape) (*protobuilder.FieldBuilder, error) {
	if f.Kind == selection.FieldTypename {
		fb := protobuilder.NewField(nameProtoField(f.ResponseKey), protobuilder.FieldTypeScalar(protoreflect.StringKind))
		fb.SetComments(comment(strings.Join(f.Literals, " | ")))
		if f.Optional || f.Conditional {
			fb.SetOptional()
		}
		return fb, nil
	}

	var ft *protobuilder.FieldType
	if f.Kind == selection.FieldLink {
		nested := protobuilder.NewMessage(nameProtoMessage(f.ResponseKey))
		if err := b.addShape(nested, f.Child); err != nil {
			return nil, err
		}
		if err := parent.TryAddNestedMessage(nested); err != nil {
			return nil, err
		}
		ft = protobuilder.FieldTypeMessage(nested)
	} else {
		var err error
		if ft, err = b.leaf(f.Type.GetNamedType()); err != nil {
			return nil, err
		}
	}

	fb := protobuilder.NewField(nameProtoField(f.ResponseKey), ft)
	rt := resolveTypeRef(f.Type)
	switch {
	case rt.isRepeated:
		fb.SetRepeated()
	case rt.isOptional || f.Conditional:
		fb.SetOptional()
	}
	return fb, nil
}

func (b *builder) leaf(name string) (*protobuilder.FieldType, error) {
	kindName, ok := b.opts.Scalars[name]
	if !ok {
		kindName, ok = builtinScalars[name]
	}
	if ok {
		kind, known := scalars[kindName]
		if !known {
			return nil, fmt.Errorf("scalar %s maps to unknown proto type %q", name, kindName)
		}
		return protobuilder.FieldTypeScalar(kind), nil
	}
	t := b.schema.Type(name)
	if t != nil && t.Kind == schema.TypeKindEnum {
		eb, err := b.enum(t)
		if err != nil {
			return nil, err
		}
		return protobuilder.FieldTypeEnum(eb), nil
	}
	return protobuilder.FieldTypeScalar(protoreflect.StringKind), nil
}

// enum adds the GraphQL enum t to the file once, with a zero
// <ENUM>_UNSPECIFIED value.
func (b *builder) enum(t *schema.Type) (*protobuilder.EnumBuilder, error) {
	if eb, ok := b.enums[t.Name]; ok {
		return eb, nil
	}
	eb := protobuilder.NewEnum(nameProtoMessage(t.Name))
	eb.SetComments(comment(t.Description))

	zero := protobuilder.NewEnumValue(nameProtoEnumValue(t.Name, "UNSPECIFIED"))
	zero.SetNumber(0)
	eb.AddValue(zero)

	values := make([]*protobuilder.EnumValueBuilder, 0, len(t.EnumValues))
	for _, v := range t.EnumValues {
		if strings.ToUpper(v.Name) == "UNSPECIFIED" {
			continue
		}
		evb := protobuilder.NewEnumValue(nameProtoEnumValue(t.Name, v.Name))
		evb.SetComments(comment(v.Description))
		eb.AddValue(evb)
		values = append(values, evb)
	}
	allocateEnumValueNumbers(values)

	if err := b.file.TryAddEnum(eb); err != nil {
		return nil, err
	}
	b.enums[t.Name] = eb
	return eb, nil
}

func declarationComment(d *codegen.Declaration) string {
	switch d.Kind {
	case codegen.DeclFragmentBranch:
		return fmt.Sprintf("Fragment %s on %s.", d.Definition, strings.Join(d.Branch.TypeNames, " | "))
	case codegen.DeclFragment:
		return fmt.Sprintf("Fragment %s on %s.", d.Definition, d.TypeName)
	}
	if d.Definition == "" {
		return fmt.Sprintf("Anonymous %s.", d.Operation)
	}
	return fmt.Sprintf("Operation %s (%s).", d.Definition, d.Operation)
}
