package protoemit

import (
	"hash/fnv"
	"sort"

	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"
)

const (
	maxFieldNumber = 31767
	reservedStart  = 19000
	reservedEnd    = 19999
)

// allocateFieldNumbers numbers fields from a hash of their names, so adding
// a field to a shape keeps the numbers of the others.
func allocateFieldNumbers(fieldBuilders []*protobuilder.FieldBuilder) {
	names := make([]string, len(fieldBuilders))
	for i, fb := range fieldBuilders {
		names[i] = string(fb.Name())
	}
	for i, n := range hashNumbers(names) {
		fieldBuilders[i].SetNumber(protoreflect.FieldNumber(n))
	}
}

func allocateEnumValueNumbers(enumValueBuilders []*protobuilder.EnumValueBuilder) {
	names := make([]string, len(enumValueBuilders))
	for i, evb := range enumValueBuilders {
		names[i] = string(evb.Name())
	}
	for i, n := range hashNumbers(names) {
		enumValueBuilders[i].SetNumber(protoreflect.EnumNumber(n))
	}
}

// hashNumbers assigns each name FNV32a(name) % 31767 + 1, probing linearly
// past collisions and the reserved range 19000-19999. Names are probed in
// sorted order so the result does not depend on input order.
func hashNumbers(names []string) []int {
	if len(names) == 0 {
		return nil
	}
	order := make([]int, len(names))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return names[order[i]] < names[order[j]] })

	out := make([]int, len(names))
	used := make(map[int]bool, len(names))
	for _, idx := range order {
		cand := int(fnv32(names[idx])%maxFieldNumber) + 1
		for {
			if cand >= reservedStart && cand <= reservedEnd {
				cand = reservedEnd + 1
			}
			if !used[cand] {
				break
			}
			cand++
			if cand > maxFieldNumber {
				cand = 1
			}
		}
		used[cand] = true
		out[idx] = cand
	}
	return out
}

func fnv32(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
