// Package selection derives the shape of a GraphQL response from a
// selection set.
//
// For one selection set against one parent type, the engine computes the
// ordered response fields of every concrete type the parent may resolve to.
// The work is split in three steps:
//
//   - Flatten distributes the selection items over concrete type buckets.
//     Inline fragments and fragment spreads are narrowed by their type
//     condition: an item reaches a concrete type only when that type is a
//     possible type of both the enclosing parent and the condition.
//   - Build turns one bucket into an ordered list of FieldShape values.
//     Repeated response keys are merged; fields with sub-selections become
//     links whose child shape is resolved recursively against the field's
//     declared type.
//   - Compact turns the per-type lists into a ShapeExpression. With
//     compaction enabled, concrete types producing identical shapes share a
//     branch whose typename literal lists every member.
//
// The engine is a pure function of the schema, the fragment table, the
// selection set and the options. It holds no mutable state between calls,
// so one Engine may be used from several goroutines.
package selection
