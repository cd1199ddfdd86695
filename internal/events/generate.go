package events

import "time"

// RunStart is emitted before a generation run resolves any definition.
type RunStart struct {
	Fragments  int
	Operations int
}

// RunFinish is emitted after every definition of a run was processed.
type RunFinish struct {
	Declarations int
	Errors       []error
	Duration     time.Duration
}

// DefinitionStart is emitted before a fragment or operation is resolved.
type DefinitionStart struct {
	Kind string
	Name string
}

// DefinitionFinish is emitted after a fragment or operation was resolved,
// successfully or not.
type DefinitionFinish struct {
	Kind         string
	Name         string
	Declarations int
	Branches     int
	Err          error
	Duration     time.Duration
}
