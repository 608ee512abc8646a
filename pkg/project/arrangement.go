package project

import "github.com/google/uuid"

// RiffSet is §3's RiffSet: a one-riff-per-track mapping, playable as its
// own unit starting at beat 0.
type RiffSet struct {
	ID      uuid.UUID
	Name    string
	Mapping map[uuid.UUID]uuid.UUID // Track UUID -> Riff UUID
}

// NewRiffSet constructs an empty riff set.
func NewRiffSet(name string) *RiffSet {
	return &RiffSet{ID: uuid.New(), Name: name, Mapping: make(map[uuid.UUID]uuid.UUID)}
}

// RiffSequence is §3's RiffSequence: an ordered concatenation of RiffSets.
type RiffSequence struct {
	ID       uuid.UUID
	Name     string
	RiffSets []uuid.UUID
}

// NewRiffSequence constructs an empty riff sequence.
func NewRiffSequence(name string) *RiffSequence {
	return &RiffSequence{ID: uuid.New(), Name: name}
}

// ArrangementItemKind tags whether a RiffArrangement item is a RiffSet or
// a RiffSequence.
type ArrangementItemKind uint8

const (
	ArrangementItemRiffSet ArrangementItemKind = iota
	ArrangementItemRiffSequence
)

// ArrangementItem is one entry in a RiffArrangement's ordered item list.
type ArrangementItem struct {
	Kind ArrangementItemKind
	ID   uuid.UUID // a RiffSet or RiffSequence UUID depending on Kind
}

// RiffArrangement is §3's RiffArrangement: an ordered concatenation of
// RiffSet and RiffSequence items.
type RiffArrangement struct {
	ID    uuid.UUID
	Name  string
	Items []ArrangementItem
}

// NewRiffArrangement constructs an empty riff arrangement.
func NewRiffArrangement(name string) *RiffArrangement {
	return &RiffArrangement{ID: uuid.New(), Name: name}
}

// LoopRange is §3's LoopRange: a named playback confinement window.
type LoopRange struct {
	Name  string
	Start float64 // beats
	End   float64 // beats, strictly greater than Start
}
