// Package persistence implements §4.7's on-disk project format: a JSON
// document with tagged-union tracks and events, optionally wrapped in an
// LZMA stream behind an "FDAW" magic header. It is the serialization half
// of pkg/project the way the teacher's pkg/state is the serialization half
// of pkg/param — a deliberately separate package so the in-memory model
// never carries `json` tags it doesn't need for anything but persistence.
package persistence

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/khremeviuc1004/riff-daw/pkg/fdawerr"
	"github.com/khremeviuc1004/riff-daw/pkg/project"
)

// document is the top-level on-disk shape: { "song": Song }.
type document struct {
	Song songDoc `json:"song"`
}

type songDoc struct {
	Name          string          `json:"name"`
	Tempo         float64         `json:"tempo"`
	TimeSignature timeSigDoc      `json:"time_signature"`
	SampleRate    float64         `json:"sample_rate"`
	BlockSize     int             `json:"block_size"`
	Tracks        []trackDoc      `json:"tracks"`
	RiffSets      []riffSetDoc    `json:"riff_sets"`
	RiffSequences []riffSeqDoc    `json:"riff_sequences"`
	Arrangements  []arrangeDoc    `json:"riff_arrangements"`
	Loops         []loopDoc       `json:"loops"`
	Samples       []sampleDoc     `json:"samples"`
}

type timeSigDoc struct {
	Numerator   uint32 `json:"numerator"`
	Denominator uint32 `json:"denominator"`
}

type sampleDoc struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Path string    `json:"path"`
}

type loopDoc struct {
	Name  string  `json:"name"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Marshal renders a Song as the §4.7 JSON document.
func Marshal(song *project.Song) ([]byte, error) {
	doc := document{Song: toSongDoc(song)}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fdawerr.Wrap(fdawerr.KindPersistence, err)
	}
	return data, nil
}

// Unmarshal parses the §4.7 JSON document back into a Song. Unknown keys
// are rejected rather than silently ignored, per §6 — this matters most
// for the tagged-union Track and Event documents, where a stray key
// alongside "InstrumentTrack"/"Note"/etc. almost always means the file was
// hand-edited or produced by a mismatched version rather than meaning
// anything.
func Unmarshal(data []byte) (*project.Song, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fdawerr.Wrap(fdawerr.KindPersistence, err)
	}
	return fromSongDoc(doc.Song)
}

func toSongDoc(s *project.Song) songDoc {
	doc := songDoc{
		Name:       s.Name,
		Tempo:      s.Tempo,
		SampleRate: s.SampleRate,
		BlockSize:  s.BlockSize,
		TimeSignature: timeSigDoc{
			Numerator:   s.TimeSignature.Numerator,
			Denominator: s.TimeSignature.Denominator,
		},
	}
	for _, t := range s.Tracks {
		doc.Tracks = append(doc.Tracks, toTrackDoc(t))
	}
	for _, rs := range s.RiffSets {
		doc.RiffSets = append(doc.RiffSets, toRiffSetDoc(rs))
	}
	for _, seq := range s.RiffSequences {
		doc.RiffSequences = append(doc.RiffSequences, toRiffSeqDoc(seq))
	}
	for _, a := range s.RiffArrangements {
		doc.Arrangements = append(doc.Arrangements, toArrangeDoc(a))
	}
	for _, l := range s.Loops {
		doc.Loops = append(doc.Loops, loopDoc{Name: l.Name, Start: l.Start, End: l.End})
	}
	for _, smp := range s.Samples {
		doc.Samples = append(doc.Samples, sampleDoc{ID: smp.ID, Name: smp.Name, Path: smp.Path})
	}

	// §9 Open Question: always emit [] rather than null for empty lists.
	if doc.Tracks == nil {
		doc.Tracks = []trackDoc{}
	}
	if doc.RiffSets == nil {
		doc.RiffSets = []riffSetDoc{}
	}
	if doc.RiffSequences == nil {
		doc.RiffSequences = []riffSeqDoc{}
	}
	if doc.Arrangements == nil {
		doc.Arrangements = []arrangeDoc{}
	}
	if doc.Loops == nil {
		doc.Loops = []loopDoc{}
	}
	if doc.Samples == nil {
		doc.Samples = []sampleDoc{}
	}
	return doc
}

func fromSongDoc(doc songDoc) (*project.Song, error) {
	s := project.NewSong(doc.Name, doc.Tempo, doc.SampleRate, doc.BlockSize)
	s.TimeSignature = project.TimeSignature{
		Numerator:   doc.TimeSignature.Numerator,
		Denominator: doc.TimeSignature.Denominator,
	}

	for _, td := range doc.Tracks {
		t, err := fromTrackDoc(td)
		if err != nil {
			return nil, err
		}
		if err := s.AddTrack(t); err != nil {
			return nil, fdawerr.Wrap(fdawerr.KindPersistence, err)
		}
	}
	for _, rsd := range doc.RiffSets {
		s.RiffSets = append(s.RiffSets, fromRiffSetDoc(rsd))
	}
	for _, sqd := range doc.RiffSequences {
		s.RiffSequences = append(s.RiffSequences, fromRiffSeqDoc(sqd))
	}
	for _, ad := range doc.Arrangements {
		s.RiffArrangements = append(s.RiffArrangements, fromArrangeDoc(ad))
	}
	for _, ld := range doc.Loops {
		s.Loops = append(s.Loops, &project.LoopRange{Name: ld.Name, Start: ld.Start, End: ld.End})
	}
	for _, smd := range doc.Samples {
		s.Samples = append(s.Samples, &project.Sample{ID: smd.ID, Name: smd.Name, Path: smd.Path})
	}
	return s, nil
}

