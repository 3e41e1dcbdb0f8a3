package cue

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Placement is a WebVTT positioning keyword.
type Placement string

const (
	PlacementStart  Placement = "start"
	PlacementCenter Placement = "center"
	PlacementEnd    Placement = "end"
)

// Settings holds the optional WebVTT positioning pair. A nil *Settings
// means default rendering.
type Settings struct {
	Align   Placement
	Justify Placement
}

// Cue is a single timed caption entry.
type Cue struct {
	ID           string
	TranscriptID string
	Start        int64 // milliseconds
	End          int64 // milliseconds
	Text         string
	Layer        int
	Bold         bool
	Italics      bool
	Settings     *Settings
}

// NewID returns a fresh cue identifier. Identifiers are never reused.
func NewID() string {
	return uuid.New().String()
}

// Less is the canonical cue order: ascending start time, ties broken by
// identifier comparison so the order is total and deterministic. The
// collection uses this comparator exclusively.
func Less(a, b Cue) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return a.ID < b.ID
}

// LessTimeline orders cues for timeline lane layout: start, then layer,
// then end, then identifier. View-only; never used by the collection.
func LessTimeline(a, b Cue) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	if a.Layer != b.Layer {
		return a.Layer < b.Layer
	}
	if a.End != b.End {
		return a.End < b.End
	}
	return a.ID < b.ID
}

// Draft is the input to Collection.Create. TranscriptID, Start and End
// are required; everything else falls back to the field defaults.
type Draft struct {
	TranscriptID string
	Start        int64
	End          int64
	Text         string
	Layer        int
	Bold         bool
	Italics      bool
	Settings     *Settings
}

var (
	ErrMissingTranscript = errors.New("cue draft is missing a transcript id")
	ErrInvalidRange      = errors.New("cue start must be before end")
)

// Validate fails fast on input shapes that signal a programming error.
func (d Draft) Validate() error {
	if d.TranscriptID == "" {
		return ErrMissingTranscript
	}
	if d.Start < 0 || d.Start >= d.End {
		return fmt.Errorf("%w: start=%d end=%d", ErrInvalidRange, d.Start, d.End)
	}
	return nil
}

// Materialize builds a complete cue from the draft with a fresh id.
func (d Draft) Materialize() Cue {
	return Cue{
		ID:           NewID(),
		TranscriptID: d.TranscriptID,
		Start:        d.Start,
		End:          d.End,
		Text:         d.Text,
		Layer:        d.Layer,
		Bold:         d.Bold,
		Italics:      d.Italics,
		Settings:     d.Settings,
	}
}

// Patch is a partial cue update. Nil fields keep the current value.
// ClearSettings removes the settings pair entirely; it wins over
// Settings when both are set.
type Patch struct {
	ID            string
	Start         *int64
	End           *int64
	Text          *string
	Layer         *int
	Bold          *bool
	Italics       *bool
	Settings      *Settings
	ClearSettings bool
}

// Apply merges the patch over c and returns the result. The receiver
// is not modified.
func (p Patch) Apply(c Cue) Cue {
	if p.Start != nil {
		c.Start = *p.Start
	}
	if p.End != nil {
		c.End = *p.End
	}
	if p.Text != nil {
		c.Text = *p.Text
	}
	if p.Layer != nil {
		c.Layer = *p.Layer
	}
	if p.Bold != nil {
		c.Bold = *p.Bold
	}
	if p.Italics != nil {
		c.Italics = *p.Italics
	}
	if p.ClearSettings {
		c.Settings = nil
	} else if p.Settings != nil {
		c.Settings = p.Settings
	}
	return c
}
