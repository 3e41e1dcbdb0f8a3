// Package webvtt converts between the in-memory cue model and WebVTT
// text. Import is all-or-nothing: the first malformed cue header
// aborts the whole parse.
package webvtt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/communitysubs/subcue/internal/cue"
	"github.com/communitysubs/subcue/internal/logging"
	"github.com/communitysubs/subcue/internal/timecode"
)

// MalformedCueHeaderError identifies the cue header line that failed
// to parse.
type MalformedCueHeaderError struct {
	Header string
	Err    error
}

func (e *MalformedCueHeaderError) Error() string {
	return fmt.Sprintf("malformed cue header %q: %v", e.Header, e.Err)
}

func (e *MalformedCueHeaderError) Unwrap() error {
	return e.Err
}

var (
	blankLine  = regexp.MustCompile(`\n[ \t]*\n`)
	headerLine = regexp.MustCompile(`^[ \t]*(\S+)[ \t]+-->[ \t]+(\S+)(?:[ \t]+(.*\S))?[ \t]*$`)
	markupTag  = regexp.MustCompile(`<[^>]*>`)
)

// Importer parses raw WebVTT text into cues owned by TranscriptID.
type Importer struct {
	TranscriptID string
	Log          *logging.Logger
}

// Parse converts a .vtt document into cues. Comment, style and region
// blocks are skipped with a diagnostic; the file header block is
// always skipped. Each produced cue gets a fresh id and layer 0.
func (im Importer) Parse(raw string) ([]cue.Cue, error) {
	log := im.Log
	if log == nil {
		log = logging.Nop()
	}

	raw = strings.TrimPrefix(raw, "\uFEFF")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	cues := []cue.Cue{}
	for i, block := range blankLine.Split(raw, -1) {
		if i == 0 {
			// file header, skipped regardless of content
			continue
		}
		block = strings.TrimRight(block, "\n \t")
		trimmed := strings.TrimSpace(block)
		if trimmed == "" {
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "NOTE"):
			log.Debugw("skipping comment block")
			continue
		case strings.HasPrefix(trimmed, "STYLE"):
			log.Debugw("skipping style block")
			continue
		case strings.HasPrefix(trimmed, "REGION"):
			log.Debugw("skipping region block")
			continue
		}

		parsed, err := im.parseCueBlock(block, log)
		if err != nil {
			return nil, err
		}
		cues = append(cues, parsed)
	}
	return cues, nil
}

func (im Importer) parseCueBlock(block string, log *logging.Logger) (cue.Cue, error) {
	lines := strings.Split(block, "\n")

	// an optional identifier line precedes the header; drop it
	if !strings.Contains(lines[0], "-->") {
		lines = lines[1:]
		if len(lines) == 0 {
			return cue.Cue{}, &MalformedCueHeaderError{
				Header: block,
				Err:    fmt.Errorf("cue block has no timestamp line"),
			}
		}
	}

	header := lines[0]
	m := headerLine.FindStringSubmatch(header)
	if m == nil {
		return cue.Cue{}, &MalformedCueHeaderError{
			Header: header,
			Err:    fmt.Errorf("expected \"<timestamp> --> <timestamp>\""),
		}
	}

	start, err := timecode.ParseTimestamp(m[1])
	if err != nil {
		return cue.Cue{}, &MalformedCueHeaderError{Header: header, Err: err}
	}
	end, err := timecode.ParseTimestamp(m[2])
	if err != nil {
		return cue.Cue{}, &MalformedCueHeaderError{Header: header, Err: err}
	}

	if settings := m[3]; settings != "" {
		// structured cue-settings parsing is not implemented yet
		log.Warnw("ignoring cue settings", "settings", settings)
	}
	if start >= end {
		log.Warnw("cue has non-positive duration",
			"start", start,
			"end", end,
		)
	}

	textLines := make([]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		textLines = append(textLines, markupTag.ReplaceAllString(line, ""))
	}

	return cue.Cue{
		ID:           cue.NewID(),
		TranscriptID: im.TranscriptID,
		Start:        start,
		End:          end,
		Text:         strings.Join(textLines, "\n"),
		Layer:        0,
	}, nil
}
