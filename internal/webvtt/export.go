package webvtt

import (
	"fmt"
	"strings"

	"github.com/communitysubs/subcue/internal/cue"
	"github.com/communitysubs/subcue/internal/timecode"
)

// fileHeader opens every exported document: identification plus the
// default cue color style block.
const fileHeader = `WEBVTT  - Created with Community Subs

NOTE Created with Community Subs

STYLE
::cue {
  color: red
}
`

// Format serializes cues to WebVTT text. Cues whose text is empty or
// whitespace-only are dropped entirely; the remaining cues are
// numbered contiguously from 1. Blank lines inside a cue's text are
// not emitted.
func Format(cues []cue.Cue) string {
	var sb strings.Builder
	sb.WriteString(fileHeader)

	n := 0
	for _, c := range cues {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		n++

		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%d\n", n)

		sb.WriteString(timecode.FromMillis(c.Start).FormatFull())
		sb.WriteString(" --> ")
		sb.WriteString(timecode.FromMillis(c.End).FormatFull())
		if s := formatSettings(c.Settings); s != "" {
			sb.WriteString(" ")
			sb.WriteString(s)
		}
		sb.WriteString("\n")

		for _, line := range strings.Split(c.Text, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func formatSettings(s *cue.Settings) string {
	if s == nil {
		return ""
	}
	var parts []string
	if s.Align != "" {
		parts = append(parts, "align:"+string(s.Align))
	}
	if s.Justify != "" {
		parts = append(parts, "justify:"+string(s.Justify))
	}
	return strings.Join(parts, " ")
}
