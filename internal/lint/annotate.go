package lint

import "sort"

// Segment is a contiguous slice of cue text annotated with the rules
// whose violations are open over it. Flatten's segments partition the
// input text exactly: no gaps, no overlaps.
type Segment struct {
	Start      int
	End        int
	Text       string
	Violations []*Rule
}

// Flatten converts possibly-overlapping violations over text into a
// flat segment sequence for highlighting. Offsets are rune positions.
func Flatten(text string, violations []Violation) []Segment {
	runes := []rune(text)
	n := len(runes)

	type flag struct {
		offset int
		close  bool
		v      int
	}
	var flags []flag
	for i, v := range violations {
		start, end := v.Start, v.End
		if start < 0 {
			start = 0
		}
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		flags = append(flags, flag{start, false, i})
		flags = append(flags, flag{end, true, i})
	}

	// at equal offsets an ending violation closes before a new one
	// opens, so no zero-width span is ever held open across a boundary
	sort.SliceStable(flags, func(i, j int) bool {
		if flags[i].offset != flags[j].offset {
			return flags[i].offset < flags[j].offset
		}
		return flags[i].close && !flags[j].close
	})

	var segments []Segment
	var open []int
	cursor := 0
	for _, f := range flags {
		if f.offset > cursor {
			segments = append(segments, newSegment(runes, cursor, f.offset, open, violations))
			cursor = f.offset
		}
		if f.close {
			for i, idx := range open {
				if idx == f.v {
					open = append(open[:i], open[i+1:]...)
					break
				}
			}
		} else {
			open = append(open, f.v)
		}
	}
	if cursor < n {
		segments = append(segments, newSegment(runes, cursor, n, nil, violations))
	}
	return segments
}

func newSegment(runes []rune, start, end int, open []int, violations []Violation) Segment {
	seg := Segment{
		Start: start,
		End:   end,
		Text:  string(runes[start:end]),
	}
	for _, idx := range open {
		seg.Violations = append(seg.Violations, violations[idx].Rule)
	}
	return seg
}
