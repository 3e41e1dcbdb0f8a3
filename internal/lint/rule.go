// Package lint analyzes cue text against caption style rules and maps
// violations back to character ranges for inline annotation.
//
// All ranges are half-open and expressed in rune offsets, so the
// 42-character line limit and multi-byte text agree on what a
// "character" is.
package lint

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/communitysubs/subcue/internal/cue"
)

// Range is a half-open [Start, End) span of rune offsets.
type Range struct {
	Start int
	End   int
}

// Rule is one stateless style check. Fix is nil when the rule has no
// automatic correction.
type Rule struct {
	ID          string
	Name        string
	Description string
	Test        func(cue.Cue) []Range
	Fix         func(cue.Cue, Range) cue.Cue
}

// Violation is a rule firing over a character range of one cue's text.
type Violation struct {
	Start int
	End   int
	Rule  *Rule
}

// wholeCue reports a single violation spanning the full text when the
// predicate holds.
func wholeCue(pred func(cue.Cue) bool) func(cue.Cue) []Range {
	return func(c cue.Cue) []Range {
		if !pred(c) {
			return nil
		}
		return []Range{{0, utf8.RuneCountInString(c.Text)}}
	}
}

// perLine runs a line-local test against each text line and offsets
// the returned ranges by the cumulative length of the preceding lines.
// The stripped newline characters are not counted.
func perLine(test func(line string) []Range) func(cue.Cue) []Range {
	return func(c cue.Cue) []Range {
		var out []Range
		offset := 0
		for _, line := range strings.Split(c.Text, "\n") {
			for _, r := range test(line) {
				out = append(out, Range{r.Start + offset, r.End + offset})
			}
			offset += utf8.RuneCountInString(line)
		}
		return out
	}
}

// pattern turns every regexp match over the whole text into one range.
func pattern(re *regexp.Regexp) func(cue.Cue) []Range {
	return func(c cue.Cue) []Range {
		var out []Range
		for _, m := range re.FindAllStringIndex(c.Text, -1) {
			out = append(out, Range{
				utf8.RuneCountInString(c.Text[:m[0]]),
				utf8.RuneCountInString(c.Text[:m[1]]),
			})
		}
		return out
	}
}

// replaceWith fixes a violation by substituting a fixed string for the
// flagged range.
func replaceWith(repl string) func(cue.Cue, Range) cue.Cue {
	return replaceFunc(func(string) string { return repl })
}

// replaceFunc fixes a violation by substituting the result of f
// applied to the flagged substring. The input cue is not mutated.
func replaceFunc(f func(match string) string) func(cue.Cue, Range) cue.Cue {
	return func(c cue.Cue, r Range) cue.Cue {
		runes := []rune(c.Text)
		if r.Start < 0 {
			r.Start = 0
		}
		if r.End > len(runes) {
			r.End = len(runes)
		}
		if r.Start >= r.End {
			return c
		}
		c.Text = string(runes[:r.Start]) + f(string(runes[r.Start:r.End])) + string(runes[r.End:])
		return c
	}
}
