package lint

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/communitysubs/subcue/internal/cue"
)

// maxLineLength and maxLineCount follow common English caption
// guidelines: at most 42 characters per line, at most 2 lines.
const (
	maxLineLength = 42
	maxLineCount  = 2
)

var numberWords = map[string]string{
	"0": "zero", "1": "one", "2": "two", "3": "three", "4": "four",
	"5": "five", "6": "six", "7": "seven", "8": "eight", "9": "nine",
	"10": "ten",
}

var (
	ellipsisPattern = regexp.MustCompile(`\.\.\.`)
	// standalone numerals 0 through 10; longer numbers are left alone
	lowNumeralPattern = regexp.MustCompile(`\b(?:10|[0-9])\b`)
)

var registry = []*Rule{
	{
		ID:          "1.2-line-length",
		Name:        "Line length",
		Description: "Keep each line to 42 characters or fewer.",
		Test: perLine(func(line string) []Range {
			if n := utf8.RuneCountInString(line); n > maxLineLength {
				return []Range{{0, n}}
			}
			return nil
		}),
	},
	{
		ID:          "1.3.1-smart-ellipses",
		Name:        "Smart ellipses",
		Description: "Use a single ellipsis character instead of three periods.",
		Test:        pattern(ellipsisPattern),
		Fix:         replaceWith("…"),
	},
	{
		ID:          "1.3.2-interruption-hyphens",
		Name:        "Interruption hyphens",
		Description: "End interrupted speech with two hyphens, not one.",
		Test: perLine(func(line string) []Range {
			r := []rune(line)
			if len(r) >= 2 && r[len(r)-1] == '-' && r[len(r)-2] != '-' {
				return []Range{{len(r) - 1, len(r)}}
			}
			return nil
		}),
		Fix: replaceWith("--"),
	},
	{
		ID:          "1.3.3-hyphen-spacing",
		Name:        "Hyphen spacing",
		Description: "Do not put a space after a speaker hyphen.",
		Test: perLine(func(line string) []Range {
			if strings.HasPrefix(line, "- ") {
				return []Range{{0, 2}}
			}
			return nil
		}),
		Fix: replaceWith("-"),
	},
	{
		ID:          "1.4-line-count",
		Name:        "Line count",
		Description: "Use at most 2 lines per cue.",
		Test: wholeCue(func(c cue.Cue) bool {
			return strings.Count(c.Text, "\n")+1 > maxLineCount
		}),
	},
	{
		ID:          "1.5-low-numerals",
		Name:        "Low numerals",
		Description: "Spell out the numbers 0 through 10.",
		Test:        pattern(lowNumeralPattern),
		Fix: replaceFunc(func(match string) string {
			if word, ok := numberWords[match]; ok {
				return word
			}
			return match
		}),
	},
}

// Rules returns the registered rule set in evaluation order.
func Rules() []*Rule {
	out := make([]*Rule, len(registry))
	copy(out, registry)
	return out
}

// RuleByID looks a rule up by its identifier.
func RuleByID(id string) (*Rule, bool) {
	for _, r := range registry {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// Evaluate runs every registered rule against the cue and returns the
// concatenated violations in registry order. No merging, no sorting.
func Evaluate(c cue.Cue) []Violation {
	var out []Violation
	for _, r := range registry {
		for _, rng := range r.Test(c) {
			out = append(out, Violation{Start: rng.Start, End: rng.End, Rule: r})
		}
	}
	return out
}
