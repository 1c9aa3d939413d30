package text

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// Rule defines a single literal text replacement
type Rule struct {
	// From is the literal text to find
	From string

	// To is the literal replacement text
	To string
}

// Result contains the outcome of applying a rule set to one string
type Result struct {
	// Original is the input string
	Original string

	// Modified is the string after every rule was applied
	Modified string

	// Count is the number of replacements made across all rules
	Count int

	// Partial lists the From texts that were replaced in non-strict mode
	// but never occur in Original as a whole word
	Partial []string
}

// WasModified reports whether any replacement changed the input.
func (r Result) WasModified() bool {
	return r.Modified != r.Original
}

// 🔄 Replacer applies rules in order; each rule sees the previous rule's
// output, so overlapping rules are order dependent.
type Replacer struct {
	rules  []Rule
	strict bool
}

// 🏭 NewReplacer validates rules. In strict mode a rule only matches where
// From is delimited by word boundaries. Letters and digits of any script
// and '_' are word characters, so "bar" does not match inside "übar".
func NewReplacer(rules []Rule, strict bool) (*Replacer, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	return &Replacer{
		rules:  rules,
		strict: strict,
	}, nil
}

// ValidateRules checks that all rules are usable.
func ValidateRules(rules []Rule) error {
	for i, rule := range rules {
		if rule.From == "" {
			return errors.Errorf("rule %d: from text is required", i)
		}
	}
	return nil
}

// Replace applies every rule to s.
func (r *Replacer) Replace(s string) Result {
	result := Result{Original: s}

	current := s
	for _, rule := range r.rules {
		if r.strict {
			matches := wholeWordIndex(current, rule.From)
			result.Count += len(matches)
			current = replaceAt(current, matches, len(rule.From), rule.To)
			continue
		}
		result.Count += strings.Count(current, rule.From)
		current = strings.ReplaceAll(current, rule.From, rule.To)
	}
	result.Modified = current

	if !r.strict && result.WasModified() {
		for _, rule := range r.rules {
			if strings.Contains(s, rule.From) && len(wholeWordIndex(s, rule.From)) == 0 {
				result.Partial = append(result.Partial, rule.From)
			}
		}
	}

	return result
}

// wholeWordIndex returns the start offsets of the non-overlapping
// occurrences of from in s that sit on word boundaries at both ends. A
// boundary lies between two runes that differ in being word characters;
// the ends of s count as non-word.
func wholeWordIndex(s, from string) []int {
	first, _ := utf8.DecodeRuneInString(from)
	last, _ := utf8.DecodeLastRuneInString(from)

	var out []int
	for i := 0; i <= len(s)-len(from); {
		j := strings.Index(s[i:], from)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(from)

		before, _ := utf8.DecodeLastRuneInString(s[:start])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if isWord(before) != isWord(first) && isWord(last) != isWord(after) {
			out = append(out, start)
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		i = start + size
	}
	return out
}

func replaceAt(s string, starts []int, n int, to string) string {
	if len(starts) == 0 {
		return s
	}
	var b strings.Builder
	prev := 0
	for _, start := range starts {
		b.WriteString(s[prev:start])
		b.WriteString(to)
		prev = start + n
	}
	b.WriteString(s[prev:])
	return b.String()
}

// isWord treats utf8.RuneError, returned at the ends of a string, as
// non-word.
func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
