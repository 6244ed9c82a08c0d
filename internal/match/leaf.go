package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Predicate tests an observed value against a comparator's value.
// A returned error is reported as a fault on the result.
type Predicate func(expected, observed any) (bool, error)

// leaf is the shared implementation of single-value comparators: an
// operation name, an immutable value and a predicate.
type leaf struct {
	op    string
	value any
	pred  Predicate
}

func (l *leaf) Operation() string { return l.op }

func (l *leaf) Value() any { return l.value }

func (l *leaf) evaluate(_ frame, observed any) (*Result, error) {
	ok, err := l.pred(l.value, observed)
	if err != nil {
		return nil, err
	}
	return &Result{Operation: l.op, Success: ok, Expected: l.value, Observed: observed}, nil
}

// Leaf is a user-defined single-value comparator.
type Leaf struct{ leaf }

// NewLeaf builds a comparator named op that runs pred against value.
func NewLeaf(op string, value any, pred Predicate) *Leaf {
	return &Leaf{leaf{op: op, value: value, pred: pred}}
}

// coerced wraps a predicate so it sees the expectation coerced toward the
// observed type.
func coerced(p Predicate) Predicate {
	return func(expected, observed any) (bool, error) {
		c, err := Coerce(expected, observed)
		if err != nil {
			return false, err
		}
		return p(c, observed)
	}
}

// ordered builds a predicate from the sign of order(expected, observed).
func ordered(accept func(int) bool) Predicate {
	return coerced(func(expected, observed any) (bool, error) {
		c, err := order(expected, observed)
		if err != nil {
			return false, err
		}
		return accept(c), nil
	})
}

// Equals succeeds when the observed value equals the coerced value.
type Equals struct{ leaf }

func NewEquals(value any) *Equals {
	return &Equals{leaf{op: OpEquals, value: value, pred: coerced(func(e, o any) (bool, error) {
		return equal(e, o), nil
	})}}
}

// Unequals succeeds when the observed value differs from the coerced value.
type Unequals struct{ leaf }

func NewUnequals(value any) *Unequals {
	return &Unequals{leaf{op: OpUnequals, value: value, pred: coerced(func(e, o any) (bool, error) {
		return !equal(e, o), nil
	})}}
}

// Anything accepts every observed value, including null.
type Anything struct{ leaf }

func NewAnything() *Anything {
	return &Anything{leaf{op: OpAnything, pred: func(_, _ any) (bool, error) { return true, nil }}}
}

// Less succeeds when the observed value is less than the value, that is
// when the coerced value is greater than the observation.
type Less struct{ leaf }

func NewLess(value any) *Less {
	return &Less{leaf{op: OpLess, value: value, pred: ordered(func(c int) bool { return c > 0 })}}
}

// LessOrEqual succeeds when the coerced value is >= the observation.
type LessOrEqual struct{ leaf }

func NewLessOrEqual(value any) *LessOrEqual {
	return &LessOrEqual{leaf{op: OpLessOrEqual, value: value, pred: ordered(func(c int) bool { return c >= 0 })}}
}

// Greater succeeds when the coerced value is < the observation.
type Greater struct{ leaf }

func NewGreater(value any) *Greater {
	return &Greater{leaf{op: OpGreater, value: value, pred: ordered(func(c int) bool { return c < 0 })}}
}

// GreaterOrEqual succeeds when the coerced value is <= the observation.
type GreaterOrEqual struct{ leaf }

func NewGreaterOrEqual(value any) *GreaterOrEqual {
	return &GreaterOrEqual{leaf{op: OpGreaterOrEqual, value: value, pred: ordered(func(c int) bool { return c <= 0 })}}
}

// Optional accepts null or a value equal to its own, without coercion.
type Optional struct{ leaf }

func NewOptional(value any) *Optional {
	return &Optional{leaf{op: OpOptional, value: value, pred: func(e, o any) (bool, error) {
		return o == nil || equal(e, o), nil
	}}}
}

// NotNull accepts every non-null observed value.
type NotNull struct{ leaf }

func NewNotNull() *NotNull {
	return &NotNull{leaf{op: OpNotNull, pred: func(_, o any) (bool, error) {
		return o != nil, nil
	}}}
}

// Like matches text against a shell wildcard, ignoring case.
type Like struct{ leaf }

func NewLike(pattern string) *Like {
	return &Like{leaf{op: OpLike, value: pattern, pred: wildcard(true)}}
}

// LikeCase matches text against a shell wildcard, respecting case.
type LikeCase struct{ leaf }

func NewLikeCase(pattern string) *LikeCase {
	return &LikeCase{leaf{op: OpLikeCase, value: pattern, pred: wildcard(false)}}
}

func wildcard(fold bool) Predicate {
	return func(expected, observed any) (bool, error) {
		pattern, ok := expected.(string)
		if !ok {
			return false, errors.Mark(errors.Newf("wildcard must be a string, got %s", Describe(expected)), ErrPattern)
		}
		text, ok := observed.(string)
		if !ok {
			return false, errors.Newf("wildcard match requires a string, got %s", Describe(observed))
		}
		if fold {
			pattern, text = foldCase(pattern), foldCase(text)
		}
		re, err := regexp.Compile(translateWildcard(pattern))
		if err != nil {
			return false, errors.Mark(errors.Wrapf(err, "wildcard %q", pattern), ErrPattern)
		}
		return re.MatchString(text), nil
	}
}

// foldCase applies full Unicode case folding on NFC-normalized text.
// Casers are stateful, so each call builds its own.
func foldCase(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// translateWildcard converts a shell wildcard (* ? [seq] [!seq]) into an
// anchored regular expression matching the whole text.
func translateWildcard(pattern string) string {
	runes := []rune(pattern)
	var b strings.Builder
	b.WriteString(`\A(?s:`)
	for i := 0; i < len(runes); {
		r := runes[i]
		i++
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			j := i
			if j < len(runes) && runes[j] == '!' {
				j++
			}
			if j < len(runes) && runes[j] == ']' {
				j++
			}
			for j < len(runes) && runes[j] != ']' {
				j++
			}
			if j >= len(runes) {
				b.WriteString(`\[`)
				continue
			}
			set := string(runes[i:j])
			i = j + 1
			set = strings.ReplaceAll(set, `\`, `\\`)
			set = strings.ReplaceAll(set, `[`, `\[`)
			switch {
			case strings.HasPrefix(set, "!"):
				set = "^" + set[1:]
			case strings.HasPrefix(set, "^"):
				set = `\` + set
			}
			b.WriteString("[" + set + "]")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`)\z`)
	return b.String()
}

// Match tests text against a regular expression anchored at the start of
// the text only; trailing text after the match is allowed.
type Match struct{ leaf }

// NewMatch builds a Match. flags is a string of RE2 flag letters (i, m, s,
// U) or names (IGNORECASE, MULTILINE, DOTALL, UNGREEDY) separated by '|'.
func NewMatch(regex string, flags string) *Match {
	value := map[string]any{"regex": regex, "flags": flags}
	return &Match{leaf{op: OpMatch, value: value, pred: matchRegex}}
}

var flagNames = map[string]string{
	"I": "i", "IGNORECASE": "i",
	"M": "m", "MULTILINE": "m",
	"S": "s", "DOTALL": "s",
	"U": "U", "UNGREEDY": "U",
}

// regexFlags normalizes a flag specification into RE2 flag letters.
func regexFlags(names string) (string, error) {
	names = strings.TrimSpace(names)
	if names == "" {
		return "", nil
	}
	if !strings.Contains(names, "|") && strings.Trim(names, "imsU") == "" {
		return names, nil
	}
	var letters strings.Builder
	for _, name := range strings.Split(names, "|") {
		name = strings.TrimPrefix(strings.TrimSpace(name), "re.")
		letter, ok := flagNames[strings.ToUpper(name)]
		if !ok {
			return "", errors.Mark(errors.Newf("unknown regex flag %q", name), ErrPattern)
		}
		letters.WriteString(letter)
	}
	return letters.String(), nil
}

func matchRegex(expected, observed any) (bool, error) {
	fields, ok := expected.(map[string]any)
	if !ok {
		return false, errors.Mark(errors.Newf("match value must be a mapping, got %s", Describe(expected)), ErrPattern)
	}
	regex, _ := fields["regex"].(string)
	flagSpec, _ := fields["flags"].(string)

	text, ok := observed.(string)
	if !ok {
		return false, errors.Newf("regex match requires a string, got %s", Describe(observed))
	}

	flags, err := regexFlags(flagSpec)
	if err != nil {
		return false, err
	}
	expr := `\A(?:` + regex + `)`
	if flags != "" {
		expr = fmt.Sprintf("(?%s)%s", flags, expr)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return false, errors.Mark(errors.Wrapf(err, "regex %q", regex), ErrPattern)
	}
	return re.MatchString(text), nil
}
