// Package validate checks string parameters against a declarative field
// table before a command reaches a store.
//
// A Check is a closed set of kinds (pattern, enumeration, predicate) that a
// single engine evaluates uniformly. Missing required fields report BAD_REQ,
// values failing their check report BAD_VAL.
package validate

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/sheikh-saqib/accounts-ledger/internal/apperr"
)

// Kind tags the variant carried by a Check.
type Kind int

const (
	KindNone Kind = iota
	KindPattern
	KindEnum
	KindPredicate
)

// Check is a tagged union; only the member matching Kind is set.
type Check struct {
	Kind    Kind
	Pattern *regexp.Regexp
	Values  []string
	// Predicate returns an error message, empty when the value is acceptable.
	Predicate func(string) string
}

// Pattern requires the whole value to match re.
func Pattern(re string) Check {
	return Check{Kind: KindPattern, Pattern: regexp.MustCompile(`^(?:` + re + `)$`)}
}

// OneOf requires the value to equal one of values.
func OneOf(values ...string) Check {
	return Check{Kind: KindEnum, Values: values}
}

// Predicate delegates to fn.
func Predicate(fn func(string) string) Check {
	return Check{Kind: KindPredicate, Predicate: fn}
}

// Field describes one named parameter.
type Field struct {
	Name     string // human readable, used in messages
	Required bool
	Default  string
	Check    Check
}

// Spec maps parameter keys to their field descriptions.
type Spec map[string]Field

// Check reports malformed field descriptions with the INTERNAL code.
func (s Spec) Check() error {
	var errs apperr.List
	for _, key := range s.Keys() {
		f := s[key]
		if strings.TrimSpace(f.Name) == "" {
			errs.Add(apperr.Internal, fmt.Sprintf("field %q has no name", key))
		}
		switch f.Check.Kind {
		case KindNone:
		case KindPattern:
			if f.Check.Pattern == nil {
				errs.Add(apperr.Internal, fmt.Sprintf("field %q: pattern check without a pattern", key))
			}
		case KindEnum:
			if len(f.Check.Values) == 0 {
				errs.Add(apperr.Internal, fmt.Sprintf("field %q: enum check without values", key))
			}
		case KindPredicate:
			if f.Check.Predicate == nil {
				errs.Add(apperr.Internal, fmt.Sprintf("field %q: predicate check without a function", key))
			}
		default:
			errs.Add(apperr.Internal, fmt.Sprintf("field %q: unknown check kind %d", key, f.Check.Kind))
		}
	}
	return errs.Err()
}

// Keys returns the field keys, required ones first, each group sorted.
func (s Spec) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := s[keys[i]].Required, s[keys[j]].Required
		if ri != rj {
			return ri
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Validate returns the trimmed known parameters with defaults filled in, or
// every problem found.
func (s Spec) Validate(params map[string]string) (map[string]string, error) {
	var errs apperr.List
	out := make(map[string]string, len(s))
	for _, key := range s.Keys() {
		f := s[key]
		val := strings.TrimSpace(params[key])
		if val == "" {
			switch {
			case f.Required:
				errs.Add(apperr.BadRequest, fmt.Sprintf("%s must be provided", f.Name))
			case f.Default != "":
				out[key] = f.Default
			}
			continue
		}
		if msg := f.Check.eval(val); msg != "" {
			errs.Add(apperr.BadValue, fmt.Sprintf("bad %s: %s", f.Name, msg))
			continue
		}
		out[key] = val
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c Check) eval(val string) string {
	switch c.Kind {
	case KindPattern:
		if !c.Pattern.MatchString(val) {
			return fmt.Sprintf("%q does not match %s", val, c.Pattern.String())
		}
	case KindEnum:
		if !slices.Contains(c.Values, val) {
			return fmt.Sprintf("%q must be one of %s", val, strings.Join(c.Values, ", "))
		}
	case KindPredicate:
		return c.Predicate(val)
	}
	return ""
}
