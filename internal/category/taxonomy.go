package category

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MikeConnelly/Finance-Tracker/internal/config"
)

// ErrUnknownMajorCategory is returned when a lookup names a major category
// the taxonomy does not contain.
var ErrUnknownMajorCategory = errors.New("unknown major category")

// Rule is one compiled substring-matching rule. Rules are evaluated in
// configuration order and the first match wins, so order encodes priority
// among overlapping substrings.
type Rule struct {
	Major     string
	Minor     string
	Substring string // lowercased at construction
}

// Taxonomy owns the authoritative two-level category namespace and the
// ordered substring rules derived from it. Minor category names are
// globally unique across all major categories; construction enforces this
// because override resolution looks majors up by minor name alone.
type Taxonomy struct {
	majors  []string
	minors  map[string][]string
	majorOf map[string]string
	rules   []Rule
}

// NewTaxonomy builds a taxonomy from ordered category rules. It fails fast
// on duplicate minor names, duplicate substrings and empty names.
func NewTaxonomy(rules []config.CategoryRule) (*Taxonomy, error) {
	t := &Taxonomy{
		minors:  make(map[string][]string),
		majorOf: make(map[string]string),
	}
	substringOwner := make(map[string]string)

	for _, rule := range rules {
		if rule.Major == "" || rule.Minor == "" {
			return nil, fmt.Errorf("category rule has empty name: major=%q minor=%q", rule.Major, rule.Minor)
		}
		if owner, ok := t.majorOf[rule.Minor]; ok {
			return nil, fmt.Errorf("minor category %q declared under both %q and %q", rule.Minor, owner, rule.Major)
		}
		if _, ok := t.minors[rule.Major]; !ok {
			t.majors = append(t.majors, rule.Major)
		}
		t.minors[rule.Major] = append(t.minors[rule.Major], rule.Minor)
		t.majorOf[rule.Minor] = rule.Major

		for _, substring := range rule.Substrings {
			lowered := strings.ToLower(substring)
			if lowered == "" {
				return nil, fmt.Errorf("category %s/%s has an empty substring", rule.Major, rule.Minor)
			}
			if owner, ok := substringOwner[lowered]; ok {
				return nil, fmt.Errorf("substring %q assigned to both %q and %q", lowered, owner, rule.Minor)
			}
			substringOwner[lowered] = rule.Minor
			t.rules = append(t.rules, Rule{Major: rule.Major, Minor: rule.Minor, Substring: lowered})
		}
	}
	return t, nil
}

// Majors returns the major categories in configuration order.
func (t *Taxonomy) Majors() []string {
	out := make([]string, len(t.majors))
	copy(out, t.majors)
	return out
}

// Minors returns the minor categories of a major in configuration order.
func (t *Taxonomy) Minors(major string) ([]string, error) {
	minors, ok := t.minors[major]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMajorCategory, major)
	}
	out := make([]string, len(minors))
	copy(out, minors)
	return out, nil
}

// MajorOf looks up the major category containing a minor category. The
// second return is false when no major contains it; this is checked on
// every override token so it is not an error.
func (t *Taxonomy) MajorOf(minor string) (string, bool) {
	major, ok := t.majorOf[minor]
	return major, ok
}

// Contains reports whether (major, minor) is a pair in the taxonomy.
func (t *Taxonomy) Contains(major, minor string) bool {
	owner, ok := t.majorOf[minor]
	return ok && owner == major
}

// Rules returns the compiled substring rules in priority order.
func (t *Taxonomy) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// ZeroTemplate returns a fresh {major: {minor: 0}} map spanning the entire
// taxonomy. Every call produces an independent deep copy; mutating one
// never affects another.
func (t *Taxonomy) ZeroTemplate() map[string]map[string]decimal.Decimal {
	template := make(map[string]map[string]decimal.Decimal, len(t.majors))
	for _, major := range t.majors {
		minors := make(map[string]decimal.Decimal, len(t.minors[major]))
		for _, minor := range t.minors[major] {
			minors[minor] = decimal.Zero
		}
		template[major] = minors
	}
	return template
}
