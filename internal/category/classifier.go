package category

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Fallback decides the category pair for a transaction no rule matched.
// The credit/debit signal is only meaningful to some policies.
type Fallback func(isCredit bool) (major, minor string)

// CreditDebitFallback routes unmatched transactions to unknown/credit or
// unknown/debit depending on the transaction-type signal. Used by the bank
// adapter.
func CreditDebitFallback() Fallback {
	return func(isCredit bool) (string, string) {
		if isCredit {
			return "unknown", "credit"
		}
		return "unknown", "debit"
	}
}

// FixedFallback routes every unmatched transaction to one constant pair.
// The credit-card adapter uses FixedFallback("expenses", "unknown").
func FixedFallback(major, minor string) Fallback {
	return func(bool) (string, string) {
		return major, minor
	}
}

// Stats counts classification outcomes so tests and operators can observe
// no-match and invalid-override events without parsing log output.
type Stats struct {
	Matched         int
	Overridden      int
	NoMatch         int
	InvalidOverride int
}

// Classifier resolves transactions to (major, minor) category pairs using
// an explicit override when present, then ordered substring matching, then
// the configured fallback. It never fails: every transaction lands in some
// valid pair.
type Classifier struct {
	taxonomy *Taxonomy
	rules    []Rule
	fallback Fallback
	log      zerolog.Logger

	mu    sync.Mutex
	stats Stats
}

// NewClassifier creates a classifier over the taxonomy's rules with the
// given no-match policy.
func NewClassifier(taxonomy *Taxonomy, fallback Fallback, log zerolog.Logger) *Classifier {
	return &Classifier{
		taxonomy: taxonomy,
		rules:    taxonomy.Rules(),
		fallback: fallback,
		log:      log,
	}
}

// Classify resolves a description plus optional override token to a
// category pair.
//
// A valid override takes absolute precedence over description matching. An
// override absent from the taxonomy is reported and ignored. Substring
// rules are scanned in configuration order against the lowercased
// description and the first hit wins. When nothing applies the fallback
// policy decides.
func (c *Classifier) Classify(description, override string, isCredit bool) (string, string) {
	if override != "" {
		if major, ok := c.taxonomy.MajorOf(override); ok {
			c.count(func(s *Stats) { s.Overridden++ })
			return major, override
		}
		c.count(func(s *Stats) { s.InvalidOverride++ })
		c.log.Warn().Str("override", override).Str("description", description).
			Msg("invalid category override, falling back to description matching")
	}

	lowered := strings.ToLower(description)
	for _, rule := range c.rules {
		if strings.Contains(lowered, rule.Substring) {
			c.count(func(s *Stats) { s.Matched++ })
			return rule.Major, rule.Minor
		}
	}

	c.count(func(s *Stats) { s.NoMatch++ })
	major, minor := c.fallback(isCredit)
	c.log.Debug().Str("description", description).
		Str("major", major).Str("minor", minor).
		Msg("no category match for description")
	return major, minor
}

// Stats returns a snapshot of the classification counters.
func (c *Classifier) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Classifier) count(update func(*Stats)) {
	c.mu.Lock()
	update(&c.stats)
	c.mu.Unlock()
}
