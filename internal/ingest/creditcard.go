package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeConnelly/Finance-Tracker/pkg/transaction"
)

const creditCardDateLayout = "01/02/2006"

var (
	amountPattern         = regexp.MustCompile(`^-?\$\d+\.\d\d$`)
	positiveAmountPattern = regexp.MustCompile(`^\$(\d+\.\d\d)$`)
)

// CreditCardParser parses credit-card activity export rows.
//
// The exports are unquoted, so a description containing a comma is split
// across extra fields and has to be reassembled. The base row is
// (date, description, amount, unused) with an optional trailing explicit
// minor category. A five-field row is ambiguous between "description with
// one comma" and "row with override"; the amount field position decides,
// since a real amount always looks like $12.34.
//
// Amounts are dollar-prefixed and must be positive: negative rows are card
// payments or refunds, which are rejected rather than counted as spending.
type CreditCardParser struct{}

func (CreditCardParser) Parse(fields []string) (transaction.Transaction, error) {
	var dateStr, desc, amountStr, override string
	switch n := len(fields); {
	case n == 1:
		// trailer line at the end of the export
		return transaction.Transaction{}, errSkipRow
	case n == 4:
		dateStr, desc, amountStr = fields[0], fields[1], fields[2]
	case n == 5:
		dateStr, desc, amountStr, override = fields[0], fields[1], fields[2], fields[4]
		if !amountPattern.MatchString(strings.TrimSpace(amountStr)) {
			// the description contained a comma and there is no override
			desc = strings.Join(fields[1:3], ",")
			amountStr = fields[3]
			override = ""
		}
	case n > 5:
		desc = strings.Join(fields[1:n-3], ",")
		dateStr, amountStr, override = fields[0], fields[n-3], fields[n-1]
	default:
		return transaction.Transaction{}, fmt.Errorf("expected at least 4 fields, got %d", n)
	}

	m := positiveAmountPattern.FindStringSubmatch(strings.TrimSpace(amountStr))
	if m == nil {
		return transaction.Transaction{}, fmt.Errorf("negative or invalid amount %q", amountStr)
	}
	amount, err := decimal.NewFromString(m[1])
	if err != nil {
		return transaction.Transaction{}, fmt.Errorf("invalid amount %q: %w", amountStr, err)
	}
	date, err := time.Parse(creditCardDateLayout, strings.TrimSpace(dateStr))
	if err != nil {
		return transaction.Transaction{}, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}

	return transaction.Transaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Override:    strings.TrimSpace(override),
	}, nil
}
