package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeConnelly/Finance-Tracker/pkg/transaction"
)

const bankDateLayout = "2006/01/02"

// BankParser parses bank activity export rows.
//
// Rows have six fields (date, amount, description, two unused, type) or
// seven when the source asserts an explicit minor category. The type field
// is "CREDIT" for deposits; anything else is treated as a debit.
type BankParser struct{}

func (BankParser) Parse(fields []string) (transaction.Transaction, error) {
	var override string
	switch len(fields) {
	case 6:
	case 7:
		override = strings.TrimSpace(fields[6])
	default:
		return transaction.Transaction{}, fmt.Errorf("expected 6 or 7 fields, got %d", len(fields))
	}

	date, err := time.Parse(bankDateLayout, strings.TrimSpace(fields[0]))
	if err != nil {
		return transaction.Transaction{}, fmt.Errorf("invalid date %q: %w", fields[0], err)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(fields[1]))
	if err != nil {
		return transaction.Transaction{}, fmt.Errorf("invalid amount %q: %w", fields[1], err)
	}

	return transaction.Transaction{
		Date:        date,
		Description: fields[2],
		Amount:      amount,
		IsCredit:    strings.TrimSpace(fields[5]) == "CREDIT",
		Override:    override,
	}, nil
}
