package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single normalized financial transaction as
// produced by an ingestion adapter. Amounts are always non-negative; the
// credit/debit distinction is carried separately.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	IsCredit    bool            `json:"is_credit"`
	Override    string          `json:"override,omitempty"` // explicit minor category from the source row
	Source      string          `json:"source"`             // originating file path
	Line        int             `json:"line"`               // 1-based line within the source file
}
