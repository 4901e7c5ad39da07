package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type Transaction struct {
	ID          string          `json:"id"`
	UserID      int64           `json:"-"`
	CategoryID  string          `json:"categoryId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type RecordParams struct {
	CategoryID  string
	Description string
	Amount      decimal.Decimal
	Date        time.Time
}

func (p *RecordParams) Validate() error {
	if p.CategoryID == "" {
		return errors.New("categoryId is required")
	}
	if len(p.Description) > 255 {
		return errors.New("description must be 255 characters or less")
	}
	if !p.Amount.IsPositive() {
		return errors.New("amount must be greater than zero")
	}
	if p.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}
