package paystation

import (
	"fmt"
	"time"

	"github.com/temoto/paystation/currency"
)

// Receipt is issued by Buy. Immutable, safe to copy.
type Receipt struct {
	minutes int
	amount  currency.Amount
	issued  time.Time
}

// Minutes of parking time purchased.
func (r Receipt) Minutes() int            { return r.minutes }
func (r Receipt) Amount() currency.Amount { return r.amount }
func (r Receipt) Issued() time.Time       { return r.issued }

func (r Receipt) String() string {
	return fmt.Sprintf("receipt time=%dm paid=%s", r.minutes, r.amount.Format100I())
}
