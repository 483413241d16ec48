package domain

import (
	"time"

	"github.com/corebank/corebank/pkg/money"
	"github.com/google/uuid"
)

// DateLayout is the calendar-date form used for daily usage rows.
const DateLayout = "2006-01-02"

// DailyUsage is the observed transaction volume of one account on one
// calendar date. The ceilings themselves are configuration; this row only
// accumulates. Created lazily on the first transaction of the day and never
// deleted; totals are monotonically non-decreasing within a day.
type DailyUsage struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Date        string
	TotalAmount money.Amount
	Count       int
}

// NewDailyUsage creates the zero usage row for an account-date pair.
func NewDailyUsage(accountID uuid.UUID, date string, scale int32) *DailyUsage {
	return &DailyUsage{
		ID:          uuid.New(),
		AccountID:   accountID,
		Date:        date,
		TotalAmount: money.Zero(scale),
	}
}

// UsageDate renders the calendar date a timestamp falls on, in UTC.
func UsageDate(at time.Time) string {
	return at.UTC().Format(DateLayout)
}
