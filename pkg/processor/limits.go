package processor

import (
	"context"

	"github.com/corebank/corebank/pkg/domain"
	"github.com/corebank/corebank/pkg/money"
	"github.com/corebank/corebank/pkg/repository"
)

// limitTracker answers "would this leg push the account's day past its
// ceilings?" and, if not, increments the running totals. Check and
// increment happen inside the same unit of work as the balance mutation, so
// two concurrent legs cannot both pass the check and jointly overshoot.
type limitTracker struct {
	usage         repository.DailyUsageRepository
	amountCeiling money.Amount
	countCeiling  int
	scale         int32
}

func newLimitTracker(
	usage repository.DailyUsageRepository,
	amountCeiling money.Amount,
	countCeiling int,
	scale int32,
) *limitTracker {
	return &limitTracker{
		usage:         usage,
		amountCeiling: amountCeiling,
		countCeiling:  countCeiling,
		scale:         scale,
	}
}

// consume charges the leg's magnitude against the account-date pair. The
// usage row is created lazily on the first transaction of the day; the
// account row lock makes that creation race-free for a given account.
func (t *limitTracker) consume(
	ctx context.Context,
	acct *domain.Account,
	magnitude money.Amount,
	date string,
) error {
	row, err := t.usage.GetForUpdate(ctx, acct.ID, date)
	if err != nil {
		return err
	}
	created := false
	if row == nil {
		row = domain.NewDailyUsage(acct.ID, date, t.scale)
		created = true
	}

	newTotal := row.TotalAmount.Add(magnitude)
	newCount := row.Count + 1
	if newTotal.GreaterThan(t.amountCeiling) || newCount > t.countCeiling {
		return &domain.DailyLimitExceededError{
			AccountNumber: acct.Number,
			Date:          date,
			Attempted:     magnitude,
			UsedAmount:    row.TotalAmount,
			AmountCeiling: t.amountCeiling,
			UsedCount:     row.Count,
			CountCeiling:  t.countCeiling,
		}
	}

	row.TotalAmount = newTotal
	row.Count = newCount
	if created {
		return t.usage.Create(ctx, row)
	}
	return t.usage.Update(ctx, row)
}
