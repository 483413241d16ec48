// Package dto holds the data shapes that cross layer boundaries: query
// filters and page envelopes for transaction history.
package dto

import (
	"time"

	"github.com/corebank/corebank/pkg/domain"
)

// TransactionFilter narrows a transaction history query. Nil/zero fields
// are ignored.
type TransactionFilter struct {
	Type      *domain.TransactionType
	StartDate *time.Time
	EndDate   *time.Time
	Search    string // substring match on description
	Page      int    // 1-based
	PageSize  int
}

// DefaultPageSize bounds unpaged history queries.
const DefaultPageSize = 20

// MaxPageSize caps caller-supplied page sizes.
const MaxPageSize = 100

// Normalize clamps paging values into range.
func (f *TransactionFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

// TransactionPage is one page of history, newest first.
type TransactionPage struct {
	Items    []*domain.Transaction
	Page     int
	PageSize int
	Total    int64
}
