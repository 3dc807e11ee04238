package pricing

import (
	"context"
	"errors"
	"sync/atomic"

	"rfp_automation/internal/domain/entities"
	"rfp_automation/internal/usecase/interfaces"
)

var ErrLedgerNotLoaded = errors.New("pricing ledger not loaded")

// Ledger serves read-only price snapshots. Replace swaps the whole snapshot so
// a pricing call never observes a half-loaded workbook.
type Ledger struct {
	snap atomic.Pointer[entities.LedgerSnapshot]
}

var _ interfaces.IPricingLedger = (*Ledger)(nil)

func NewLedger(products []entities.ProductPrice, tests []entities.TestPrice) *Ledger {
	l := &Ledger{}
	l.Replace(products, tests)
	return l
}

func (l *Ledger) Replace(products []entities.ProductPrice, tests []entities.TestPrice) {
	l.snap.Store(entities.NewLedgerSnapshot(products, tests))
}

func (l *Ledger) Snapshot(ctx context.Context) (*entities.LedgerSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := l.snap.Load()
	if s == nil {
		return nil, ErrLedgerNotLoaded
	}
	return s, nil
}
