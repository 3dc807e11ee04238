package interfaces

import (
	"context"
	"rfp_automation/internal/domain/entities"
)

//go:generate mockgen -source=pricing_ledger_interface.go -destination=mocks/pricing_ledger_interface.go -package=mock_interfaces

// IPricingLedger hands out the current immutable price list.
type IPricingLedger interface {
	Snapshot(ctx context.Context) (*entities.LedgerSnapshot, error)
}
