package interfaces

import (
	"context"
	"rfp_automation/internal/domain/entities"
)

//go:generate mockgen -source=rfp_source_interface.go -destination=mocks/rfp_source_interface.go -package=mock_interfaces

// IRfpSourceProvider returns the already filtered and ranked best RFP.
// ok is false when there is no candidate.
type IRfpSourceProvider interface {
	SelectBest(ctx context.Context, hints []string) (doc entities.RfpDocument, ok bool, err error)
}
