package interfaces

import (
	"context"
	"rfp_automation/internal/domain/entities"
)

//go:generate mockgen -source=response_drafter_interface.go -destination=mocks/response_drafter_interface.go -package=mock_interfaces

type IResponseDrafter interface {
	Draft(ctx context.Context, facts entities.DraftFacts) (string, error)
}
