package interfaces

import (
	"context"
	"rfp_automation/internal/domain/entities"
)

//go:generate mockgen -source=document_packager_interface.go -destination=mocks/document_packager_interface.go -package=mock_interfaces

// IDocumentPackager writes the response package of an approved job and
// returns where it was written.
type IDocumentPackager interface {
	Package(ctx context.Context, job entities.Job, approval entities.Approval) (string, error)
}
