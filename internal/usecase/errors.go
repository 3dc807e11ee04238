package usecase

import "errors"

var (
	ErrInvalidJobID      = errors.New("invalid job id")
	ErrJobNotFound       = errors.New("job not found")
	ErrJobNotCompleted   = errors.New("job not completed")
	ErrJobNotCancellable = errors.New("job cannot be cancelled")
	ErrDoubleApproval    = errors.New("job already approved")
	ErrInvalidOverrides  = errors.New("invalid job overrides")
	ErrPackagingFailed   = errors.New("response packaging failed")
	ErrQueueFull         = errors.New("pipeline queue is full")
	ErrPipelineClosed    = errors.New("pipeline is shut down")

	ErrInvalidQuery         = errors.New("invalid query")
	ErrInvalidTopK          = errors.New("topK must be >= 1")
	ErrInvalidPagination    = errors.New("invalid pagination")
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	ErrCatalogUnavailable   = errors.New("catalog index unavailable")

	ErrInvalidRfpID      = errors.New("invalid rfp id")
	ErrInvalidLineItem   = errors.New("invalid line item")
	ErrLedgerUnavailable = errors.New("pricing ledger unavailable")

	ErrCallTimeout = errors.New("collaborator call timed out")
)
