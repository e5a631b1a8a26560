package repositories

import (
	"context"
)

// UnitOfWork defines the interface for atomic operations
type UnitOfWork interface {
	// Do executes fn so that every repository write made with the
	// context it receives commits together or not at all.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// StoreLimits are the record store's hard per-call bounds.
type StoreLimits struct {
	// MaxBatchOps bounds the writes committed by one atomic batch.
	MaxBatchOps int
	// MaxInFilter bounds the keys in one "value is one of" filter.
	MaxInFilter int
}

// DefaultStoreLimits mirrors the document store the data was modelled on.
var DefaultStoreLimits = StoreLimits{MaxBatchOps: 500, MaxInFilter: 30}
