package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/andy/billbook/internal/domain"
	"github.com/andy/billbook/internal/storage"
)

// CompanyRepo is a storage.Store implementation of CompanyRepository
type CompanyRepo struct {
	store  storage.Store
	logger *zap.Logger
}

// NewCompanyRepo creates a new CompanyRepo
func NewCompanyRepo(store storage.Store, logger *zap.Logger) *CompanyRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompanyRepo{store: store, logger: logger}
}

// Get retrieves the company profile, or returns nil if none was saved or the
// stored one cannot be read
func (r *CompanyRepo) Get(ctx context.Context) (*domain.CompanyProfile, error) {
	var profile domain.CompanyProfile
	if !readDocument(ctx, r.store, r.logger, CompanyInfoKey, &profile) {
		return nil, nil
	}
	return &profile, nil
}

// Save replaces the stored profile
func (r *CompanyRepo) Save(ctx context.Context, profile *domain.CompanyProfile) error {
	if err := writeDocument(ctx, r.store, CompanyInfoKey, profile); err != nil {
		r.logger.Error("save company info", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrProfileSaveFailed, err)
	}
	return nil
}

// Delete removes the profile (no error if none exists)
func (r *CompanyRepo) Delete(ctx context.Context) error {
	if err := r.store.Remove(ctx, CompanyInfoKey); err != nil {
		r.logger.Error("clear company info", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrProfileClearFailed, err)
	}
	return nil
}
