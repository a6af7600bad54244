package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/andy/billbook/internal/domain"
	"github.com/andy/billbook/internal/storage"
)

func TestCompanyRepo_GetUnset(t *testing.T) {
	repo := NewCompanyRepo(storage.NewMemoryStore(), zaptest.NewLogger(t))

	profile, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestCompanyRepo_SaveReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	repo := NewCompanyRepo(storage.NewMemoryStore(), zaptest.NewLogger(t))

	require.NoError(t, repo.Save(ctx, &domain.CompanyProfile{Name: "Acme", Phone: "555", Email: "a@acme.test"}))
	require.NoError(t, repo.Save(ctx, &domain.CompanyProfile{Name: "Acme Ltd", Address: "1 Road"}))

	profile, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, &domain.CompanyProfile{Name: "Acme Ltd", Address: "1 Road"}, profile)
}

func TestCompanyRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewCompanyRepo(storage.NewMemoryStore(), zaptest.NewLogger(t))

	require.NoError(t, repo.Save(ctx, &domain.CompanyProfile{Name: "Acme"}))
	require.NoError(t, repo.Delete(ctx))
	require.NoError(t, repo.Delete(ctx))

	profile, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestCompanyRepo_Unreadable(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, CompanyInfoKey, []byte("][")))

	profile, err := NewCompanyRepo(store, zaptest.NewLogger(t)).Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestCompanyRepo_WriteFailures(t *testing.T) {
	ctx := context.Background()
	repo := NewCompanyRepo(&brokenStore{err: errors.New("boom")}, zaptest.NewLogger(t))

	profile, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, profile)

	require.ErrorIs(t, repo.Save(ctx, &domain.CompanyProfile{Name: "Acme"}), ErrProfileSaveFailed)
	require.ErrorIs(t, repo.Delete(ctx), ErrProfileClearFailed)
}
