package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/logger"
)

// setupTestStore connects to the database named by PDFMARK_TEST_POSTGRES_DSN.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("PDFMARK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PDFMARK_TEST_POSTGRES_DSN not set")
	}

	store, err := Open(context.Background(), DefaultConfig(dsn), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), Config{}, logger.Nop())
	assert.Error(t, err)
}

func TestOpen_InvalidDSN(t *testing.T) {
	_, err := Open(context.Background(), DefaultConfig("postgres://%zz"), logger.Nop())
	assert.Error(t, err)
}

func TestAnnotationStore_RoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	annotations := store.AnnotationStore()

	// A unique file name isolates runs against a shared database.
	file := uuid.NewString() + ".pdf"
	group := uuid.NewString()

	for i, kind := range []domain.MultipageType{domain.MultipageStart, domain.MultipageEnd} {
		_, err := annotations.Insert(ctx, file, &domain.Annotation{
			Page:             i + 1,
			Rect:             domain.Rect{X0: 0, Y0: 0, X1: 50, Y1: 80},
			Text:             "7 March",
			Type:             domain.AnnotationMeta,
			Field:            "due_date",
			StandardizedDate: domain.StringPtr("2024-03-07"),
			Multipage:        &domain.Multipage{Position: i + 1, Type: kind, GroupID: group},
		})
		require.NoError(t, err)
	}
	single, err := annotations.Insert(ctx, file, &domain.Annotation{Type: domain.AnnotationMeta, Field: "currency"})
	require.NoError(t, err)

	rows, err := annotations.QueryByFile(ctx, file)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, single, *rows[0].ID, "single-page rows sort before groups")
	assert.Equal(t, domain.MultipageStart, rows[1].Multipage.Type)
	assert.Equal(t, "2024-03-07", *rows[2].StandardizedDate)

	for _, r := range rows {
		require.NoError(t, annotations.DeleteByID(ctx, *r.ID))
	}
	assert.ErrorIs(t, annotations.DeleteByID(ctx, single), domain.ErrNotFound)
}
