//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/scam-service/pkg/testutil"
)

func TestAssessmentRepository_Integration(t *testing.T) {
	ctx := context.Background()
	pg := testutil.NewPostgresContainer(ctx, t, "../../../migrations")
	repo := NewAssessmentRepository(pg.Pool)

	original := testAssessment(t)
	require.NoError(t, repo.Save(ctx, original))
	// Saving the same assessment twice is a no-op.
	require.NoError(t, repo.Save(ctx, original))

	found, err := repo.FindByID(ctx, original.ID())
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.Equal(t, original.ID(), found.ID())
	assert.Equal(t, original.Content(), found.Content())
	assert.Equal(t, original.URL(), found.URL())
	assert.Equal(t, original.RiskScore(), found.RiskScore())
	assert.True(t, original.RiskLevel().Equal(found.RiskLevel()))
	assert.Equal(t, original.Method(), found.Method())
	assert.Equal(t, original.Evidence(), found.Evidence())
	assert.Equal(t, original.Action(), found.Action())
	assert.Equal(t, original.Features().Values(), found.Features().Values())
	assert.True(t, original.CreatedAt().Equal(found.CreatedAt()))

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}
