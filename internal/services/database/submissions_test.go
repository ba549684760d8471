package database_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mountain-recommendation-engine/internal/models"
	"mountain-recommendation-engine/internal/services/database"
	"mountain-recommendation-engine/internal/services/resolver"
)

var testDB *database.DB

// These tests need a disposable PostgreSQL database in DATABASE_URL.
func TestMain(m *testing.M) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		os.Exit(0)
	}

	var err error
	testDB, err = database.NewFromURL(url)
	if err != nil {
		panic("Failed to connect to test database: " + err.Error())
	}

	if err := testDB.EnsureSchema(context.Background()); err != nil {
		panic("Failed to apply schema: " + err.Error())
	}

	code := m.Run()

	testDB.Close()
	os.Exit(code)
}

func resolved(batchID, respondentID, email string, raw models.RawProfile) *models.SubmissionCreate {
	result := resolver.Explain(models.NewProfile(raw))
	return &models.SubmissionCreate{
		BatchID:         batchID,
		RespondentID:    respondentID,
		Email:           email,
		Profile:         raw,
		RuleNumber:      result.RuleNumber,
		DestinationName: result.Recommendation.DestinationName,
		Rationale:       result.Recommendation.Rationale,
	}
}

func TestHealthCheck(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, testDB.HealthCheck(ctx))
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	require.NoError(t, testDB.EnsureSchema(context.Background()))
}

func TestSubmissionRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := database.NewSubmissionRepository(testDB)
	batchID := "test-" + uuid.NewString()[:8]

	raw := models.RawProfile{FamilySize: "5", Budget: "high", VacationStyle: "comfort", Region: "baku"}
	id, err := repo.Create(ctx, resolved(batchID, "R1", "r1@example.az", raw))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, batchID, got.BatchID)
	assert.Equal(t, "R1", got.RespondentID)
	assert.Equal(t, raw, got.Profile)
	assert.Equal(t, 1, got.RuleNumber)
	assert.Equal(t, resolver.ShahdagMountainResort, got.DestinationName)
	assert.Nil(t, got.NotifiedAt)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, models.ErrSubmissionNotFound)
}

func TestSubmissionRepository_BatchLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := database.NewSubmissionRepository(testDB)
	batchID := "test-" + uuid.NewString()[:8]

	batch := []*models.SubmissionCreate{
		resolved(batchID, "R1", "r1@example.az", models.RawProfile{Interest: "cultural"}),
		resolved(batchID, "R2", "", models.RawProfile{Interest: "nature"}),
		resolved(batchID, "R3", "r3@example.az", models.RawProfile{}),
	}

	result, err := repo.BulkInsert(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 3, result.InsertedCount)
	assert.Zero(t, result.FailedCount)
	assert.Len(t, result.IDs, 3)

	listed, err := repo.ListByBatch(ctx, batchID, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 3)

	pending, err := repo.ListPendingNotification(ctx, batchID)
	require.NoError(t, err)
	require.Len(t, pending, 2, "rows without an email are never pending")

	require.NoError(t, repo.MarkNotified(ctx, pending[0].ID))
	assert.ErrorIs(t, repo.MarkNotified(ctx, uuid.NewString()), models.ErrSubmissionNotFound)

	pending, err = repo.ListPendingNotification(ctx, batchID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	summary, err := repo.Summary(ctx, batchID)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalSubmissions)
	assert.Equal(t, 1, summary.NotifiedCount)
	assert.Equal(t, 1, summary.FallbackCount)
	assert.Len(t, summary.ByDestination, 3)
}

func TestSubmissionRepository_DeleteAll(t *testing.T) {
	ctx := context.Background()
	repo := database.NewSubmissionRepository(testDB)

	_, err := repo.Create(ctx, resolved("test-delete", "R1", "", models.RawProfile{}))
	require.NoError(t, err)

	deleted, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, deleted, int64(1))

	summary, err := repo.Summary(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, summary.TotalSubmissions)
	assert.Empty(t, summary.ByDestination)
}
