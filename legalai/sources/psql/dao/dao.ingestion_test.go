package dao

import (
	"context"
	"fmt"
	"testing"
	"time"

	"legalai/legalai/sources/psql"
	"legalai/legalai/sources/psql/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func setupTestDAO(t *testing.T) *IngestionDAO {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := psql.Open(context.Background(), sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(db.Close)
	return NewIngestionDAO(db.DB)
}

func TestCreateIngestionAssignsID(t *testing.T) {
	d := setupTestDAO(t)
	ing := &models.Ingestion{AdminID: "admin_1", URL: "https://example.com", Status: models.IngestionSucceeded}

	require.NoError(t, d.CreateIngestion(context.Background(), ing))
	assert.NotEqual(t, uuid.Nil, ing.ID)
	assert.False(t, ing.CreatedAt.IsZero())
}

func TestGetRecentIngestionsNewestFirst(t *testing.T) {
	d := setupTestDAO(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		ing := &models.Ingestion{
			AdminID:   "admin_1",
			FileName:  name,
			Status:    models.IngestionSucceeded,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, d.CreateIngestion(ctx, ing))
	}
	require.NoError(t, d.CreateIngestion(ctx, &models.Ingestion{AdminID: "admin_2", FileName: "z.pdf", Status: models.IngestionFailed, CreatedAt: base.Add(-time.Minute)}))

	recent, err := d.GetRecentIngestions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c.pdf", recent[0].FileName)
	assert.Equal(t, "b.pdf", recent[1].FileName)

	mine, err := d.GetIngestionsByAdmin(ctx, "admin_2", 10)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, models.IngestionFailed, mine[0].Status)
}
