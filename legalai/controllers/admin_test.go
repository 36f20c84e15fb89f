package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"legalai/legalai/auth"
	"legalai/legalai/services/ingest"
	"legalai/legalai/sources/psql/models"
	"legalai/legalai/web"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	all      []models.Ingestion
	askedFor string
}

func (f *fakeLister) GetRecentIngestions(ctx context.Context, limit int) ([]models.Ingestion, error) {
	return f.all, nil
}

func (f *fakeLister) GetIngestionsByAdmin(ctx context.Context, adminID string, limit int) ([]models.Ingestion, error) {
	f.askedFor = adminID
	var out []models.Ingestion
	for _, ing := range f.all {
		if ing.AdminID == adminID {
			out = append(out, ing)
		}
	}
	return out, nil
}

func TestAdminDashboardListsOwnIngestions(t *testing.T) {
	content, err := web.LoadContent("")
	require.NoError(t, err)
	renderer, err := web.NewRenderer(content)
	require.NoError(t, err)

	now := time.Now()
	lister := &fakeLister{all: []models.Ingestion{
		{AdminID: "admin_1", FileName: "lease.pdf", Status: models.IngestionSucceeded, CreatedAt: now},
		{AdminID: "admin_2", URL: "https://example.com/act", Status: models.IngestionFailed, CreatedAt: now},
	}}
	ctrl := NewAdminController(renderer, ingest.NewService(nil, nil, nil), lister, 1)

	s := auth.State{Loaded: true, User: &auth.User{ID: "admin_1", PublicMetadata: map[string]interface{}{"role": "admin"}}}
	rr := httptest.NewRecorder()
	ctrl.Dashboard(rr, httptest.NewRequest(http.MethodGet, "/admin", nil), s)
	require.Equal(t, http.StatusOK, rr.Code)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "admin_1", lister.askedFor)
	mine := doc.Find("#mine tr." + models.IngestionSucceeded)
	require.Equal(t, 1, mine.Length())
	assert.Contains(t, mine.Text(), "lease.pdf")
	assert.Equal(t, 0, doc.Find("#mine tr."+models.IngestionFailed).Length())
	assert.Equal(t, 2, doc.Find("#recent tr").Length()-1)
}
