// Package ingest backs the admin document-ingestion form.
package ingest

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"legalai/legalai/sources/psql/models"
	"legalai/legalai/utils/logging"
	"legalai/legalai/utils/types"

	"go.uber.org/zap"
)

const (
	MsgNothingToIngest = "Please select a file or enter a URL."
	MsgSucceeded       = "Document ingested successfully!"
	MsgInProgress      = "An ingestion is already in progress."
)

type Backend interface {
	IngestDocument(ctx context.Context, req types.IngestRequest, token string) (*types.IngestResult, error)
}

// Recorder persists the outcome of each submission.
type Recorder interface {
	CreateIngestion(ctx context.Context, ing *models.Ingestion) error
}

// Archiver keeps a copy of uploaded files.
type Archiver interface {
	ArchiveDocument(ctx context.Context, adminID, fileName string, data []byte) (string, error)
}

// Form is the state of the ingest form as the admin sees it.
type Form struct {
	FileName string
	File     []byte
	URL      string
	Loading  bool
	Message  string
	Failed   bool
}

func (f Form) HasFile() bool {
	return f.FileName != "" && f.File != nil
}

// Service submits forms to the backend, one at a time per admin.
type Service struct {
	backend  Backend
	recorder Recorder
	archiver Archiver

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewService wires the form to the backend. recorder and archiver are
// optional.
func NewService(backend Backend, recorder Recorder, archiver Archiver) *Service {
	return &Service{
		backend:  backend,
		recorder: recorder,
		archiver: archiver,
		inFlight: make(map[string]bool),
	}
}

// Busy reports whether adminID has a submission in flight.
func (s *Service) Busy(adminID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[adminID]
}

// Submit validates f, sends it and returns the form state to render next.
// A form with neither file nor URL never reaches the backend.
func (s *Service) Submit(ctx context.Context, adminID, token string, f Form) Form {
	f.URL = strings.TrimSpace(f.URL)
	if !f.HasFile() && f.URL == "" {
		return Form{Message: MsgNothingToIngest, Failed: true}
	}
	if !s.acquire(adminID) {
		return Form{FileName: f.FileName, URL: f.URL, Loading: true, Message: MsgInProgress, Failed: true}
	}
	defer s.release(adminID)

	rec := &models.Ingestion{AdminID: adminID, FileName: f.FileName, URL: f.URL}
	req := types.IngestRequest{URL: f.URL}
	if f.HasFile() {
		req.FileName = f.FileName
		req.File = bytes.NewReader(f.File)
		if s.archiver != nil {
			key, err := s.archiver.ArchiveDocument(ctx, adminID, f.FileName, f.File)
			if err != nil {
				logging.ErrorLogger.Warn("document archive failed", zap.String("file", f.FileName), zap.Error(err))
			}
			rec.ArchiveKey = key
		}
	}

	res, err := s.backend.IngestDocument(ctx, req, token)
	if err != nil {
		rec.Status, rec.Message = models.IngestionFailed, err.Error()
		s.record(ctx, rec)
		return Form{FileName: f.FileName, URL: f.URL, Message: err.Error(), Failed: true}
	}

	msg := res.Message
	if msg == "" {
		msg = MsgSucceeded
	}
	rec.Status, rec.Message = models.IngestionSucceeded, msg
	s.record(ctx, rec)
	logging.AppLogger.Info("document ingested",
		zap.String("admin_id", adminID),
		zap.String("file", f.FileName),
		zap.String("url", f.URL),
	)
	return Form{Message: msg}
}

func (s *Service) acquire(adminID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[adminID] {
		return false
	}
	s.inFlight[adminID] = true
	return true
}

func (s *Service) release(adminID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, adminID)
}

func (s *Service) record(ctx context.Context, rec *models.Ingestion) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.CreateIngestion(ctx, rec); err != nil {
		logging.ErrorLogger.Error("failed to record ingestion", zap.Error(err))
	}
}
