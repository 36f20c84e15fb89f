package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"legalai/legalai/auth"
	"legalai/legalai/services/ingest"
	"legalai/legalai/sources/psql/models"
	"legalai/legalai/utils/logging"
	"legalai/legalai/web"

	"go.uber.org/zap"
)

const recentIngestions = 10

// IngestionLister feeds the ingestion tables on the dashboard. Optional.
type IngestionLister interface {
	GetRecentIngestions(ctx context.Context, limit int) ([]models.Ingestion, error)
	GetIngestionsByAdmin(ctx context.Context, adminID string, limit int) ([]models.Ingestion, error)
}

type AdminController struct {
	renderer *web.Renderer
	ingest   *ingest.Service
	recent   IngestionLister
	maxBytes int64
}

func NewAdminController(renderer *web.Renderer, svc *ingest.Service, recent IngestionLister, maxMiB int64) *AdminController {
	if maxMiB <= 0 {
		maxMiB = 32
	}
	return &AdminController{renderer: renderer, ingest: svc, recent: recent, maxBytes: maxMiB << 20}
}

type AdminData struct {
	Form   ingest.Form
	Busy   bool
	Recent []models.Ingestion
	Mine   []models.Ingestion
}

func (c *AdminController) Dashboard(w http.ResponseWriter, r *http.Request, s auth.State) {
	c.render(w, r, http.StatusOK, s, ingest.Form{})
}

// Ingest reads the multipart form (a file, a URL or both) and submits it.
func (c *AdminController) Ingest(w http.ResponseWriter, r *http.Request, s auth.State) {
	r.Body = http.MaxBytesReader(w, r.Body, c.maxBytes)
	form, err := c.readForm(r)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			msg := fmt.Sprintf("File too large (limit %d MiB).", c.maxBytes>>20)
			c.render(w, r, http.StatusRequestEntityTooLarge, s, ingest.Form{Message: msg, Failed: true})
			return
		}
		logging.ErrorLogger.Warn("invalid ingest form", zap.Error(err))
		c.render(w, r, http.StatusBadRequest, s, ingest.Form{Message: "Invalid form submission.", Failed: true})
		return
	}

	result := c.ingest.Submit(r.Context(), s.User.ID, s.Token, form)
	status := http.StatusOK
	if result.Failed && result.Message == ingest.MsgInProgress {
		status = http.StatusConflict
	}
	c.render(w, r, status, s, result)
}

func (c *AdminController) readForm(r *http.Request) (ingest.Form, error) {
	if err := r.ParseMultipartForm(c.maxBytes); err != nil {
		return ingest.Form{}, err
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}
	form := ingest.Form{URL: r.FormValue("url")}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return form, nil
	}
	if err != nil {
		return form, err
	}
	defer file.Close()
	// browsers send an empty part when no file was chosen
	if header.Filename == "" && header.Size == 0 {
		return form, nil
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return form, err
	}
	form.FileName = header.Filename
	form.File = data
	return form, nil
}

func (c *AdminController) render(w http.ResponseWriter, r *http.Request, status int, s auth.State, form ingest.Form) {
	data := AdminData{Form: form, Busy: c.ingest.Busy(s.User.ID)}
	if c.recent != nil {
		recent, err := c.recent.GetRecentIngestions(r.Context(), recentIngestions)
		if err != nil {
			logging.ErrorLogger.Error("failed to list ingestions", zap.Error(err))
		}
		data.Recent = recent
		mine, err := c.recent.GetIngestionsByAdmin(r.Context(), s.User.ID, recentIngestions)
		if err != nil {
			logging.ErrorLogger.Error("failed to list own ingestions", zap.String("admin_id", s.User.ID), zap.Error(err))
		}
		data.Mine = mine
	}
	c.renderer.Render(w, status, "admin", page(s, "Admin", data))
}
