package server

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"docuchat/internal/rag/schema"
	"docuchat/pkg/logger"
)

// eventBuffer decouples pipeline emission from slow stream consumers.
const eventBuffer = 16

// Service is the part of the RAG service the HTTP layer needs. Both Ingest
// and Answer close their events channel when they return.
type Service interface {
	Ingest(ctx context.Context, path, filename, contentType string, events chan<- *schema.Event) error
	Answer(ctx context.Context, query string, maxTokens int, events chan<- *schema.Event) error
	HealthCheck(ctx context.Context) error
}

// API provides the HTTP handlers for the RAG service.
type API struct {
	svc       Service
	log       *logger.Logger
	uploadDir string
}

// NewAPI creates a new API handler.
func NewAPI(svc Service, uploadDir string, log *logger.Logger) *API {
	return &API{
		svc:       svc,
		log:       log,
		uploadDir: uploadDir,
	}
}

// chatRequest is the payload for the chat endpoint.
type chatRequest struct {
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

// UploadHandler ingests an uploaded document and replies once ingestion has
// finished. Progress events are consumed here and logged; clients that want
// them live use the streaming variant.
func (a *API) UploadHandler(c *gin.Context) {
	dst, filename, contentType, ok := a.stageUpload(c)
	if !ok {
		return
	}

	events := make(chan *schema.Event, eventBuffer)
	done := make(chan error, 1)
	go func() {
		done <- a.svc.Ingest(c.Request.Context(), dst, filename, contentType, events)
	}()

	for ev := range events {
		if ev.Kind == schema.EventProgress {
			a.log.Debug(fmt.Sprintf("Ingesting %s: %.0f%%", filename, ev.Progress))
		}
	}

	if err := <-done; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process file"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "filename": filename})
}

// UploadStreamHandler ingests an uploaded document and streams the progress
// events to the client as they are emitted.
func (a *API) UploadStreamHandler(c *gin.Context) {
	dst, filename, contentType, ok := a.stageUpload(c)
	if !ok {
		return
	}

	events := make(chan *schema.Event, eventBuffer)
	go func() {
		_ = a.svc.Ingest(c.Request.Context(), dst, filename, contentType, events)
	}()

	a.streamEvents(c, events)
}

// ChatHandler answers a question over the stored documents, streaming
// progress, the accumulating answer and its sources as server-sent events.
func (a *API) ChatHandler(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	events := make(chan *schema.Event, eventBuffer)
	go func() {
		_ = a.svc.Answer(c.Request.Context(), req.Prompt, req.MaxTokens, events)
	}()

	a.streamEvents(c, events)
}

// HealthHandler reports whether the service and its store are usable.
func (a *API) HealthHandler(c *gin.Context) {
	if err := a.svc.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// stageUpload saves the multipart file under the upload directory and
// returns its staged path, name and declared content type. On failure it
// writes the error response and returns ok=false.
func (a *API) stageUpload(c *gin.Context) (dst, filename, contentType string, ok bool) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return "", "", "", false
	}

	filename = filepath.Base(file.Filename)
	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		a.log.WithError(err).Error("Failed to create upload directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process file"})
		return "", "", "", false
	}
	dst = filepath.Join(a.uploadDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		a.log.WithError(err).Error("Failed to stage uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process file"})
		return "", "", "", false
	}

	return dst, filename, formContentType(file), true
}

// streamEvents drains the event channel onto an SSE response. The channel is
// read until the pipeline closes it, so a producer is never left blocked
// after a client disconnect.
func (a *API) streamEvents(c *gin.Context, events <-chan *schema.Event) {
	sseHeaders(c)
	for ev := range events {
		if err := writeEvent(c, ev); err != nil {
			// Client is gone; keep draining so the pipeline can finish
			// aborting via its context.
			for range events {
			}
			return
		}
	}
}

// formContentType reads the declared content type from the part header.
func formContentType(file *multipart.FileHeader) string {
	if ct := file.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
