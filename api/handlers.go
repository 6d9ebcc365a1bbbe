// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/poiesic/askbase/collection"
	"github.com/poiesic/askbase/core"
	"github.com/poiesic/askbase/generate"
	"github.com/poiesic/askbase/ingestion"
	"github.com/poiesic/askbase/search"
)

// Handler serves the ingestion, chat, and session-management endpoints.
type Handler struct {
	pipeline  *ingestion.Pipeline
	generator *generate.Generator
	manager   *collection.Manager
	logger    *slog.Logger
}

// NewHandler creates a handler over the core services.
func NewHandler(pipeline *ingestion.Pipeline, generator *generate.Generator, manager *collection.Manager, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		pipeline:  pipeline,
		generator: generator,
		manager:   manager,
		logger:    logger.With("component", "api"),
	}
}

type ingestRequest struct {
	SessionID string           `json:"sessionId"`
	Documents []ingestDocument `json:"documents"`
}

type ingestDocument struct {
	Content    string `json:"content"`
	Source     string `json:"source,omitempty"`
	SourceType string `json:"sourceType,omitempty"`
	Title      string `json:"title,omitempty"`
	URL        string `json:"url,omitempty"`
}

type ingestResponse struct {
	Message            string              `json:"message"`
	DocumentsProcessed int                 `json:"documentsProcessed"`
	TotalChunks        int                 `json:"totalChunks"`
	Warnings           []ingestion.Failure `json:"warnings,omitempty"`
}

// Ingest handles POST /api/ingest.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		respondError(w, http.StatusBadRequest, "Session ID is required")
		return
	}
	if len(req.Documents) == 0 {
		respondError(w, http.StatusBadRequest, "No documents provided")
		return
	}

	docs := make([]ingestion.Document, len(req.Documents))
	for i, doc := range req.Documents {
		sourceType := core.SourceType(doc.SourceType)
		if sourceType == "" {
			sourceType = core.SourceTypeText
		}
		docs[i] = ingestion.Document{
			Content:    doc.Content,
			Source:     doc.Source,
			SourceType: sourceType,
			Title:      doc.Title,
			URL:        doc.URL,
		}
	}

	report, err := h.pipeline.Ingest(r.Context(), req.SessionID, docs...)
	if err != nil {
		if errors.Is(err, core.ErrEmptySessionID) {
			respondError(w, http.StatusBadRequest, "Session ID is required")
			return
		}
		h.logger.Error("ingestion failed", "err", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if report.Processed == 0 && len(report.Failures) > 0 {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "No documents could be processed successfully",
			"details": report.Failures,
		})
		return
	}

	respondJSON(w, http.StatusOK, ingestResponse{
		Message:            "Documents processed successfully",
		DocumentsProcessed: report.Processed,
		TotalChunks:        report.TotalChunks,
		Warnings:           report.Failures,
	})
}

type chatRequest struct {
	SessionID string `json:"sessionId"`
	Question  string `json:"question"`
	K         int    `json:"k,omitempty"`
}

// Chat handles POST /api/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		respondError(w, http.StatusBadRequest, "Session ID is required")
		return
	}
	if req.Question == "" {
		respondError(w, http.StatusBadRequest, "Question is required")
		return
	}

	answer, err := h.generator.Answer(r.Context(), req.SessionID, req.Question, req.K)
	if err != nil {
		switch {
		case errors.Is(err, generate.ErrEmptyQuestion):
			respondError(w, http.StatusBadRequest, "Question is required")
		case errors.Is(err, core.ErrEmptySessionID), errors.Is(err, search.ErrInvalidLimit):
			respondError(w, http.StatusBadRequest, err.Error())
		case r.Context().Err() != nil:
			// Client went away; nothing useful to write.
		default:
			h.logger.Error("chat failed", "err", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, answer)
}

type clearSessionRequest struct {
	SessionID string `json:"sessionId"`
}

// ClearSession handles POST /api/clear-session.
func (h *Handler) ClearSession(w http.ResponseWriter, r *http.Request) {
	var req clearSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		respondError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	cleared, err := h.manager.Delete(r.Context(), req.SessionID)
	if err != nil {
		h.logger.Error("session clear failed", "err", err)
		respondError(w, http.StatusInternalServerError, "Failed to clear session")
		return
	}

	message := "Session cleared successfully"
	if !cleared {
		message = "No documents found for this session"
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message":   message,
		"sessionId": req.SessionID,
		"cleared":   cleared,
	})
}

// ListCollections handles GET /api/collections.
func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	infos, err := h.manager.Collections(r.Context())
	if err != nil {
		h.logger.Error("collection listing failed", "err", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"collections": infos,
		"total":       len(infos),
	})
}

// CleanupCollections handles DELETE /api/collections: it sweeps collections
// older than the default retention age.
func (h *Handler) CleanupCollections(w http.ResponseWriter, r *http.Request) {
	swept, err := h.manager.SweepStale(r.Context(), collection.DefaultMaxAge)
	if err != nil {
		h.logger.Error("cleanup failed", "err", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Cleanup completed",
		"swept":   swept,
	})
}
