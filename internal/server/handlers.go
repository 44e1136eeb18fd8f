package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/folio-dev/folio/internal/feed"
	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/pkg/api/v1"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	errFeedNotConfigured = "Medium RSS URL not configured"
	errFeedFailed        = "Failed to fetch articles"
)

// handleHealthCheck handles the health check endpoint.
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	feedStatus := "configured"
	if s.config.Feed.RSSURL == "" {
		feedStatus = "not_configured"
	}

	cacheType := s.config.Cache.Type
	if s.cache == nil {
		cacheType = "none"
	} else if cacheType == "" {
		cacheType = "memory"
	}

	version := s.config.Version
	if version == "" {
		version = "dev"
	}

	writeJSON(w, http.StatusOK, v1.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
		Version:   version,
		Feed:      feedStatus,
		Cache:     cacheType,
	})
}

// handleAI answers a chat widget message. Once the body is read the reply is
// always a success. The body size is not capped; the server read timeout
// bounds it. The provider value is echoed exactly as sent.
func (s *Server) handleAI(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAIRequest(r.Body)
	if err != nil {
		s.logger.Error("Failed to decode chat request",
			zap.String("request_id", requestID(r)),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, v1.AIErrorResponse{
			Error:     err.Error(),
			Success:   false,
			Timestamp: time.Now().UTC().Format(models.TimestampLayout),
		})
		return
	}

	resp := s.resolver.Resolve(r.Context(), models.ChatRequest{
		Message:  req.Message,
		Provider: req.ProviderName(),
	})

	writeJSON(w, http.StatusOK, v1.AIResponse{
		Response:  resp.Response,
		Provider:  req.Provider,
		Timestamp: resp.Timestamp.Format(models.TimestampLayout),
		Success:   resp.Success,
	})
}

// decodeAIRequest reads a JSON object body. A missing message decodes as the
// empty string.
func decodeAIRequest(body io.Reader) (v1.AIRequest, error) {
	var req v1.AIRequest

	raw, err := io.ReadAll(body)
	if err != nil {
		return req, fmt.Errorf("failed to read request body: %w", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return req, errors.New("request body must be a JSON object")
	}

	if err := json.Unmarshal(trimmed, &req); err != nil {
		return req, fmt.Errorf("invalid request body: %w", err)
	}
	return req, nil
}

// handleGetProviders lists the chat providers.
func (s *Server) handleGetProviders(w http.ResponseWriter, r *http.Request) {
	infos := s.resolver.Providers()

	resp := v1.ProvidersResponse{
		Providers: make([]v1.ProviderInfo, 0, len(infos)),
		Total:     len(infos),
	}
	for _, info := range infos {
		modelList := info.Models
		if modelList == nil {
			modelList = []string{}
		}
		resp.Providers = append(resp.Providers, v1.ProviderInfo{
			Name:      string(info.Name),
			Simulated: info.Simulated,
			Models:    modelList,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleGetArticles serves blog articles, optionally filtered by category.
func (s *Server) handleGetArticles(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	articles, err := s.feed.Articles(r.Context(), category)
	if err != nil {
		if errors.Is(err, feed.ErrFeedNotConfigured) {
			s.logger.Error("Feed requested without an RSS URL")
			writeJSON(w, http.StatusInternalServerError, v1.ErrorResponse{Error: errFeedNotConfigured})
			return
		}

		s.logger.Error("Failed to fetch articles",
			zap.String("request_id", requestID(r)),
			zap.String("category", category),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, v1.ErrorResponse{Error: errFeedFailed})
		return
	}

	writeJSON(w, http.StatusOK, v1.ArticlesResponse{Articles: convertArticles(articles)})
}

func convertArticles(articles []models.Article) []v1.Article {
	out := make([]v1.Article, len(articles))
	for i, a := range articles {
		out[i] = v1.Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			Category:    a.Category,
			Tags:        a.Tags,
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(body)
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}
