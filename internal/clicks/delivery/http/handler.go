package http

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"go-linktrack/internal/clicks/domain"
	"go-linktrack/internal/clicks/requestctx"
	"go-linktrack/internal/clicks/usecase"
	"go-linktrack/pkg/problemdetails"

	"github.com/go-chi/chi/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const (
	clickIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	clickIDLength   = 16
)

// ClickRecorder records visits.
type ClickRecorder interface {
	RecordClick(ctx context.Context, req *http.Request, in usecase.RecordInput) (*domain.ClickEvent, error)
}

// LinkFinder resolves short links.
type LinkFinder interface {
	FindLinkByDomainKey(ctx context.Context, domain, key string) (*domain.Link, error)
}

// Handler handles redirect and tracking requests
type Handler struct {
	recorder      ClickRecorder
	links         LinkFinder
	logger        *zap.Logger
	recordTimeout time.Duration
	notForwarded  []string
	runAsync      func(func())
}

// Option configures a Handler.
type Option func(*Handler)

// WithAsyncRunner replaces how post-redirect recording is started.
func WithAsyncRunner(run func(func())) Option {
	return func(h *Handler) { h.runAsync = run }
}

// WithNotForwarded lists query parameters not copied onto redirect targets.
func WithNotForwarded(names ...string) Option {
	return func(h *Handler) { h.notForwarded = names }
}

// NewHandler creates a new Handler
func NewHandler(recorder ClickRecorder, links LinkFinder, recordTimeout time.Duration, logger *zap.Logger, opts ...Option) *Handler {
	h := &Handler{
		recorder:      recorder,
		links:         links,
		logger:        logger,
		recordTimeout: recordTimeout,
		runAsync:      func(fn func()) { go fn() },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// TrackClickRequest is the body of POST /api/v1/track/click
type TrackClickRequest struct {
	Domain    string `json:"domain"`
	Key       string `json:"key"`
	URL       string `json:"url,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
	ClickID   string `json:"clickId,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// LinkSummary identifies the link a click was recorded against
type LinkSummary struct {
	ID     string `json:"id"`
	Domain string `json:"domain"`
	Key    string `json:"key"`
	URL    string `json:"url"`
}

// TrackClickResponse is the response of POST /api/v1/track/click
type TrackClickResponse struct {
	ClickID  string      `json:"clickId"`
	Recorded bool        `json:"recorded"`
	Link     LinkSummary `json:"link"`
}

// Redirect handles GET /{key}
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	domainName := requestDomain(r)

	link, ok := h.findLink(w, r, domainName, key)
	if !ok {
		return
	}

	clickID, err := gonanoid.Generate(clickIDAlphabet, clickIDLength)
	if err != nil {
		h.logger.Error("failed to generate click id", zap.Error(err))
	}

	if link.URL == "" {
		writeProblem(w, problemdetails.New(
			http.StatusNotFound,
			problemdetails.TypeNotFound,
			"Not Found",
			"Short link has no destination: "+domainName+"/"+key,
		))
		return
	}

	// Send redirect response FIRST
	http.Redirect(w, r, requestctx.FinalURL(r, link.URL, h.notForwarded...), http.StatusFound)

	if clickID == "" {
		return
	}

	// Record on a detached copy of the request; failures are only logged
	ctx := context.WithoutCancel(r.Context())
	req := r.Clone(ctx)
	in := usecase.RecordInput{
		ClickID:     clickID,
		LinkID:      link.ID,
		Domain:      link.Domain,
		Key:         link.Key,
		URL:         link.URL,
		WebhookIDs:  link.WebhookIDs,
		WorkspaceID: link.WorkspaceID,
	}
	h.runAsync(func() {
		h.record(ctx, req, in)
	})
}

func (h *Handler) record(ctx context.Context, req *http.Request, in usecase.RecordInput) {
	if h.recordTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.recordTimeout)
		defer cancel()
	}

	if _, err := h.recorder.RecordClick(ctx, req, in); err != nil {
		h.logger.Error("failed to record click",
			zap.String("click_id", in.ClickID),
			zap.String("link_id", in.LinkID),
			zap.Error(err),
		)
	}
}

// TrackClick handles POST /api/v1/track/click
func (h *Handler) TrackClick(w http.ResponseWriter, r *http.Request) {
	var body TrackClickRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, problemdetails.New(
			http.StatusBadRequest,
			problemdetails.TypeInvalidRequest,
			"Invalid Request",
			"Request body must be valid JSON with 'domain' and 'key' fields",
		))
		return
	}

	var fields []problemdetails.FieldError
	if body.Domain == "" {
		fields = append(fields, problemdetails.FieldError{Field: "domain", Message: "domain is required"})
	}
	if body.Key == "" {
		fields = append(fields, problemdetails.FieldError{Field: "key", Message: "key is required"})
	}
	timestamp := body.Timestamp
	if timestamp != "" {
		var err error
		if timestamp, err = domain.NormalizeTimestamp(timestamp); err != nil {
			fields = append(fields, problemdetails.FieldError{Field: "timestamp", Message: "timestamp must be RFC 3339"})
		}
	}
	if len(fields) > 0 {
		writeProblem(w, problemdetails.NewValidation(fields))
		return
	}

	link, ok := h.findLink(w, r, strings.ToLower(body.Domain), body.Key)
	if !ok {
		return
	}

	clickID := body.ClickID
	if clickID == "" {
		var err error
		clickID, err = gonanoid.Generate(clickIDAlphabet, clickIDLength)
		if err != nil {
			writeProblem(w, internalError("Failed to generate click id"))
			return
		}
	}

	destination := body.URL
	if destination == "" {
		destination = link.URL
	}

	event, err := h.recorder.RecordClick(r.Context(), r, usecase.RecordInput{
		ClickID:     clickID,
		LinkID:      link.ID,
		Domain:      link.Domain,
		Key:         link.Key,
		URL:         destination,
		WebhookIDs:  link.WebhookIDs,
		WorkspaceID: link.WorkspaceID,
		SkipDedup:   true,
		Timestamp:   timestamp,
		Referrer:    body.Referrer,
	})
	if err != nil {
		h.logger.Error("failed to record tracked click",
			zap.String("click_id", clickID),
			zap.String("link_id", link.ID),
			zap.Error(err),
		)
		writeProblem(w, problemdetails.New(
			http.StatusServiceUnavailable,
			problemdetails.TypeInternalError,
			"Service Unavailable",
			"Click could not be recorded",
		))
		return
	}

	writeJSON(w, http.StatusOK, TrackClickResponse{
		ClickID:  clickID,
		Recorded: event != nil,
		Link: LinkSummary{
			ID:     link.ID,
			Domain: link.Domain,
			Key:    link.Key,
			URL:    link.URL,
		},
	})
}

func (h *Handler) findLink(w http.ResponseWriter, r *http.Request, domainName, key string) (*domain.Link, bool) {
	link, err := h.links.FindLinkByDomainKey(r.Context(), domainName, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, problemdetails.New(
				http.StatusNotFound,
				problemdetails.TypeNotFound,
				"Not Found",
				"Short link not found: "+domainName+"/"+key,
			))
			return nil, false
		}

		h.logger.Error("failed to find link",
			zap.String("domain", domainName),
			zap.String("key", key),
			zap.Error(err),
		)
		writeProblem(w, internalError("Internal server error"))
		return nil, false
	}
	return link, true
}

func requestDomain(r *http.Request) string {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(host)
}

func internalError(detail string) *problemdetails.ProblemDetail {
	return problemdetails.New(
		http.StatusInternalServerError,
		problemdetails.TypeInternalError,
		"Internal Server Error",
		detail,
	)
}
