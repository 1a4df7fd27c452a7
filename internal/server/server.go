package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/comfforts/logger"

	"github.com/hankgalt/translator/pkg/domain"
)

// MissingTextMessage is returned when the body has no usable "text".
const MissingTextMessage = `Missing or empty "text" parameter`

// MaxBodyBytes caps the size of a translate request body.
const MaxBodyBytes = 1 << 20

// Translator is the part of a model the server calls.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

type translateRequest struct {
	Text *string `json:"text"`
}

type translateResponse struct {
	Sinhala string `json:"sinhala"`
	English string `json:"english"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server routes translate requests to the injected models. A nil model is
// a known selector whose model failed to load or was not configured.
type Server struct {
	models       map[string]Translator
	defaultModel string
	mux          *http.ServeMux
}

var _ http.Handler = (*Server)(nil)

// New builds a server for models, using defaultModel for POST /translate.
func New(models map[string]Translator, defaultModel string) *Server {
	s := &Server{
		models:       models,
		defaultModel: defaultModel,
		mux:          http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /translate", s.handleTranslate)
	s.mux.HandleFunc("POST /translate/{model}", s.handleTranslate)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l, err := logger.LoggerFromContext(ctx)
	if err != nil {
		l = logger.GetSlogLogger()
	}

	model := r.PathValue("model")
	if model == "" {
		model = s.defaultModel
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	text, err := decodeText(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	translation, err := s.translate(ctx, model, text)
	if err != nil {
		l.Error("translate failed", "model", model, "error", err.Error())
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, translateResponse{
		Sinhala: text,
		English: translation,
	})
}

func (s *Server) translate(ctx context.Context, model, text string) (string, error) {
	t, ok := s.models[model]
	if !ok {
		return "", fmt.Errorf("%w %q", domain.ErrUnknownModel, model)
	}
	if t == nil {
		return "", fmt.Errorf("%w: %s is not loaded", domain.ErrModelUnavailable, model)
	}
	return t.Translate(ctx, text)
}

// decodeText returns the request text, which must be present and not blank.
func decodeText(r *http.Request) (string, error) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", fmt.Errorf("%w: body exceeds %d bytes", domain.ErrRequestTooLarge, tooLarge.Limit)
		}
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidInput, MissingTextMessage)
	}
	if req.Text == nil || strings.TrimSpace(*req.Text) == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidInput, MissingTextMessage)
	}
	return *req.Text, nil
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: MissingTextMessage})
	case errors.Is(err, domain.ErrRequestTooLarge):
		writeJSON(ctx, w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnknownModel):
		writeJSON(ctx, w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrModelUnavailable):
		writeJSON(ctx, w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		l, lErr := logger.LoggerFromContext(ctx)
		if lErr != nil {
			l = logger.GetSlogLogger()
		}
		l.Error("writing response failed", "status", status, "error", err.Error())
	}
}
