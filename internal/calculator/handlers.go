package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"calcsvc/internal/handlers"
	"calcsvc/internal/observability"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Handler serves the calculator endpoints on top of a SessionStore.
type Handler struct {
	store   *SessionStore
	maxKeys int
}

// NewHandler returns a Handler. maxKeys caps the keys accepted in one request;
// zero or less means no cap.
func NewHandler(store *SessionStore, maxKeys int) *Handler {
	return &Handler{store: store, maxKeys: maxKeys}
}

// ---------------------------------------------------------------------------
// Handlers — sessions
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := h.startSpan(r, "create_session")
	defer span.End()

	var resp SessionResponse
	id, err := h.store.CreateWith(func(id string, e *Engine) {
		resp = newSessionResponse(id, e)
	})
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "create_session", "cannot create session", err, http.StatusServiceUnavailable, w)
		return
	}
	sessionsActive.Add(ctx, 1)

	span.SetAttributes(attribute.String("calculator.session.id", id))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator session created",
		zap.String("session_id", id),
		zap.Int("sessions", h.store.Len()),
	)

	handlers.WriteJSON(w, http.StatusCreated, resp)
}

// GetSession handles GET /calculator/sessions/{sessionID}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := h.startSpan(r, "get_session")
	defer span.End()

	id := chi.URLParam(r, "sessionID")
	span.SetAttributes(attribute.String("calculator.session.id", id))

	var resp SessionResponse
	err := h.store.Do(id, func(e *Engine) error {
		resp = newSessionResponse(id, e)
		return nil
	})
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "get_session", err.Error(), err, http.StatusNotFound, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// PressKeys handles POST /calculator/sessions/{sessionID}/keys — applies the
// keys in order to the session's engine. Nothing is applied if any key is bad.
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := h.startSpan(r, "press_keys")
	defer span.End()

	id := chi.URLParam(r, "sessionID")
	span.SetAttributes(attribute.String("calculator.session.id", id))

	keys, ok := h.decodeKeys(ctx, span, logger, "press_keys", w, r)
	if !ok {
		return
	}

	var resp SessionResponse
	err := h.store.Do(id, func(e *Engine) error {
		if _, err := applyKeys(ctx, logger, e, keys); err != nil {
			return err
		}
		resp = newSessionResponse(id, e)
		return nil
	})
	switch {
	case errors.Is(err, ErrSessionNotFound):
		observability.RecordError(ctx, span, logger, errorCounter, "press_keys", err.Error(), err, http.StatusNotFound, w)
		return
	case err != nil:
		observability.RecordError(ctx, span, logger, errorCounter, "press_keys", "cannot apply keys", err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.display", resp.Display))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator keys applied",
		zap.String("session_id", id),
		zap.Int("keys", len(keys)),
		zap.String("display", resp.Display),
	)

	handlers.WriteJSON(w, http.StatusOK, resp)
}

// DeleteSession handles DELETE /calculator/sessions/{sessionID}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := h.startSpan(r, "delete_session")
	defer span.End()

	id := chi.URLParam(r, "sessionID")
	span.SetAttributes(attribute.String("calculator.session.id", id))

	if !h.store.Delete(id) {
		observability.RecordError(ctx, span, logger, errorCounter, "delete_session", ErrSessionNotFound.Error(), ErrSessionNotFound, http.StatusNotFound, w)
		return
	}
	sessionsActive.Add(ctx, -1)

	span.SetStatus(codes.Ok, "")
	logger.Info("calculator session deleted", zap.String("session_id", id))

	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Handler — stateless evaluation (one child span per key)
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate — runs the keys on a fresh engine
// and returns the display after every key.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := h.startSpan(r, "evaluate")
	defer span.End()

	keys, ok := h.decodeKeys(ctx, span, logger, "evaluate", w, r)
	if !ok {
		return
	}

	steps, err := applyKeys(ctx, logger, NewEngine(), keys)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "cannot apply keys", err, http.StatusBadRequest, w)
		return
	}

	display := steps[len(steps)-1].Display

	span.AddEvent("evaluate.complete", trace.WithAttributes(
		attribute.String("display", display),
		attribute.Int("total_keys", len(keys)),
	))
	span.SetAttributes(attribute.String("calculator.display", display))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator evaluation completed",
		zap.Int("keys", len(keys)),
		zap.String("display", display),
	)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{Steps: steps, Display: display})
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

func (h *Handler) startSpan(r *http.Request, opName string) (context.Context, trace.Span, *zap.Logger) {
	ctx := r.Context()
	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	return ctx, span, observability.LoggerWithTrace(ctx)
}

// decodeKeys reads a KeysRequest and parses every key. On failure it writes
// the error response and returns false.
func (h *Handler) decodeKeys(ctx context.Context, span trace.Span, logger *zap.Logger, opName string, w http.ResponseWriter, r *http.Request) ([]Key, bool) {
	var req KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return nil, false
	}

	if len(req.Keys) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "no keys provided", fmt.Errorf("keys array is empty"), http.StatusBadRequest, w)
		return nil, false
	}

	if h.maxKeys > 0 && len(req.Keys) > h.maxKeys {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "too many keys", fmt.Errorf("%d keys, limit %d", len(req.Keys), h.maxKeys), http.StatusBadRequest, w)
		return nil, false
	}

	keys, err := ParseKeys(req.Keys)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w)
		return nil, false
	}

	span.SetAttributes(attribute.Int("calculator.keys_count", len(keys)))
	return keys, true
}

// applyKeys presses each key on e inside its own child span and returns the
// display after every key.
func applyKeys(ctx context.Context, logger *zap.Logger, e *Engine, keys []Key) ([]KeyResult, error) {
	results := make([]KeyResult, 0, len(keys))

	for i, k := range keys {
		label := k.String()
		action := k.Action.String()

		_, keySpan := tracer.Start(ctx, fmt.Sprintf("calculator.key.%d.%s", i, action),
			trace.WithAttributes(
				attribute.Int("calculator.key.index", i),
				attribute.String("calculator.key.action", action),
				attribute.String("calculator.key.label", label),
				attribute.String("calculator.key.input", e.CurrentInput()),
			),
		)

		pending := e.Operator() != OpNone
		start := time.Now()
		display, err := e.Press(k)
		elapsed := float64(time.Since(start).Microseconds()) / 1000.0

		attrs := metric.WithAttributes(attribute.String("action", action))

		if err != nil {
			keySpan.RecordError(err)
			keySpan.SetStatus(codes.Error, err.Error())
			keySpan.End()
			return nil, fmt.Errorf("key %d: %w", i, err)
		}

		keysCounter.Add(ctx, 1, attrs)
		keyHistogram.Record(ctx, elapsed, attrs)

		if k.Action == ActionEquals && pending {
			recordResult(ctx, e.CurrentInput())
		}

		keySpan.SetAttributes(attribute.String("calculator.key.display", display))
		keySpan.SetStatus(codes.Ok, "")
		keySpan.End()

		logger.Debug("calculator key applied",
			zap.Int("index", i),
			zap.String("key", label),
			zap.String("display", display),
		)

		results = append(results, KeyResult{Key: label, Display: display})
	}

	return results, nil
}

func recordResult(ctx context.Context, input string) {
	v := parseOperand(input)
	if math.IsNaN(v) {
		nanCounter.Add(ctx, 1)
		return
	}
	if !math.IsInf(v, 0) {
		resultGauge.Record(ctx, v)
	}
}
