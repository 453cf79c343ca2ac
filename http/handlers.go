package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"herbalif/db"
	"herbalif/monitoring"
)

const homeMessage = "backend is running ✅"

// HistoryStore is the optional prediction history backend.
type HistoryStore interface {
	SavePrediction(ctx context.Context, p *db.Prediction) error
	QueryPredictions(ctx context.Context, userID string, limit int) ([]db.Prediction, error)
	GetPrediction(ctx context.Context, id string) (*db.Prediction, error)
	DeletePrediction(ctx context.Context, id string) error
}

// Publisher receives every successful prediction.
type Publisher interface {
	Publish(msgType monitoring.MessageType, data any) error
}

// API holds the request handlers and everything they share. All fields are
// set at construction and read-only afterwards.
type API struct {
	predictor *Predictor
	history   HistoryStore
	feed      Publisher
	feedHTTP  http.Handler
	metrics   *Metrics
	logger    *zap.Logger
}

type APIOption func(*API)

// WithHistory enables prediction recording and the /history routes.
func WithHistory(store HistoryStore) APIOption {
	return func(a *API) { a.history = store }
}

// WithFeed publishes predictions to hub and serves it at /ws/predictions.
func WithFeed(hub *monitoring.Hub) APIOption {
	return func(a *API) {
		a.feed = hub
		a.feedHTTP = hub
	}
}

func WithMetrics(metrics *Metrics) APIOption {
	return func(a *API) { a.metrics = metrics }
}

func NewAPI(predictor *Predictor, logger *zap.Logger, opts ...APIOption) *API {
	a := &API{predictor: predictor, logger: logger}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *API) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", handleHome)
	mux.HandleFunc("POST /predict", a.handlePredict)
	if a.metrics != nil {
		mux.Handle("GET /metrics", a.metrics.Handler())
	}
	if a.feedHTTP != nil {
		mux.Handle("GET /ws/predictions", a.feedHTTP)
	}
	if a.history != nil {
		mux.HandleFunc("GET /history", a.handleListHistory)
		mux.HandleFunc("GET /history/{id}", a.handleGetHistory)
		mux.HandleFunc("DELETE /history/{id}", a.handleDeleteHistory)
	}
}

func handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": homeMessage})
}

func (a *API) handlePredict(w http.ResponseWriter, r *http.Request) {
	outcome, err := a.predictor.Predict(formFile(r))
	switch {
	case err == nil:
		a.metrics.ObservePrediction(OutcomeSuccess)
		writeJSON(w, http.StatusOK, map[string]string{"prediction": outcome.Prediction})
		a.record(r, outcome)
	case errors.Is(err, ErrModelUnavailable):
		a.metrics.ObservePrediction(OutcomeModelUnavailable)
		writeError(w, http.StatusInternalServerError, localize(r, msgModelUnavailable))
	case errors.Is(err, ErrNoFile):
		a.metrics.ObservePrediction(OutcomeNoFile)
		writeError(w, http.StatusBadRequest, localize(r, msgNoFile))
	default:
		a.metrics.ObservePrediction(OutcomeError)
		fields := []zap.Field{
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err),
		}
		var panicErr *PanicError
		if errors.As(err, &panicErr) {
			fields = append(fields, zap.ByteString("stacktrace", panicErr.Stack))
		} else {
			fields = append(fields, zap.Stack("stacktrace"))
		}
		a.logger.Error("prediction failed", fields...)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// record stores and publishes a successful prediction. Failures only log; the
// response has already been written.
func (a *API) record(r *http.Request, outcome Outcome) {
	if a.history == nil && a.feed == nil {
		return
	}
	entry := db.NewPrediction(r.FormValue("user_id"), outcome.ImageName, outcome.Prediction)
	if a.history != nil {
		if err := a.history.SavePrediction(r.Context(), entry); err != nil {
			a.logger.Warn("failed to record prediction", zap.Error(err))
		}
	}
	if a.feed != nil {
		if err := a.feed.Publish(monitoring.PredictionEvent, entry); err != nil {
			a.logger.Warn("failed to publish prediction", zap.Error(err))
		}
	}
}

func (a *API) handleListHistory(w http.ResponseWriter, r *http.Request) {
	limit := db.DefaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = l
	}

	predictions, err := a.history.QueryPredictions(r.Context(), r.URL.Query().Get("user_id"), limit)
	if err != nil {
		a.logger.Error("query history failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": predictions})
}

func (a *API) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	prediction, err := a.history.GetPrediction(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		a.logger.Error("get history failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, prediction)
}

func (a *API) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	err := a.history.DeletePrediction(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		a.logger.Error("delete history failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
