package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"herbalif/db"
)

func nopLogger() *zap.Logger {
	return zap.NewNop()
}

func seededHistory() *fakeHistory {
	return &fakeHistory{saved: []*db.Prediction{
		{ID: "a", UserID: "u1", Prediction: "saga", Category: db.Herbal},
		{ID: "b", UserID: "u2", Prediction: "tomat", Category: db.NonHerbal},
	}}
}

func TestHandleListHistory(t *testing.T) {
	handler := newTestHandler(NewPredictor(nil, nil), WithHistory(seededHistory()))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history?user_id=u1", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	data, ok := decodeBody(t, rr.Body)["data"].([]any)
	if !ok || len(data) != 1 {
		t.Fatalf("expected one record for u1, got %v", data)
	}
	if data[0].(map[string]any)["prediction"] != "saga" {
		t.Fatalf("unexpected record: %v", data[0])
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history?limit=abc", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rr.Code)
	}
}

func TestHandleGetAndDeleteHistory(t *testing.T) {
	handler := newTestHandler(NewPredictor(nil, nil), WithHistory(seededHistory()))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history/b", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := decodeBody(t, rr.Body)["category"]; got != "Non-Herbal" {
		t.Fatalf("unexpected category %v", got)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/history/b", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rr = httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(method, "/history/b", nil))
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s after delete: expected 404, got %d", method, rr.Code)
		}
	}
}
