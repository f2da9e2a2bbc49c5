package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"calc-ledger/internal/history"
	"calc-ledger/internal/history/historytest"
	"calc-ledger/internal/observability"
	"calc-ledger/internal/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, groups ...history.Group) http.Handler {
	t.Helper()
	observability.Logger = zap.NewNop()

	store, _ := historytest.Open(t, groups...)
	return NewRouter(store)
}

func TestNewRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	if body := w.Body.String(); body != "ok" {
		t.Fatalf("expected body %q, got %q", "ok", body)
	}
}

func TestNewRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	if !strings.Contains(w.Body.String(), "calculator_history_groups") {
		t.Fatal("expected history gauge in metrics output")
	}
}

func TestNewRouterHistoryListSetsRequestID(t *testing.T) {
	ts := time.Date(2025, 6, 30, 22, 18, 58, 0, time.UTC)
	router := newTestRouter(t,
		history.Group{Input: "1 + 2", Result: 3, Timestamp: ts, Steps: []history.Step{{Input: "1 + 2", Operation: "+", A: 1, B: 2, Result: 3}}},
		history.Group{Input: "ans(1) * 2", Result: 6, Timestamp: ts},
	)

	w := testutil.Get(router, "/history")

	var payload history.ListResponse
	testutil.CheckJSONResponse(t, w, http.StatusOK, &payload)

	requestID := w.Result().Header.Get("X-Request-ID")
	if _, err := uuid.Parse(requestID); err != nil {
		t.Fatalf("expected valid UUID in X-Request-ID, got %q: %v", requestID, err)
	}

	if payload.Count != 2 || len(payload.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %+v", payload)
	}
	if payload.Groups[0].Input != "1 + 2" || payload.Groups[0].Steps[0].Result != 3 {
		t.Fatalf("unexpected first group %+v", payload.Groups[0])
	}
}

func TestNewRouterHistoryByIndex(t *testing.T) {
	ts := time.Date(2025, 6, 30, 22, 18, 58, 0, time.UTC)
	router := newTestRouter(t, history.Group{Input: "1 + 2", Result: 3, Timestamp: ts})

	tests := []struct {
		path   string
		status int
	}{
		{path: "/history/1", status: http.StatusOK},
		{path: "/history/2", status: http.StatusNotFound},
		{path: "/history/0", status: http.StatusBadRequest},
		{path: "/history/abc", status: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			w := testutil.Get(router, tc.path)
			testutil.CheckResponseCode(t, tc.status, w.Code)
		})
	}
}

func TestNewRouterBackupsEmpty(t *testing.T) {
	router := newTestRouter(t)

	var payload history.BackupsResponse
	testutil.CheckJSONResponse(t, testutil.Get(router, "/history/backups"), http.StatusOK, &payload)
	if payload.Backups == nil || len(payload.Backups) != 0 {
		t.Fatalf("expected empty backup list, got %#v", payload.Backups)
	}
}
