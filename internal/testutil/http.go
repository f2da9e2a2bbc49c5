// Package testutil holds HTTP helpers for handler and middleware tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func ExecuteRequest(req *http.Request, handler http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// Get issues a GET for path against handler.
func Get(handler http.Handler, path string) *httptest.ResponseRecorder {
	return ExecuteRequest(httptest.NewRequest(http.MethodGet, path, nil), handler)
}

func CheckResponseCode(t testing.TB, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Fatalf("expected status %d, got %d", expected, actual)
	}
}

// DecodeJSONBody fails the test unless body is valid JSON matching dst.
// Unknown fields are errors so response shapes cannot drift silently.
func DecodeJSONBody(t testing.TB, body io.Reader, dst any) {
	t.Helper()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}
}

// CheckJSONResponse asserts status and JSON content type before decoding.
func CheckJSONResponse(t testing.TB, rr *httptest.ResponseRecorder, status int, dst any) {
	t.Helper()
	CheckResponseCode(t, status, rr.Code)
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content type, got %q", ct)
	}
	DecodeJSONBody(t, rr.Body, dst)
}
