package handler

import (
	"SwiftShare/internal/apperr"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func runRespondError(t *testing.T, err error) (int, map[string]string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	respondError(c, err)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return w.Code, body
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantKind   string
	}{
		{apperr.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
		{apperr.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, "payload_too_large"},
		{apperr.ErrNotFound, http.StatusNotFound, "not_found"},
		{apperr.ErrForbidden, http.StatusForbidden, "forbidden"},
		{apperr.ErrConflict, http.StatusConflict, "conflict"},
		{apperr.ErrUnavailable, http.StatusServiceUnavailable, "unavailable"},
		{apperr.ErrCorrupt, http.StatusBadGateway, "corrupt"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		status, body := runRespondError(t, tc.err)
		if status != tc.wantStatus {
			t.Errorf("%v: status = %d, want %d", tc.err, status, tc.wantStatus)
		}
		if body["error"] != tc.wantKind {
			t.Errorf("%v: kind = %q, want %q", tc.err, body["error"], tc.wantKind)
		}
		if body["message"] == "" {
			t.Errorf("%v: message missing", tc.err)
		}
	}
}

func TestRespondErrorHidesExpiry(t *testing.T) {
	// A burned link must be indistinguishable from a random uuid.
	status, body := runRespondError(t, apperr.ErrExpired)
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if body["error"] != "not_found" {
		t.Fatalf("kind = %q, want not_found", body["error"])
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	// Wrapped store errors carry dial targets and paths; none of that may
	// reach the response body.
	detail := "dial tcp 10.0.0.8:9000: connect: connection refused"
	_, body := runRespondError(t, fmt.Errorf("%w: %s", apperr.ErrUnavailable, detail))
	if strings.Contains(body["message"], "10.0.0.8") || strings.Contains(body["message"], "dial tcp") {
		t.Fatalf("response leaks internal detail: %q", body["message"])
	}
	if body["message"] != "service temporarily unavailable" {
		t.Errorf("message = %q, want the fixed unavailable text", body["message"])
	}
}
