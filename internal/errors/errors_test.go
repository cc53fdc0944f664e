package errors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{BadRequest("bad"), http.StatusBadRequest},
		{NotFound("gone"), http.StatusNotFound},
		{MethodNotAllowed("nope"), http.StatusMethodNotAllowed},
		{RateLimit("slow down"), http.StatusTooManyRequests},
		{ServiceUnavailable("later"), http.StatusServiceUnavailable},
		{Internal("oops"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if tt.err.StatusCode != tt.want {
			t.Errorf("%s: StatusCode = %d, want %d", tt.err.Code, tt.err.StatusCode, tt.want)
		}
	}
}

func TestStatusCode_Unknown(t *testing.T) {
	if got := StatusCode("TEAPOT"); got != http.StatusInternalServerError {
		t.Errorf("StatusCode(unknown) = %d, want 500", got)
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("sse: %w", BadRequest("bad signals").WithDetails("unexpected end of JSON input"))

	if got := CodeOf(wrapped); got != CodeBadRequest {
		t.Errorf("CodeOf(wrapped) = %s, want %s", got, CodeBadRequest)
	}
	if got := CodeOf(io.EOF); got != CodeInternal {
		t.Errorf("CodeOf(plain) = %s, want %s", got, CodeInternal)
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := fmt.Errorf("no dataset")
	err := ServiceUnavailableWrap(cause, "Dataset not loaded")

	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	if !strings.Contains(err.Error(), "caused by: no dataset") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWriteError(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	w := httptest.NewRecorder()
	wrapped := fmt.Errorf("handler: %w", Validation("category value too long"))
	WriteError(context.Background(), w, logger, wrapped, "req-1")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body struct {
		Error   AppError `json:"error"`
		Success bool     `json:"success"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Success {
		t.Error("success should be false")
	}
	if body.Error.Code != CodeValidation || body.Error.RequestID != "req-1" {
		t.Errorf("unexpected error body: %+v", body.Error)
	}
	if !strings.Contains(logs.String(), "level=WARN") {
		t.Errorf("client errors should log at warn, got %q", logs.String())
	}
}

func TestWriteError_PlainErrorIsInternal(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	w := httptest.NewRecorder()
	WriteError(context.Background(), w, logger, io.ErrUnexpectedEOF, "")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "unexpected EOF") {
		t.Error("internal causes must not leak into the response")
	}
	if !strings.Contains(logs.String(), "level=ERROR") {
		t.Errorf("server errors should log at error, got %q", logs.String())
	}
}

func TestWriteSuccessWithHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessWithHeaders(w, map[string]int{"rows": 2}, map[string]string{"Cache-Control": "no-store"})

	if w.Header().Get("Cache-Control") != "no-store" {
		t.Error("custom header missing")
	}
	want := `{"data":{"rows":2},"success":true}`
	if got := strings.TrimSpace(w.Body.String()); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}
