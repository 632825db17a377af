package http

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseBuilderJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	NewResponse().Status(http.StatusCreated).Header("X-Test", "1").JSON(map[string]int{"count": 2}).Write(rr)

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("content type = %q", got)
	}
	if rr.Header().Get("X-Test") != "1" {
		t.Error("custom header missing")
	}
	if rr.Body.String() != "{\"count\":2}\n" {
		t.Errorf("body = %q", rr.Body.String())
	}
}

func TestResponseBuilderJSONEncodingFailure(t *testing.T) {
	rr := httptest.NewRecorder()
	NewResponse().JSON(math.NaN()).Write(rr)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name string
		b    *ResponseBuilder
		want int
	}{
		{"bad request", BadRequestError("x"), http.StatusBadRequest},
		{"unprocessable", UnprocessableEntityError("x"), http.StatusUnprocessableEntity},
		{"internal", InternalServerError("x"), http.StatusInternalServerError},
		{"too many", TooManyRequestsError(), http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.b.Write(rr)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}

	rr := httptest.NewRecorder()
	TooManyRequestsError().Write(rr)
	if rr.Header().Get("Retry-After") != "60" {
		t.Error("Retry-After header missing")
	}
}

func TestTextResponse(t *testing.T) {
	rr := httptest.NewRecorder()
	NewResponse().Text("ok").Write(rr)
	if rr.Body.String() != "ok" || rr.Header().Get("Content-Type") != "text/plain; charset=utf-8" {
		t.Errorf("unexpected text response: %q %q", rr.Body.String(), rr.Header().Get("Content-Type"))
	}
}
