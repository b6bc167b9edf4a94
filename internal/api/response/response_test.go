package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noteroute/noteroute/internal/api/middleware"
	"github.com/noteroute/noteroute/internal/api/models"
	"github.com/noteroute/noteroute/internal/api/response"
)

// serve runs fn inside the request-ID middleware so responses carry a
// correlation header, the way the router wires things.
func serve(t *testing.T, fn http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/routes", http.NoBody)
	middleware.RequestID(fn).ServeHTTP(rec, req)
	return rec
}

func TestJSON(t *testing.T) {
	rec := serve(t, func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("X-Request-Id"), "req_")
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreated(t *testing.T) {
	rec := serve(t, func(w http.ResponseWriter, r *http.Request) {
		response.Created(w, r, "/v1/routes/rt_123", map[string]string{"id": "rt_123"})
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/v1/routes/rt_123", rec.Header().Get("Location"))
}

func TestNoContent(t *testing.T) {
	rec := serve(t, func(w http.ResponseWriter, r *http.Request) {
		response.NoContent(w, r)
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		fn         http.HandlerFunc
		wantStatus int
		wantType   string
	}{
		{
			"bad request",
			func(w http.ResponseWriter, r *http.Request) {
				response.BadRequest(w, r, "invalid body", []models.FieldError{{Field: "text", Message: "required"}})
			},
			http.StatusBadRequest,
			models.ProblemTypeValidation,
		},
		{
			"not found",
			func(w http.ResponseWriter, r *http.Request) {
				response.NotFound(w, r, "no such route")
			},
			http.StatusNotFound,
			models.ProblemTypeNotFound,
		},
		{
			"unprocessable note",
			func(w http.ResponseWriter, r *http.Request) {
				response.UnprocessableNote(w, r, "no places found")
			},
			http.StatusUnprocessableEntity,
			models.ProblemTypeUnprocessable,
		},
		{
			"too many requests",
			func(w http.ResponseWriter, r *http.Request) {
				response.TooManyRequests(w, r, "model call budget exhausted")
			},
			http.StatusTooManyRequests,
			models.ProblemTypeTooManyRequests,
		},
		{
			"internal error",
			func(w http.ResponseWriter, r *http.Request) {
				response.InternalError(w, r, "boom")
			},
			http.StatusInternalServerError,
			models.ProblemTypeInternal,
		},
		{
			"service unavailable",
			func(w http.ResponseWriter, r *http.Request) {
				response.ServiceUnavailable(w, r, "database down")
			},
			http.StatusServiceUnavailable,
			models.ProblemTypeUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, tt.fn)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

			var problem models.Problem
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/v1/routes", problem.Instance)
			assert.Contains(t, problem.TraceID, "req_")
		})
	}
}
