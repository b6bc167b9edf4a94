package models

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblem_Write(t *testing.T) {
	p := NewBadRequest("req_123", "invalid request body", []FieldError{
		{Field: "places", Message: "at least 2 places are required", Code: "too_few"},
	}).WithInstance("/v1/routes/plan")

	rec := httptest.NewRecorder()
	p.Write(rec)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "req_123", rec.Header().Get("X-Request-Id"))

	var decoded Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, ProblemTypeValidation, decoded.Type)
	assert.Equal(t, "invalid request body", decoded.Detail)
	assert.Equal(t, "/v1/routes/plan", decoded.Instance)
	require.Len(t, decoded.Errors, 1)
	assert.Equal(t, "places", decoded.Errors[0].Field)
}

func TestProblem_Constructors(t *testing.T) {
	tests := []struct {
		name       string
		problem    *Problem
		wantStatus int
		wantType   string
	}{
		{"not found", NewNotFound("req_1", "no such route"), http.StatusNotFound, ProblemTypeNotFound},
		{"unprocessable", NewUnprocessableNote("req_1", "no places"), http.StatusUnprocessableEntity, ProblemTypeUnprocessable},
		{"too many requests", NewTooManyRequests("req_1", "slow down"), http.StatusTooManyRequests, ProblemTypeTooManyRequests},
		{"internal", NewInternalError("req_1", "boom"), http.StatusInternalServerError, ProblemTypeInternal},
		{"unavailable", NewServiceUnavailable("req_1", "db down"), http.StatusServiceUnavailable, ProblemTypeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.problem.Status)
			assert.Equal(t, tt.wantType, tt.problem.Type)
			assert.Equal(t, "req_1", tt.problem.TraceID)
		})
	}
}
