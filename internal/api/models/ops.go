package models

import "github.com/noteroute/noteroute/internal/parser/llm"

// HealthResponse is the response body for GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// VersionResponse is the response body for GET /version.
type VersionResponse struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
}

// StatusResponse is the response body for GET /v1/ops/status.
type StatusResponse struct {
	Status     string          `json:"status"`
	Database   string          `json:"database"`
	Strategies []string        `json:"strategies"`
	ModelUsage *llm.UsageStats `json:"model_usage,omitempty"`
}
