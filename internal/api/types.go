package api

import (
	"github.com/samcharles93/xdmatvec/internal/bench"
	"github.com/samcharles93/xdmatvec/internal/version"
	"github.com/samcharles93/xdmatvec/internal/xdma"
)

type BenchmarkRequest struct {
	Matrices int `json:"n_matrices"`
	Vectors  int `json:"n_vectors"`
	// Seed nil picks a time-based seed.
	Seed          *int64 `json:"seed,omitempty"`
	IncludeTrials bool   `json:"include_trials,omitempty"`
}

type BenchmarkResponse struct {
	ID        string       `json:"id"`
	Object    string       `json:"object"`
	CreatedAt int64        `json:"created_at"`
	Tag       string       `json:"tag"`
	Hardware  xdma.Info    `json:"hardware"`
	Stats     *bench.Stats `json:"stats"`
}

type BenchmarkList struct {
	Object string              `json:"object"`
	Data   []BenchmarkResponse `json:"data"`
}

type HardwareResponse struct {
	Object string `json:"object"`
	Tag    string `json:"tag"`
	xdma.Info
}

type VersionResponse struct {
	Object string `json:"object"`
	version.Info
}

type ResponseError struct {
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
	Param   string `json:"param,omitempty"`
}
