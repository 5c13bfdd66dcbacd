package handler

import (
	"strings"

	"plenario/internal/resource/models"
	dErrors "plenario/pkg/domain-errors"
)

// RegisterRequest is the HTTP request body for POST /resources.
type RegisterRequest struct {
	Sequence      int    `json:"sequence"`
	Year          int    `json:"year"`
	Number        string `json:"number"`
	ProcessNumber string `json:"process_number"`
}

// Validate validates and normalizes the request.
func (r *RegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Number = strings.TrimSpace(r.Number)
	r.ProcessNumber = strings.TrimSpace(r.ProcessNumber)
	if r.Number == "" {
		return dErrors.New(dErrors.CodeValidation, "number is required")
	}
	if r.ProcessNumber == "" {
		return dErrors.New(dErrors.CodeValidation, "process_number is required")
	}
	if r.Sequence <= 0 {
		return dErrors.New(dErrors.CodeValidation, "sequence must be positive")
	}
	return nil
}

// SetStatusRequest is the HTTP request body for PUT /resources/{id}/status.
type SetStatusRequest struct {
	Status string `json:"status"`

	parsedStatus models.Status
}

// Validate validates and parses the target status.
func (r *SetStatusRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	status, err := models.ParseStatus(strings.TrimSpace(r.Status))
	if err != nil {
		return err
	}
	r.parsedStatus = status
	return nil
}

// ParsedStatus returns the validated status.
func (r *SetStatusRequest) ParsedStatus() models.Status {
	return r.parsedStatus
}
