package handler

import (
	"strings"

	id "plenario/pkg/domain"
	dErrors "plenario/pkg/domain-errors"
)

// CreateSubjectRequest is the HTTP request body for POST /subjects.
type CreateSubjectRequest struct {
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`

	parsedParentID *id.SubjectID
}

// Validate validates and parses the request.
func (r *CreateSubjectRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.ParentID != "" {
		parentID, err := id.ParseSubjectID(r.ParentID)
		if err != nil {
			return dErrors.New(dErrors.CodeBadRequest, "invalid parent_id")
		}
		r.parsedParentID = &parentID
	}
	return nil
}

// ParsedParentID returns the validated parent id, nil for a root subject.
func (r *CreateSubjectRequest) ParsedParentID() *id.SubjectID {
	return r.parsedParentID
}

// ClassifyRequest is the HTTP request body for PUT /resources/{id}/classification.
type ClassifyRequest struct {
	MainSubjectID string   `json:"main_subject_id"`
	SubitemIDs    []string `json:"subitem_ids,omitempty"`

	parsedMainID     id.SubjectID
	parsedSubitemIDs []id.SubjectID
}

// Validate validates and parses the request.
func (r *ClassifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	mainID, err := id.ParseSubjectID(r.MainSubjectID)
	if err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "invalid main_subject_id")
	}
	r.parsedMainID = mainID
	r.parsedSubitemIDs = make([]id.SubjectID, 0, len(r.SubitemIDs))
	for _, raw := range r.SubitemIDs {
		subitemID, err := id.ParseSubjectID(raw)
		if err != nil {
			return dErrors.New(dErrors.CodeBadRequest, "invalid subitem id")
		}
		r.parsedSubitemIDs = append(r.parsedSubitemIDs, subitemID)
	}
	return nil
}

// ParsedMainID returns the validated main subject id.
func (r *ClassifyRequest) ParsedMainID() id.SubjectID { return r.parsedMainID }

// ParsedSubitemIDs returns the validated subitem ids.
func (r *ClassifyRequest) ParsedSubitemIDs() []id.SubjectID { return r.parsedSubitemIDs }
