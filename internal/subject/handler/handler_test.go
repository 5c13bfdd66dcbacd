package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"plenario/internal/authz"
	"plenario/internal/subject/models"
	"plenario/internal/subject/service"
	"plenario/internal/subject/store"
	id "plenario/pkg/domain"
	"plenario/pkg/requestcontext"
)

type guardStub struct{}

func (guardStub) Exists(context.Context, id.ResourceID) error { return nil }

func newSubjectRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(store.NewInMemory(), guardStub{}, authz.AllowAll{}, service.WithLogger(logger))
	h := New(svc, logger)

	router := chi.NewRouter()
	actor := id.UserID(uuid.New())
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(requestcontext.WithUserID(r.Context(), actor)))
		})
	})
	h.Register(router)
	return router
}

func createSubject(t *testing.T, router chi.Router, name, parentID string) models.Subject {
	t.Helper()
	payload := map[string]string{"name": name}
	if parentID != "" {
		payload["parent_id"] = parentID
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/subjects", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating subject, got %d: %s", rec.Code, rec.Body.String())
	}
	var subject models.Subject
	if err := json.NewDecoder(rec.Body).Decode(&subject); err != nil {
		t.Fatalf("failed to decode subject: %v", err)
	}
	return subject
}

func TestClassifyAndTreeViaHandlers(t *testing.T) {
	router := newSubjectRouter(t)

	main := createSubject(t, router, "IPTU", "")
	subitem := createSubject(t, router, "Base de cálculo", main.ID.String())
	resourceID := uuid.New().String()

	body, _ := json.Marshal(map[string]any{
		"main_subject_id": main.ID.String(),
		"subitem_ids":     []string{subitem.ID.String()},
	})
	req := httptest.NewRequest(http.MethodPut, "/resources/"+resourceID+"/classification", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 classifying, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/resources/"+resourceID+"/classification", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 reading classification, got %d", rec.Code)
	}
	var links []models.SubjectLink
	if err := json.NewDecoder(rec.Body).Decode(&links); err != nil {
		t.Fatalf("failed to decode links: %v", err)
	}
	if len(links) != 2 || !links[0].IsPrimary {
		t.Fatalf("expected primary-first pair of links, got %+v", links)
	}

	req = httptest.NewRequest(http.MethodGet, "/subjects/tree", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 reading tree, got %d", rec.Code)
	}
	var tree []*models.TreeNode
	if err := json.NewDecoder(rec.Body).Decode(&tree); err != nil {
		t.Fatalf("failed to decode tree: %v", err)
	}
	if len(tree) != 1 || tree[0].ChildCount != 1 {
		t.Fatalf("unexpected tree shape %+v", tree)
	}
}

func TestClassifyValidationViaHandler(t *testing.T) {
	router := newSubjectRouter(t)
	resourceID := uuid.New().String()

	body, _ := json.Marshal(map[string]any{"main_subject_id": "not-a-uuid"})
	req := httptest.NewRequest(http.MethodPut, "/resources/"+resourceID+"/classification", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed subject id, got %d", rec.Code)
	}

	body, _ = json.Marshal(map[string]any{"main_subject_id": uuid.New().String()})
	req = httptest.NewRequest(http.MethodPut, "/resources/"+resourceID+"/classification", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown main subject, got %d", rec.Code)
	}
}
