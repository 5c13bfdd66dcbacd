package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"plenario/internal/authz"
	pubservice "plenario/internal/publication/service"
	pubstore "plenario/internal/publication/store"
	"plenario/internal/session/service"
	"plenario/internal/session/store"
	id "plenario/pkg/domain"
	"plenario/pkg/platform/sentinel"
	"plenario/pkg/requestcontext"
)

// judgments doubles as resource existence and judgment flags for the router.
type judgments map[id.ResourceID]bool

func (j judgments) Judged(_ context.Context, resourceIDs []id.ResourceID) (map[id.ResourceID]bool, error) {
	out := make(map[id.ResourceID]bool, len(resourceIDs))
	for _, resourceID := range resourceIDs {
		judged, ok := j[resourceID]
		if !ok {
			return nil, sentinel.ErrNotFound
		}
		out[resourceID] = judged
	}
	return out, nil
}

func newSessionRouter(t *testing.T) (chi.Router, judgments) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := store.NewInMemory()
	flags := judgments{}
	publications := pubservice.New(pubstore.NewInMemory(sessions), authz.AllowAll{}, pubservice.WithLogger(logger))
	svc := service.New(sessions, flags, publications, authz.AllowAll{}, service.WithLogger(logger))
	h := New(svc, logger)

	router := chi.NewRouter()
	// Stand-in for the auth middleware: every request acts as a fixed clerk.
	actor := id.UserID(uuid.New())
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(requestcontext.WithUserID(r.Context(), actor)))
		})
	})
	h.Register(router)
	return router, flags
}

func doJSON(t *testing.T, router chi.Router, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, router chi.Router, ordinal int) SessionResponse {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/sessions", map[string]any{
		"sequence": ordinal,
		"year":     2025,
		"ordinal":  ordinal,
		"type":     "ORDINARIA",
		"date":     fmt.Sprintf("2025-06-%02d", ordinal),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating session, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp SessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func addToAgenda(t *testing.T, router chi.Router, flags judgments, sessionID string, judged bool) (AgendaRowResponse, id.ResourceID) {
	t.Helper()
	resourceID := id.ResourceID(uuid.New())
	flags[resourceID] = judged

	rec := doJSON(t, router, http.MethodPost, "/sessions/"+sessionID+"/agenda", map[string]string{
		"resource_id": resourceID.String(),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 adding resource, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp AgendaRowResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp, resourceID
}

func TestCreateSessionViaHandler(t *testing.T) {
	router, _ := newSessionRouter(t)
	resp := createSession(t, router, 1)

	if resp.Status != "PUBLICACAO" {
		t.Fatalf("expected initial status PUBLICACAO, got %s", resp.Status)
	}
	if resp.MinutesStatus != "PENDENTE_ATA" {
		t.Fatalf("expected pending minutes, got %s", resp.MinutesStatus)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	router, _ := newSessionRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/sessions", map[string]any{
		"sequence": 1, "year": 2025, "ordinal": 0, "type": "ORDINARIA", "date": "2025-06-01",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for zero ordinal, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/sessions", map[string]any{
		"sequence": 1, "year": 2025, "ordinal": 1, "type": "ORDINARIA", "date": "June 1st",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for malformed date, got %d", rec.Code)
	}
}

func TestAgendaViaHandler(t *testing.T) {
	router, flags := newSessionRouter(t)
	session := createSession(t, router, 1)

	row, resourceID := addToAgenda(t, router, flags, session.ID, false)
	if row.Order != 1 {
		t.Fatalf("expected first agenda order 1, got %d", row.Order)
	}

	// Same resource again conflicts.
	rec := doJSON(t, router, http.MethodPost, "/sessions/"+session.ID+"/agenda", map[string]string{
		"resource_id": resourceID.String(),
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate resource, got %d", rec.Code)
	}

	// Unknown resource is rejected.
	rec = doJSON(t, router, http.MethodPost, "/sessions/"+session.ID+"/agenda", map[string]string{
		"resource_id": uuid.New().String(),
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown resource, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/sessions/"+session.ID+"/agenda/"+resourceID.String(), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 removing resource, got %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodDelete, "/sessions/"+session.ID+"/agenda/"+resourceID.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 removing twice, got %d", rec.Code)
	}
}

func TestReorderViaHandler(t *testing.T) {
	router, flags := newSessionRouter(t)
	session := createSession(t, router, 1)
	rowA, _ := addToAgenda(t, router, flags, session.ID, false)
	rowB, _ := addToAgenda(t, router, flags, session.ID, false)

	rec := doJSON(t, router, http.MethodPut, "/sessions/"+session.ID+"/agenda/order", map[string]any{
		"entries": []map[string]any{
			{"session_resource_id": rowA.ID, "order": 2},
			{"session_resource_id": rowB.ID, "order": 1},
		},
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 reordering, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/sessions/"+session.ID+"/agenda", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 reading agenda, got %d", rec.Code)
	}
	var agenda []AgendaRowResponse
	if err := json.NewDecoder(rec.Body).Decode(&agenda); err != nil {
		t.Fatalf("failed to decode agenda: %v", err)
	}
	if len(agenda) != 2 || agenda[0].ID != rowB.ID || agenda[1].ID != rowA.ID {
		t.Fatalf("expected swapped agenda, got %+v", agenda)
	}

	// Duplicate target orders are rejected.
	rec = doJSON(t, router, http.MethodPut, "/sessions/"+session.ID+"/agenda/order", map[string]any{
		"entries": []map[string]any{
			{"session_resource_id": rowA.ID, "order": 1},
			{"session_resource_id": rowB.ID, "order": 1},
		},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for duplicate orders, got %d", rec.Code)
	}
}

func TestPublishAgendaViaHandler(t *testing.T) {
	router, _ := newSessionRouter(t)
	session := createSession(t, router, 1)

	rec := doJSON(t, router, http.MethodPost, "/sessions/"+session.ID+"/publish", map[string]string{
		"number": "DO-100/2025",
		"date":   "2025-06-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 publishing agenda, got %d: %s", rec.Code, rec.Body.String())
	}
	var publication AgendaPublicationResponse
	if err := json.NewDecoder(rec.Body).Decode(&publication); err != nil {
		t.Fatalf("failed to decode publication: %v", err)
	}
	if publication.Type != "SESSAO" || publication.SessionID != session.ID {
		t.Fatalf("unexpected publication %+v", publication)
	}

	// The session moved to PENDENTE.
	rec = doJSON(t, router, http.MethodGet, "/sessions/"+session.ID, nil)
	var current SessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&current); err != nil {
		t.Fatalf("failed to decode session: %v", err)
	}
	if current.Status != "PENDENTE" {
		t.Fatalf("expected PENDENTE after publish, got %s", current.Status)
	}

	// Reusing the number conflicts even from another session.
	other := createSession(t, router, 2)
	rec = doJSON(t, router, http.MethodPost, "/sessions/"+other.ID+"/publish", map[string]string{
		"number": "DO-100/2025",
		"date":   "2025-06-02",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for reused publication number, got %d", rec.Code)
	}
}

func TestMinutesLifecycleViaHandler(t *testing.T) {
	router, flags := newSessionRouter(t)
	session := createSession(t, router, 1)
	_, resourceID := addToAgenda(t, router, flags, session.ID, false)

	rec := doJSON(t, router, http.MethodGet, "/sessions/"+session.ID+"/minutes/readiness", nil)
	var readiness MinutesReadinessResponse
	if err := json.NewDecoder(rec.Body).Decode(&readiness); err != nil {
		t.Fatalf("failed to decode readiness: %v", err)
	}
	if readiness.Ready {
		t.Fatalf("expected not ready with an unjudged resource")
	}

	rec = doJSON(t, router, http.MethodPost, "/sessions/"+session.ID+"/publish", map[string]string{
		"number": "DO-200/2025",
		"date":   "2025-06-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 publishing agenda, got %d", rec.Code)
	}

	// Completing judgment is blocked until every resource is judged.
	rec = doJSON(t, router, http.MethodPost, "/sessions/"+session.ID+"/judgment/complete", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 completing with unjudged resources, got %d", rec.Code)
	}

	flags[resourceID] = true
	rec = doJSON(t, router, http.MethodPost, "/sessions/"+session.ID+"/judgment/complete", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 completing judgment, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/sessions/"+session.ID+"/minutes", map[string]string{
		"minutes_file": "ata-001-2025.pdf",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 finalizing minutes, got %d: %s", rec.Code, rec.Body.String())
	}
	var closed SessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&closed); err != nil {
		t.Fatalf("failed to decode session: %v", err)
	}
	if closed.Status != "ATA_FINALIZADA" || closed.MinutesStatus != "ATA_ASSINADA" {
		t.Fatalf("expected signed closed session, got %+v", closed)
	}
}

func TestListSessionsViaHandler(t *testing.T) {
	router, flags := newSessionRouter(t)
	ready := createSession(t, router, 1)
	blocked := createSession(t, router, 2)
	addToAgenda(t, router, flags, blocked.ID, false)

	rec := doJSON(t, router, http.MethodGet, "/sessions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing sessions, got %d", rec.Code)
	}
	var rows []SessionRowResponse
	if err := json.NewDecoder(rec.Body).Decode(&rows); err != nil {
		t.Fatalf("failed to decode rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected two sessions, got %d", len(rows))
	}
	for _, row := range rows {
		switch row.ID {
		case ready.ID:
			if !row.MinutesReady {
				t.Fatalf("expected empty agenda to be ready")
			}
		case blocked.ID:
			if row.MinutesReady {
				t.Fatalf("expected unjudged agenda to block readiness")
			}
		}
	}
}

func TestGetUnknownSession(t *testing.T) {
	router, _ := newSessionRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/sessions/"+uuid.New().String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/sessions/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
}
