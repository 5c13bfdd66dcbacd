package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"plenario/internal/publication/models"
	"plenario/internal/publication/service"
	id "plenario/pkg/domain"
	dErrors "plenario/pkg/domain-errors"
	"plenario/pkg/platform/httputil"
	"plenario/pkg/requestcontext"
)

// Service defines the interface for publication operations.
type Service interface {
	Issue(ctx context.Context, input service.IssueInput) (*models.Publication, error)
	Get(ctx context.Context, publicationID id.PublicationID) (*models.Publication, error)
	ForResource(ctx context.Context, resourceID id.ResourceID) ([]*models.Publication, error)
	ForSession(ctx context.Context, sessionID id.SessionID) ([]*models.Publication, error)
}

// Handler wires publication endpoints to the publication service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a publication handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts publication endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/publications", h.HandleIssue)
	r.Get("/publications/{publicationID}", h.HandleGet)
	r.Get("/resources/{resourceID}/publications", h.HandleForResource)
	r.Get("/sessions/{sessionID}/publications", h.HandleForSession)
}

// HandleIssue handles POST /publications.
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[IssueRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	publication, err := h.service.Issue(ctx, service.IssueInput{
		Type:         req.ParsedType(),
		Number:       req.Number,
		Date:         req.ParsedDate(),
		ResourceID:   req.ParsedResourceID(),
		SessionID:    req.ParsedSessionID(),
		Observations: req.Observations,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "publication rejected",
			"request_id", requestID,
			"type", req.Type,
			"number", req.Number,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "publication issued",
		"request_id", requestID,
		"publication_id", publication.ID.String(),
		"number", publication.Number,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromPublication(publication))
}

// HandleGet handles GET /publications/{publicationID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	publicationID, err := id.ParsePublicationID(chi.URLParam(r, "publicationID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid publication id"))
		return
	}
	publication, err := h.service.Get(r.Context(), publicationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPublication(publication))
}

// HandleForResource handles GET /resources/{resourceID}/publications.
func (h *Handler) HandleForResource(w http.ResponseWriter, r *http.Request) {
	resourceID, err := id.ParseResourceID(chi.URLParam(r, "resourceID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid resource id"))
		return
	}
	publications, err := h.service.ForResource(r.Context(), resourceID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPublications(publications))
}

// HandleForSession handles GET /sessions/{sessionID}/publications.
func (h *Handler) HandleForSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid session id"))
		return
	}
	publications, err := h.service.ForSession(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPublications(publications))
}
