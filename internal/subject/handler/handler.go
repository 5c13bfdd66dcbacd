package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"plenario/internal/subject/models"
	id "plenario/pkg/domain"
	dErrors "plenario/pkg/domain-errors"
	"plenario/pkg/platform/httputil"
	"plenario/pkg/requestcontext"
)

// Service defines the interface for subject operations.
type Service interface {
	CreateSubject(ctx context.Context, name string, parentID *id.SubjectID) (*models.Subject, error)
	Classify(ctx context.Context, resourceID id.ResourceID, mainSubjectID id.SubjectID, subitemIDs []id.SubjectID) error
	Tree(ctx context.Context) ([]*models.TreeNode, error)
	LinksFor(ctx context.Context, resourceID id.ResourceID) ([]models.SubjectLink, error)
}

// Handler wires subject endpoints to the subject service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a subject handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts subject endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/subjects", h.HandleCreate)
	r.Get("/subjects/tree", h.HandleTree)
	r.Put("/resources/{resourceID}/classification", h.HandleClassify)
	r.Get("/resources/{resourceID}/classification", h.HandleLinks)
}

// HandleCreate handles POST /subjects.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateSubjectRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	subject, err := h.service.CreateSubject(ctx, req.Name, req.ParsedParentID())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "subject created",
		"request_id", requestID,
		"subject_id", subject.ID.String(),
		"name", subject.Name,
	)
	httputil.WriteJSON(w, http.StatusCreated, subject)
}

// HandleClassify handles PUT /resources/{resourceID}/classification.
func (h *Handler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	resourceID, ok := h.pathResourceID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ClassifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.Classify(ctx, resourceID, req.ParsedMainID(), req.ParsedSubitemIDs()); err != nil {
		h.logger.WarnContext(ctx, "classification rejected",
			"request_id", requestID,
			"resource_id", resourceID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTree handles GET /subjects/tree.
func (h *Handler) HandleTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.service.Tree(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tree)
}

// HandleLinks handles GET /resources/{resourceID}/classification.
func (h *Handler) HandleLinks(w http.ResponseWriter, r *http.Request) {
	resourceID, ok := h.pathResourceID(w, r)
	if !ok {
		return
	}
	links, err := h.service.LinksFor(r.Context(), resourceID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, links)
}

func (h *Handler) pathResourceID(w http.ResponseWriter, r *http.Request) (id.ResourceID, bool) {
	resourceID, err := id.ParseResourceID(chi.URLParam(r, "resourceID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid resource id"))
		return id.ResourceID{}, false
	}
	return resourceID, true
}
