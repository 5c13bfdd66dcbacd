package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"plenario/internal/resource/models"
	"plenario/internal/resource/service"
	id "plenario/pkg/domain"
	dErrors "plenario/pkg/domain-errors"
	"plenario/pkg/platform/httputil"
	"plenario/pkg/requestcontext"
)

// Service defines the interface for resource operations.
type Service interface {
	Register(ctx context.Context, input service.RegisterInput) (*models.Resource, error)
	SetStatus(ctx context.Context, resourceID id.ResourceID, next models.Status) (*models.Resource, error)
	RecordJudgment(ctx context.Context, resourceID id.ResourceID) (*models.Resource, error)
	Get(ctx context.Context, resourceID id.ResourceID) (*models.Resource, error)
	List(ctx context.Context) ([]*models.Resource, error)
	History(ctx context.Context, resourceID id.ResourceID) ([]*models.Tramitation, error)
}

// Handler wires resource endpoints to the resource service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a resource handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts resource endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/resources", h.HandleRegister)
	r.Get("/resources", h.HandleList)
	r.Get("/resources/{resourceID}", h.HandleGet)
	r.Put("/resources/{resourceID}/status", h.HandleSetStatus)
	r.Post("/resources/{resourceID}/judgment", h.HandleRecordJudgment)
	r.Get("/resources/{resourceID}/tramitations", h.HandleHistory)
}

// HandleRegister handles POST /resources.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resource, err := h.service.Register(ctx, service.RegisterInput{
		Sequence:      req.Sequence,
		Year:          req.Year,
		Number:        req.Number,
		ProcessNumber: req.ProcessNumber,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "resource registration failed",
			"request_id", requestID,
			"number", req.Number,
			"year", req.Year,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "resource registered",
		"request_id", requestID,
		"resource_id", resource.ID.String(),
		"number", resource.Number,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromResource(resource))
}

// HandleSetStatus handles PUT /resources/{resourceID}/status.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	resourceID, ok := h.pathResourceID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SetStatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resource, err := h.service.SetStatus(ctx, resourceID, req.ParsedStatus())
	if err != nil {
		h.logger.WarnContext(ctx, "status change rejected",
			"request_id", requestID,
			"resource_id", resourceID.String(),
			"target_status", req.Status,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "resource status changed",
		"request_id", requestID,
		"resource_id", resourceID.String(),
		"status", string(resource.Status),
	)
	httputil.WriteJSON(w, http.StatusOK, FromResource(resource))
}

// HandleRecordJudgment handles POST /resources/{resourceID}/judgment.
func (h *Handler) HandleRecordJudgment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	resourceID, ok := h.pathResourceID(w, r)
	if !ok {
		return
	}

	resource, err := h.service.RecordJudgment(ctx, resourceID)
	if err != nil {
		h.logger.WarnContext(ctx, "judgment rejected",
			"request_id", requestID,
			"resource_id", resourceID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "resource judged",
		"request_id", requestID,
		"resource_id", resourceID.String(),
		"status", string(resource.Status),
	)
	httputil.WriteJSON(w, http.StatusOK, FromResource(resource))
}

// HandleGet handles GET /resources/{resourceID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	resourceID, ok := h.pathResourceID(w, r)
	if !ok {
		return
	}
	resource, err := h.service.Get(r.Context(), resourceID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromResource(resource))
}

// HandleList handles GET /resources.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	resources, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromResources(resources))
}

// HandleHistory handles GET /resources/{resourceID}/tramitations.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	resourceID, ok := h.pathResourceID(w, r)
	if !ok {
		return
	}
	history, err := h.service.History(r.Context(), resourceID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromTramitations(history))
}

func (h *Handler) pathResourceID(w http.ResponseWriter, r *http.Request) (id.ResourceID, bool) {
	resourceID, err := id.ParseResourceID(chi.URLParam(r, "resourceID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid resource id"))
		return id.ResourceID{}, false
	}
	return resourceID, true
}
