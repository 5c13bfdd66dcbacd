package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	pubmodels "plenario/internal/publication/models"
	"plenario/internal/session/models"
	"plenario/internal/session/service"
	id "plenario/pkg/domain"
	dErrors "plenario/pkg/domain-errors"
	"plenario/pkg/platform/httputil"
	"plenario/pkg/requestcontext"
)

// Service defines the interface for session operations.
type Service interface {
	CreateSession(ctx context.Context, input service.CreateSessionInput) (*models.Session, error)
	PublishAgenda(ctx context.Context, sessionID id.SessionID, number string, date time.Time, observations string) (*pubmodels.Publication, error)
	AddResource(ctx context.Context, sessionID id.SessionID, resourceID id.ResourceID) (*models.SessionResource, error)
	RemoveResource(ctx context.Context, sessionID id.SessionID, resourceID id.ResourceID) error
	Reorder(ctx context.Context, sessionID id.SessionID, entries []service.OrderEntry) error
	Agenda(ctx context.Context, sessionID id.SessionID) ([]*models.SessionResource, error)
	Get(ctx context.Context, sessionID id.SessionID) (*models.Session, error)
	List(ctx context.Context) ([]models.SessionRow, error)
	MinutesReady(ctx context.Context, sessionID id.SessionID) (bool, error)
	CompleteJudgment(ctx context.Context, sessionID id.SessionID) (*models.Session, error)
	FinalizeMinutes(ctx context.Context, sessionID id.SessionID, minutesFile string) (*models.Session, error)
}

// Handler wires session endpoints to the session service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a session handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts session endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/sessions", h.HandleCreate)
	r.Get("/sessions", h.HandleList)
	r.Get("/sessions/{sessionID}", h.HandleGet)
	r.Post("/sessions/{sessionID}/publish", h.HandlePublishAgenda)
	r.Get("/sessions/{sessionID}/agenda", h.HandleAgenda)
	r.Post("/sessions/{sessionID}/agenda", h.HandleAddResource)
	r.Put("/sessions/{sessionID}/agenda/order", h.HandleReorder)
	r.Delete("/sessions/{sessionID}/agenda/{resourceID}", h.HandleRemoveResource)
	r.Get("/sessions/{sessionID}/minutes/readiness", h.HandleMinutesReadiness)
	r.Post("/sessions/{sessionID}/judgment/complete", h.HandleCompleteJudgment)
	r.Post("/sessions/{sessionID}/minutes", h.HandleFinalizeMinutes)
}

// HandleCreate handles POST /sessions.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateSessionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	session, err := h.service.CreateSession(ctx, service.CreateSessionInput{
		Sequence: req.Sequence,
		Year:     req.Year,
		Ordinal:  req.Ordinal,
		Type:     req.ParsedType(),
		Date:     req.ParsedDate(),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "session creation failed",
			"request_id", requestID,
			"year", req.Year,
			"ordinal", req.Ordinal,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "session created",
		"request_id", requestID,
		"session_id", session.ID.String(),
		"year", session.Year,
		"ordinal", session.Ordinal,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromSession(session))
}

// HandlePublishAgenda handles POST /sessions/{sessionID}/publish.
func (h *Handler) HandlePublishAgenda(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sessionID, ok := h.pathSessionID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PublishAgendaRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	publication, err := h.service.PublishAgenda(ctx, sessionID, req.Number, req.ParsedDate(), req.Observations)
	if err != nil {
		h.logger.WarnContext(ctx, "agenda publication rejected",
			"request_id", requestID,
			"session_id", sessionID.String(),
			"number", req.Number,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "agenda published",
		"request_id", requestID,
		"session_id", sessionID.String(),
		"publication_number", publication.Number,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromAgendaPublication(publication))
}

// HandleAddResource handles POST /sessions/{sessionID}/agenda.
func (h *Handler) HandleAddResource(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sessionID, ok := h.pathSessionID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddResourceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	row, err := h.service.AddResource(ctx, sessionID, req.ParsedResourceID())
	if err != nil {
		h.logger.WarnContext(ctx, "agenda addition rejected",
			"request_id", requestID,
			"session_id", sessionID.String(),
			"resource_id", req.ResourceID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromAgendaRow(row))
}

// HandleRemoveResource handles DELETE /sessions/{sessionID}/agenda/{resourceID}.
func (h *Handler) HandleRemoveResource(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.pathSessionID(w, r)
	if !ok {
		return
	}
	resourceID, err := id.ParseResourceID(chi.URLParam(r, "resourceID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid resource id"))
		return
	}

	if err := h.service.RemoveResource(r.Context(), sessionID, resourceID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleReorder handles PUT /sessions/{sessionID}/agenda/order.
func (h *Handler) HandleReorder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sessionID, ok := h.pathSessionID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ReorderRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.Reorder(ctx, sessionID, req.ParsedEntries()); err != nil {
		h.logger.WarnContext(ctx, "agenda reorder rejected",
			"request_id", requestID,
			"session_id", sessionID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAgenda handles GET /sessions/{sessionID}/agenda.
func (h *Handler) HandleAgenda(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.pathSessionID(w, r)
	if !ok {
		return
	}
	agenda, err := h.service.Agenda(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromAgenda(agenda))
}

// HandleGet handles GET /sessions/{sessionID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.pathSessionID(w, r)
	if !ok {
		return
	}
	session, err := h.service.Get(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSession(session))
}

// HandleList handles GET /sessions.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSessionRows(rows))
}

// HandleMinutesReadiness handles GET /sessions/{sessionID}/minutes/readiness.
func (h *Handler) HandleMinutesReadiness(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.pathSessionID(w, r)
	if !ok {
		return
	}
	ready, err := h.service.MinutesReady(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MinutesReadinessResponse{Ready: ready})
}

// HandleCompleteJudgment handles POST /sessions/{sessionID}/judgment/complete.
func (h *Handler) HandleCompleteJudgment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sessionID, ok := h.pathSessionID(w, r)
	if !ok {
		return
	}
	session, err := h.service.CompleteJudgment(ctx, sessionID)
	if err != nil {
		h.logger.WarnContext(ctx, "judgment completion rejected",
			"request_id", requestID,
			"session_id", sessionID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "session judged",
		"request_id", requestID,
		"session_id", sessionID.String(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromSession(session))
}

// HandleFinalizeMinutes handles POST /sessions/{sessionID}/minutes.
func (h *Handler) HandleFinalizeMinutes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sessionID, ok := h.pathSessionID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[FinalizeMinutesRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	session, err := h.service.FinalizeMinutes(ctx, sessionID, req.MinutesFile)
	if err != nil {
		h.logger.WarnContext(ctx, "minutes finalization rejected",
			"request_id", requestID,
			"session_id", sessionID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "minutes finalized",
		"request_id", requestID,
		"session_id", sessionID.String(),
		"minutes_file", session.MinutesFile,
	)
	httputil.WriteJSON(w, http.StatusOK, FromSession(session))
}

func (h *Handler) pathSessionID(w http.ResponseWriter, r *http.Request) (id.SessionID, bool) {
	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid session id"))
		return id.SessionID{}, false
	}
	return sessionID, true
}
