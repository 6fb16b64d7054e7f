package applications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobseeker-backend/internal/postings"
	"jobseeker-backend/internal/resumes"
	"jobseeker-backend/internal/shared/server/middleware"
	"jobseeker-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the applications service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches application routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/applications", h.apply)
	rg.GET("/applications", h.listApplications)
	rg.DELETE("/applications/:id", h.cancelApplication)
}

type applyRequest struct {
	PostingID   int64  `json:"posting_id"`
	ResumeID    int64  `json:"resume_id"`
	CoverLetter string `json:"cover_letter"`
}

func (h *Handler) apply(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	application, err := h.Svc.Apply(c.Request.Context(), userID, ApplyInput{
		PostingID:   req.PostingID,
		ResumeID:    req.ResumeID,
		CoverLetter: req.CoverLetter,
	})
	if err != nil {
		h.respondError(c, err, "failed to create application")
		return
	}

	respond.Created(c, application)
}

func (h *Handler) listApplications(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	items, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		return
	}
	if items == nil {
		items = []Application{}
	}

	respond.OK(c, gin.H{"applications": items})
}

func (h *Handler) cancelApplication(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	applicationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "application id must be an integer", nil)
		return
	}

	if err := h.Svc.Cancel(c.Request.Context(), userID, applicationID); err != nil {
		h.respondError(c, err, "failed to cancel application")
		return
	}

	respond.OK(c, gin.H{"deleted": true})
}

// respondError maps service errors to HTTP. Apply crosses into the posting and
// resume packages, so their sentinels are handled here too.
func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrDuplicate):
		respond.Error(c, http.StatusConflict, "already_applied", "you already applied to this posting", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
	case errors.Is(err, postings.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "posting not found", nil)
	case errors.Is(err, resumes.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrForbidden), errors.Is(err, postings.ErrForbidden), errors.Is(err, resumes.ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "resource belongs to another user", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
