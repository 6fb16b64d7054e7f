package feedback

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobseeker-backend/internal/postings"
	"jobseeker-backend/internal/resumes"
	"jobseeker-backend/internal/shared/server/middleware"
	"jobseeker-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the feedback service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches feedback routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes/:id/feedbacks/standard", h.generateStandard)
	rg.POST("/resumes/:id/feedbacks/posting/:postingID", h.generatePosting)
	rg.GET("/feedbacks", h.listFeedbacks)
	rg.GET("/feedbacks/:id", h.getFeedback)
	rg.DELETE("/feedbacks/:id", h.deleteFeedback)
	rg.POST("/feedbacks/:id/apply/standard", h.applyStandard)
	rg.POST("/feedbacks/:id/apply/posting", h.applyPosting)
}

func (h *Handler) generateStandard(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume id must be an integer", nil)
		return
	}

	fb, err := h.Svc.GenerateStandard(c.Request.Context(), userID, resumeID)
	if err != nil {
		h.respondError(c, err, "failed to generate feedback")
		return
	}

	c.Set("feedbackId", fb.ID)
	respond.Created(c, fb)
}

func (h *Handler) generatePosting(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume id must be an integer", nil)
		return
	}
	postingID, err := strconv.ParseInt(c.Param("postingID"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "posting id must be an integer", nil)
		return
	}

	fb, err := h.Svc.GeneratePosting(c.Request.Context(), userID, resumeID, postingID)
	if err != nil {
		h.respondError(c, err, "failed to generate feedback")
		return
	}

	c.Set("feedbackId", fb.ID)
	respond.Created(c, fb)
}

func (h *Handler) getFeedback(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	feedbackID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "feedback id must be an integer", nil)
		return
	}

	fb, err := h.Svc.Get(c.Request.Context(), userID, feedbackID)
	if err != nil {
		h.respondError(c, err, "failed to fetch feedback")
		return
	}

	respond.OK(c, fb)
}

func (h *Handler) listFeedbacks(c *gin.Context) {
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
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list feedbacks", nil)
		return
	}
	if items == nil {
		items = []Feedback{}
	}

	respond.OK(c, gin.H{"feedbacks": items})
}

func (h *Handler) deleteFeedback(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	feedbackID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "feedback id must be an integer", nil)
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), userID, feedbackID); err != nil {
		h.respondError(c, err, "failed to delete feedback")
		return
	}

	respond.OK(c, gin.H{"deleted": true})
}

func (h *Handler) applyStandard(c *gin.Context) {
	h.apply(c, h.Svc.ApplyStandard)
}

func (h *Handler) applyPosting(c *gin.Context) {
	h.apply(c, h.Svc.ApplyPosting)
}

func (h *Handler) apply(c *gin.Context, fn func(ctx context.Context, userID, feedbackID int64) (resumes.Projection, error)) {
	userID := middleware.UserIDFromContext(c)
	feedbackID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "feedback id must be an integer", nil)
		return
	}

	projection, err := fn(c.Request.Context(), userID, feedbackID)
	if err != nil {
		h.respondError(c, err, "failed to apply feedback")
		return
	}

	c.Set("resumeId", projection.ID)
	respond.Created(c, projection)
}

// respondError maps pipeline errors across the packages involved: feedback
// itself, the resume projection, and the posting lookup.
func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrGeneration):
		respond.Error(c, http.StatusBadGateway, "generation_failed", "the language model did not return a usable result", nil)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, resumes.ErrInvalidInput), errors.Is(err, postings.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "feedback not found", nil)
	case errors.Is(err, resumes.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, postings.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "posting not found", nil)
	case errors.Is(err, ErrForbidden), errors.Is(err, resumes.ErrForbidden), errors.Is(err, postings.ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "resource belongs to another user", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
