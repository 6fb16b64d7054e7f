package postings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobseeker-backend/internal/shared/server/middleware"
	"jobseeker-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the postings service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches posting routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/postings", h.createPosting)
	rg.GET("/postings", h.listPostings)
	rg.GET("/postings/:id", h.getPosting)
	rg.DELETE("/postings/:id", h.deletePosting)
}

type createPostingRequest struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	Company       string `json:"company"`
	Qualification string `json:"qualification"`
	Prefer        string `json:"prefer"`
}

func (h *Handler) createPosting(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	posting, err := h.Svc.Create(c.Request.Context(), userID, CreateInput{
		URL:           req.URL,
		Title:         req.Title,
		Company:       req.Company,
		Qualification: req.Qualification,
		Prefer:        req.Prefer,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create posting", nil)
		}
		return
	}

	respond.Created(c, posting)
}

func (h *Handler) getPosting(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	postingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "posting id must be an integer", nil)
		return
	}

	posting, err := h.Svc.Get(c.Request.Context(), userID, postingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "posting not found", nil)
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", "posting belongs to another user", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch posting", nil)
		}
		return
	}

	respond.OK(c, posting)
}

func (h *Handler) listPostings(c *gin.Context) {
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
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list postings", nil)
		return
	}
	if items == nil {
		items = []Posting{}
	}

	respond.OK(c, gin.H{"postings": items})
}

func (h *Handler) deletePosting(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	postingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "posting id must be an integer", nil)
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), userID, postingID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "posting not found", nil)
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", "posting belongs to another user", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete posting", nil)
		}
		return
	}

	respond.OK(c, gin.H{"deleted": true})
}
