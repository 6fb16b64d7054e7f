package resumes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobseeker-backend/internal/files"
	"jobseeker-backend/internal/shared/server/middleware"
	"jobseeker-backend/internal/shared/server/respond"
	"jobseeker-backend/internal/shared/util"
)

// Handler wires HTTP handlers to the resumes service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.createResume)
	rg.GET("/resumes", h.listResumes)
	rg.GET("/resumes/:id", h.getResume)
	rg.PUT("/resumes/:id", h.updateResume)
	rg.DELETE("/resumes/:id", h.deleteResume)
	rg.POST("/resumes/:id/image", h.uploadImage)
}

func (h *Handler) createResume(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	projection, err := h.Svc.Create(c.Request.Context(), userID, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create resume", nil)
		}
		return
	}

	c.Set("resumeId", projection.ID)
	respond.Created(c, projection)
}

func (h *Handler) getResume(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume id must be an integer", nil)
		return
	}

	projection, err := h.Svc.Get(c.Request.Context(), userID, resumeID)
	if err != nil {
		h.respondResumeError(c, err, "failed to fetch resume")
		return
	}

	respond.OK(c, projection)
}

func (h *Handler) listResumes(c *gin.Context) {
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
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list resumes", nil)
		return
	}
	if items == nil {
		items = []Summary{}
	}

	respond.OK(c, gin.H{"resumes": items})
}

func (h *Handler) updateResume(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume id must be an integer", nil)
		return
	}

	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	projection, err := h.Svc.Update(c.Request.Context(), userID, resumeID, in)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		h.respondResumeError(c, err, "failed to update resume")
		return
	}

	respond.OK(c, projection)
}

func (h *Handler) deleteResume(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume id must be an integer", nil)
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), userID, resumeID); err != nil {
		h.respondResumeError(c, err, "failed to delete resume")
		return
	}

	respond.OK(c, gin.H{"deleted": true})
}

func (h *Handler) uploadImage(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume id must be an integer", nil)
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "image form file is required", nil)
		return
	}
	fileName, err := util.SanitizeFileName(header.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}
	src, err := header.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read uploaded file", nil)
		return
	}
	defer src.Close()

	file, err := h.Svc.UploadImage(c.Request.Context(), userID, resumeID, fileName, src, header.Size)
	if err != nil {
		if errors.Is(err, files.ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		h.respondResumeError(c, err, "failed to upload image")
		return
	}

	respond.Created(c, file)
}

func (h *Handler) respondResumeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "resume belongs to another user", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
