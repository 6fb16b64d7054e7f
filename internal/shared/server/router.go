package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobseeker-backend/internal/applications"
	"jobseeker-backend/internal/feedback"
	"jobseeker-backend/internal/postings"
	"jobseeker-backend/internal/resumes"
	"jobseeker-backend/internal/shared/auth"
	"jobseeker-backend/internal/shared/config"
	"jobseeker-backend/internal/shared/server/middleware"
	"jobseeker-backend/internal/shared/server/respond"
)

// RouterDeps carries everything the router needs; bootstrap fills it.
type RouterDeps struct {
	Config       config.Config
	Signer       *auth.Signer
	Resumes      *resumes.Handler
	Postings     *postings.Handler
	Feedback     *feedback.Handler
	Applications *applications.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
// The health endpoint is open; everything else sits behind JWT auth.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true, "env": deps.Config.Env})
	})

	authed := api.Group("")
	authed.Use(middleware.Auth(deps.Signer))
	deps.Resumes.RegisterRoutes(authed)
	deps.Postings.RegisterRoutes(authed)
	deps.Feedback.RegisterRoutes(authed)
	deps.Applications.RegisterRoutes(authed)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
