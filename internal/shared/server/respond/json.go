package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes payload as the response body with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Created writes a 201 response for a newly stored resource.
func Created(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusCreated, payload)
}
