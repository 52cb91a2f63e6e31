package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"gopherblog/internal/transport/http/middleware"
	"gopherblog/internal/transport/http/response"
)

// serverError logs err and answers 500 without leaking it.
func serverError(c *gin.Context, message string, err error) {
	log.Printf("request %s %s %s: %s: %v", middleware.GetRequestID(c), c.Request.Method, c.FullPath(), message, err)
	response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "server error")
}
