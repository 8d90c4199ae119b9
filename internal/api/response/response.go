// Package response defines the JSON envelope every endpoint answers with.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the uniform response shape. Code is zero on success; on failure
// it carries the business error type string.
type Body struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Message: "success", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Message: "success", Data: data})
}

// Error answers with a business error code and message.
func Error(c *gin.Context, httpStatus int, code, message string) {
	c.JSON(httpStatus, Body{Code: code, Message: message})
}

// ErrorWithDetails attaches structured conflict data to an error answer.
func ErrorWithDetails(c *gin.Context, httpStatus int, code, message string, details interface{}) {
	c.JSON(httpStatus, Body{Code: code, Message: message, Details: details})
}

func BadRequest(c *gin.Context, code, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, "not found", message)
}

func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "internal error", "internal server error")
}
