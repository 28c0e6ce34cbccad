// Package response writes the JSON envelope of the /api proxy.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ping-crm/dashboard/pkg/apiclient"
)

// Body is the standard API response envelope.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// BadRequest sends 400 with error message.
func BadRequest(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Error: err})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, err string) {
	c.JSON(http.StatusUnauthorized, Body{Success: false, Error: err})
}

// NotFound sends 404.
func NotFound(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, Body{Success: false, Error: err})
}

// Unprocessable sends 422 with per-field messages.
func Unprocessable(c *gin.Context, err string, fields map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err, "errors": fields})
}

// Internal sends 500.
func Internal(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, Body{Success: false, Error: err})
}

// Failure relays an API failure with its status and message. Anything that
// is not a RequestFailure is a 500.
func Failure(c *gin.Context, err error) {
	var rf *apiclient.RequestFailure
	if !errors.As(err, &rf) {
		Internal(c, "Something went wrong. Please try again.")
		return
	}
	c.JSON(rf.Status, Body{Success: false, Error: rf.Message})
}
