package response

import (
	"errors"
	"net/http"

	"github.com/antarakost/service-rental/internal/document"
	"github.com/antarakost/service-rental/internal/domain/shared"
	"github.com/antarakost/service-rental/internal/storage"
	"github.com/gin-gonic/gin"
)

// Success writes a 200 response with the payload under "data".
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Created writes a 201 response with the payload under "data".
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}

// Paginated writes a 200 response with items and paging metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"data":  items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// BadRequest writes a 400 response with the message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// Error maps an error to the appropriate HTTP status. Validation errors
// include the missing-field labels so the UI can highlight them.
func Error(c *gin.Context, err error) {
	var de *shared.DomainError
	if errors.As(err, &de) {
		body := gin.H{"error": de.Message}
		if len(de.MissingFields) > 0 {
			body["missing_fields"] = de.MissingFields
		}
		c.JSON(statusForKind(de.Kind), body)
		return
	}

	var tme *document.TemplateMissingError
	var re *document.RenderError
	var ue *storage.UploadError
	switch {
	case errors.As(err, &tme), errors.As(err, &re):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &ue):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func statusForKind(kind shared.ErrorKind) int {
	switch kind {
	case shared.KindValidation:
		return http.StatusBadRequest
	case shared.KindNotFound:
		return http.StatusNotFound
	case shared.KindConflict:
		return http.StatusConflict
	case shared.KindInvalidState:
		return http.StatusUnprocessableEntity
	case shared.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
