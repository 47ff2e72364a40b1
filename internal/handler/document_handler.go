package handler

import (
	"io"

	"github.com/antarakost/service-rental/internal/application"
	"github.com/antarakost/service-rental/internal/domain/rental"
	"github.com/antarakost/service-rental/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20 // 10 MB

// DocumentHandler handles HTTP requests for document generation and upload.
type DocumentHandler struct {
	service *application.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(service *application.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// RegisterRoutes registers all document routes on the given router group.
func (h *DocumentHandler) RegisterRoutes(r *gin.RouterGroup) {
	docs := r.Group("/api/v1/rentals/:id/documents")
	{
		docs.POST("/generate/:type", h.GenerateDocument)
		docs.POST("/generate-all", h.GenerateAllDocuments)
		docs.POST("/sop", h.UploadSOP)
	}
}

// GenerateDocument handles POST /api/v1/rentals/:id/documents/generate/:type.
func (h *DocumentHandler) GenerateDocument(c *gin.Context) {
	rentalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rental ID")
		return
	}

	docType, err := rental.ParseDocumentType(c.Param("type"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	doc, err := h.service.GenerateDocument(c.Request.Context(), rentalID, docType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"success": true, "document": doc})
}

// GenerateAllDocuments handles POST /api/v1/rentals/:id/documents/generate-all.
// The response always carries whatever documents were produced; success is
// false when any of the three pipelines failed.
func (h *DocumentHandler) GenerateAllDocuments(c *gin.Context) {
	rentalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rental ID")
		return
	}

	result, err := h.service.GenerateAllDocuments(c.Request.Context(), rentalID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UploadSOP handles POST /api/v1/rentals/:id/documents/sop, a multipart
// upload of the static SOP document.
func (h *DocumentHandler) UploadSOP(c *gin.Context) {
	rentalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rental ID")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		response.BadRequest(c, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "failed to open uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		response.BadRequest(c, "failed to read uploaded file")
		return
	}

	doc, err := h.service.AttachSOP(c.Request.Context(), rentalID, data, fileHeader.Filename)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"success": true, "document": doc})
}
