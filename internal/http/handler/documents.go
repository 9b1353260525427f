package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docmeta/internal/model"
	"docmeta/internal/service"
)

type analyzeUploadResponse struct {
	model.UploadResult
	AIAnalysis *model.AIAnalysisResult `json:"ai_analysis"`
}

type tagsResponse struct {
	Tags []string `json:"tags"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// validID enforces the UUID shape of document ids before touching the store.
func validID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// ListDocuments lists documents newest first.
//
// @Summary List documents
// @Tags documents
// @Param category query string false "category label"
// @Param file_type query string false "file extension"
// @Param search query string false "substring over title, author and description"
// @Param limit query int false "page size (1-100)" default(50)
// @Param offset query int false "offset" default(0)
// @Success 200 {array} model.Document
// @Header 200 {int} X-Total-Count "filtered total"
// @Failure 400 {object} errorPayload
// @Router /api/documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(service.DefaultListLimit)))
		if err != nil || limit < 1 || limit > service.MaxListLimit {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "limit must be an integer between 1 and 100")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil || offset < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "offset must be a non-negative integer")
		}

		res, err := svc.List(c.UserContext(), service.ListParams{
			Limit:    limit,
			Offset:   offset,
			Category: c.Query("category"),
			FileType: c.Query("file_type"),
			Search:   c.Query("search"),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set("X-Total-Count", strconv.Itoa(res.Total))
		return c.JSON(res.Items)
	}
}

// UploadDocument stores a multipart file (field "file").
//
// @Summary Upload a document
// @Tags documents
// @Accept multipart/form-data
// @Param file formData file true "document"
// @Success 201 {object} model.UploadResult
// @Failure 400 {object} errorPayload
// @Router /api/documents/upload [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		doc, err := svc.Upload(c.UserContext(), f, fh.Filename, contentType(fh.Header.Get("Content-Type")), fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(model.UploadResult{
			Success:  true,
			Message:  "Document uploaded successfully",
			Document: doc,
		})
	}
}

// AnalyzeUpload uploads a file and applies the AI suggestion to it.
//
// @Summary Upload and enrich a document
// @Tags documents
// @Accept multipart/form-data
// @Param file formData file true "document"
// @Success 201 {object} analyzeUploadResponse
// @Failure 400 {object} errorPayload
// @Router /api/documents/analyze-upload [post]
func AnalyzeUpload(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		out, err := svc.UploadAndAnalyze(c.UserContext(), f, fh.Filename, contentType(fh.Header.Get("Content-Type")), fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(analyzeUploadResponse{
			UploadResult: model.UploadResult{
				Success:  true,
				Message:  "Document uploaded and analyzed successfully",
				Document: out.Document,
			},
			AIAnalysis: out.Analysis,
		})
	}
}

func contentType(ct string) string {
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}

// GetDocument returns one document.
//
// @Summary Get a document
// @Tags documents
// @Param id path string true "document id"
// @Success 200 {object} model.Document
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// UpdateDocument applies a partial metadata update. Omitted or null fields are left unchanged.
//
// @Summary Update document metadata
// @Tags documents
// @Accept json
// @Param id path string true "document id"
// @Param patch body model.DocumentPatch true "fields to change"
// @Success 200 {object} model.Document
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id} [put]
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var patch model.DocumentPatch
		if err := c.BodyParser(&patch); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		doc, err := svc.Update(c.UserContext(), id, patch)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes a document and, best effort, its stored file.
//
// @Summary Delete a document
// @Tags documents
// @Param id path string true "document id"
// @Success 200 {object} messageResponse
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(messageResponse{Success: true, Message: "Document deleted successfully"})
	}
}

// AnalyzeDocument returns an AI suggestion for a stored document. Nothing is persisted.
//
// @Summary Suggest metadata for a document
// @Tags ai
// @Param id path string true "document id"
// @Success 200 {object} model.AIAnalysisResult
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id}/analyze [post]
func AnalyzeDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := svc.Analyze(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// SuggestTags proposes tags for a stored document.
//
// @Summary Suggest tags
// @Tags ai
// @Param id path string true "document id"
// @Success 200 {object} tagsResponse
// @Router /api/documents/{id}/suggest-tags [post]
func SuggestTags(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		tags, err := svc.SuggestTags(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(tagsResponse{Tags: tags})
	}
}

// DownloadDocument redirects to a presigned URL for the stored file.
//
// @Summary Download a document
// @Tags documents
// @Param id path string true "document id"
// @Success 302
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id}/download [get]
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		url, err := svc.DownloadURL(c.UserContext(), id, service.DefaultDownloadExpiry)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Redirect(url, fiber.StatusFound)
	}
}

// ClearAICache drops cached AI suggestions.
//
// @Summary Clear the AI cache
// @Tags ai
// @Success 200 {object} messageResponse
// @Router /api/ai/cache [delete]
func ClearAICache(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		svc.ClearAICache()
		return c.JSON(messageResponse{Success: true, Message: "AI cache cleared"})
	}
}
