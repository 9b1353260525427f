package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docmeta/internal/model"
	"docmeta/internal/service"
	serviceMocks "docmeta/internal/service/mocks"
)

func strPtr(s string) *string { return &s }

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, _ = part.Write([]byte(content))
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents", ListDocuments(mockSvc))

	t.Run("success with filters", func(t *testing.T) {
		expectedRes := &service.DocumentListResult{
			Items: []model.Document{{ID: uuid.New().String(), FileName: "test.pdf", Tags: []string{}}},
			Total: 12,
			Limit: 10,
		}
		mockSvc.On("List", mock.Anything, service.ListParams{
			Limit: 10, Offset: 0, Category: "RH", FileType: "pdf", Search: "contract",
		}).Return(expectedRes, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents?limit=10&offset=0&category=RH&file_type=pdf&search=contract", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "12", resp.Header.Get("X-Total-Count"))

		var result []model.Document
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		require.Len(t, result, 1)
		assert.Equal(t, expectedRes.Items[0].ID, result[0].ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("defaults", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, service.ListParams{Limit: 50}).
			Return(&service.DocumentListResult{Items: []model.Document{}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `[]`, string(body))
		mockSvc.AssertExpectations(t)
	})

	for _, tc := range []struct{ query, code string }{
		{"limit=abc", "INVALID_LIMIT"},
		{"limit=0", "INVALID_LIMIT"},
		{"limit=101", "INVALID_LIMIT"},
		{"offset=-1", "INVALID_OFFSET"},
		{"offset=x", "INVALID_OFFSET"},
	} {
		t.Run("invalid "+tc.query, func(t *testing.T) {
			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents?"+tc.query, nil))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tc.code, decodeError(t, resp).Error.Code)
		})
	}

	t.Run("unknown category", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, mock.Anything).Return(nil, service.ErrInvalidCategory).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents?category=recipes", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, service.ListParams{Limit: 50}).Return(nil, errors.New("service error")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "internal server error", decodeError(t, resp).Error.Message)
		mockSvc.AssertExpectations(t)
	})
}

func TestUploadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Post("/documents/upload", UploadDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		body, ct := multipartBody(t, "test.txt", "hello world")

		expectedDoc := &model.Document{ID: uuid.New().String(), FileName: "test.txt", Tags: []string{}}
		mockSvc.On("Upload", mock.Anything, mock.Anything, "test.txt", mock.Anything, int64(11)).Return(expectedDoc, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.UploadResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.True(t, result.Success)
		require.NotNil(t, result.Document)
		assert.Equal(t, expectedDoc.ID, result.Document.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/documents/upload", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		body, ct := multipartBody(t, "test.txt", "hello")
		mockSvc.On("Upload", mock.Anything, mock.Anything, "test.txt", mock.Anything, mock.Anything).Return(nil, service.ErrFilenameRequired).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		body, ct := multipartBody(t, "test.txt", "hello")
		mockSvc.On("Upload", mock.Anything, mock.Anything, "test.txt", mock.Anything, mock.Anything).Return(nil, errors.New("upload failed")).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestAnalyzeUpload(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Post("/documents/analyze-upload", AnalyzeUpload(mockSvc))

	body, ct := multipartBody(t, "q3.pdf", "%PDF")
	id := uuid.New().String()
	mockSvc.On("UploadAndAnalyze", mock.Anything, mock.Anything, "q3.pdf", mock.Anything, mock.Anything).Return(&service.AnalyzedUpload{
		Document: &model.Document{ID: id, Title: "Q3", Category: model.CategoryFinancial, Tags: []string{"q3"}},
		Analysis: &model.AIAnalysisResult{SuggestedCategory: model.CategoryFinancial, SuggestedTags: []string{"q3"}, Confidence: 0.8},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/documents/analyze-upload", body)
	req.Header.Set("Content-Type", ct)
	resp, _ := app.Test(req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, true, out["success"])
	assert.Equal(t, id, out["document"].(map[string]any)["id"])
	assert.Equal(t, 0.8, out["ai_analysis"].(map[string]any)["confidence"])
	mockSvc.AssertExpectations(t)
}

func TestGetDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents/:id", GetDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		expectedDoc := &model.Document{ID: id, FileName: "test.txt"}
		mockSvc.On("Get", mock.Anything, id).Return(expectedDoc, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/"+id, nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, id, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(nil, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/"+id, nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found from sql", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(nil, sql.ErrNoRows).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/"+id, nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/invalid-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(nil, errors.New("db error")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/"+id, nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestUpdateDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Put("/documents/:id", UpdateDocument(mockSvc))

	put := func(id, body string) *http.Response {
		req := httptest.NewRequest(http.MethodPut, "/documents/"+id, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("partial update", func(t *testing.T) {
		id := uuid.New().String()
		tags := []string{}
		mockSvc.On("Update", mock.Anything, id, model.DocumentPatch{
			Title: strPtr("New title"),
			Tags:  &tags,
		}).Return(&model.Document{ID: id, Title: "New title", Tags: []string{}}, nil).Once()

		resp := put(id, `{"title":"New title","tags":[],"author":null}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("validation error", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Update", mock.Anything, id, mock.Anything).
			Return(nil, errors.Join(model.ErrValidation, errors.New("title must be 1-255 characters"))).Once()

		resp := put(id, `{"title":""}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		resp := put(uuid.New().String(), `{"title":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Error.Code)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Update", mock.Anything, id, mock.Anything).Return(nil, service.ErrNotFound).Once()

		resp := put(id, `{}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Delete("/documents/:id", DeleteDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, id).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body messageResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.True(t, body.Success)
		assert.Equal(t, "Document deleted successfully", body.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, id).Return(service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/documents/invalid-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("service error", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, id).Return(errors.New("db error")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestAIEndpoints(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Post("/documents/:id/analyze", AnalyzeDocument(mockSvc))
	app.Post("/documents/:id/suggest-tags", SuggestTags(mockSvc))
	app.Get("/documents/:id/download", DownloadDocument(mockSvc))
	app.Delete("/ai/cache", ClearAICache(mockSvc))

	t.Run("analyze", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Analyze", mock.Anything, id).Return(&model.AIAnalysisResult{
			SuggestedCategory: model.CategoryTechnical, SuggestedTags: []string{"api"}, Confidence: 0.6,
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/documents/"+id+"/analyze", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var res model.AIAnalysisResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, model.CategoryTechnical, res.SuggestedCategory)
	})

	t.Run("suggest tags", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("SuggestTags", mock.Anything, id).Return([]string{"a", "b"}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/documents/"+id+"/suggest-tags", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var res tagsResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, []string{"a", "b"}, res.Tags)
	})

	t.Run("download redirects", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("DownloadURL", mock.Anything, id, service.DefaultDownloadExpiry).Return("https://signed.example/obj", nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/"+id+"/download", nil))
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "https://signed.example/obj", resp.Header.Get("Location"))
	})

	t.Run("clear cache", func(t *testing.T) {
		mockSvc.On("ClearAICache").Return().Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/ai/cache", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestAnalyticsHandlers(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnalyticsService)
	app := fiber.New()
	app.Get("/analytics/stats", AnalyticsStats(mockSvc))
	app.Get("/analytics/export", AnalyticsExport(mockSvc))

	t.Run("stats", func(t *testing.T) {
		mockSvc.On("Stats", mock.Anything).Return(&model.AnalyticsSnapshot{
			TotalDocuments:  3,
			Categories:      []model.CategoryStat{{Category: model.CategoryFinancial, Count: 2, Percentage: 66.67}},
			TopTags:         []model.TagStat{},
			Timeline:        []model.TimelinePoint{},
			DocumentsByType: map[string]int{"pdf": 3},
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/analytics/stats", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var snap model.AnalyticsSnapshot
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
		assert.Equal(t, 3, snap.TotalDocuments)
		assert.Equal(t, 66.67, snap.Categories[0].Percentage)
	})

	t.Run("stats error", func(t *testing.T) {
		mockSvc.On("Stats", mock.Anything).Return(nil, errors.New("db down")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/analytics/stats", nil))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("export", func(t *testing.T) {
		mockSvc.On("Export", mock.Anything, mock.Anything).Return(func(w io.Writer) error {
			_, err := w.Write([]byte("PK"))
			return err
		}).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/analytics/export", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, xlsxContentType, resp.Header.Get("Content-Type"))
		b, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "PK", string(b))
	})
}

func TestRegisterRoutes(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	dbMock.ExpectPing()

	docSvc := new(serviceMocks.MockDocumentService)
	statsSvc := new(serviceMocks.MockAnalyticsService)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, db, docSvc, statsSvc)

	docSvc.On("List", mock.Anything, service.ListParams{Limit: 50}).
		Return(&service.DocumentListResult{Items: []model.Document{}}, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/documents", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)

	docSvc.AssertExpectations(t)
}
