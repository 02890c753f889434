package documents

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medbook/rag/internal/platform/pdf"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/upload", h.Upload)
	api.GET("/documents", h.ListDocuments)
	api.GET("/documents/:id", h.GetDocument)
	api.DELETE("/documents/:id", h.DeleteDocument)
}

// Upload accepts a multipart PDF under the "file" field, runs the
// ingestion pipeline, and returns the stored document's metadata.
func (h *Handler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no file uploaded")
	}

	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return echo.NewHTTPError(http.StatusBadRequest, "only PDF files are supported")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read uploaded file")
	}

	doc, err := h.svc.Ingest(c.Request().Context(), fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, pdf.ErrNoText) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "pdf contains no extractable text")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to process PDF")
	}

	entities := doc.Entities
	if entities == nil {
		entities = []string{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":      "document processed successfully",
		"documentId":   doc.ID,
		"fileName":     doc.FileName,
		"entities":     entities,
		"chunkCount":   doc.ChunkCount,
		"vectorStatus": doc.VectorStatus,
	})
}

func (h *Handler) ListDocuments(c echo.Context) error {
	docs, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch documents")
	}
	if docs == nil {
		docs = []*Document{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"documents": docs})
}

func (h *Handler) GetDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid document id")
	}
	doc, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "document not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch document")
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *Handler) DeleteDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid document id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "document not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete document")
	}
	return c.NoContent(http.StatusNoContent)
}
