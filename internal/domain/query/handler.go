package query

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	doc "github.com/medbook/rag/internal/domain/documents"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/query", h.Query)
}

// Query answers a question about a patient document. With no documentId
// the most recently uploaded document is used.
func (h *Handler) Query(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Query is required")
	}

	documentID := uuid.Nil
	if req.DocumentID != "" {
		id, err := uuid.Parse(req.DocumentID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid document id")
		}
		documentID = id
	}

	resp, err := h.svc.Answer(c.Request().Context(), req.Query, documentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyQuery):
			return echo.NewHTTPError(http.StatusBadRequest, "Query is required")
		case errors.Is(err, doc.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "document not found")
		case errors.Is(err, ErrCompletion):
			return echo.NewHTTPError(http.StatusBadGateway, "failed to generate answer")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to process query")
		}
	}
	return c.JSON(http.StatusOK, resp)
}
