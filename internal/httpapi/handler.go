package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/domain"
)

type Handler struct {
	search   Searcher
	trending Trender
	content  Generator
	logger   *zap.Logger
}

// Search: 400 только на пустой запрос; сбои источников уходят внутрь агрегата
func (h *Handler) Search(c echo.Context) error {
	res, err := h.search.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		if errors.Is(err, domain.ErrMissingQuery) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "Search query is required"})
		}
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) Trending(c echo.Context) error {
	if h.trending == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Trending suggestions are disabled")
	}

	out, err := h.trending.Suggest(c.Request().Context(), c.QueryParam("q"), c.QueryParam("platform"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPlatform) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid platform: use all, google or youtube"})
		}
		return err
	}
	return c.JSON(http.StatusOK, out)
}

type generateRequest struct {
	TranscriptionText string `json:"transcriptionText"`
	SearchTerm        string `json:"searchTerm"`
}

func (r generateRequest) text(kind domain.ContentKind) string {
	if kind.InputField() == "searchTerm" {
		return r.SearchTerm
	}
	return r.TranscriptionText
}

func (h *Handler) Generate(c echo.Context) error {
	kind, err := domain.ParseContentKind(c.Param("kind"))
	if err != nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "Unknown content type: " + c.Param("kind")})
	}
	if h.content == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Content generation is disabled")
	}

	var body generateRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Failed to process request: invalid JSON payload"})
	}

	out, err := h.content.Generate(c.Request().Context(), domain.ContentRequest{Kind: kind, Text: body.text(kind)})
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, out)
	case errors.Is(err, domain.ErrEmptyContent):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: kind.MissingInputMessage()})
	case errors.Is(err, domain.ErrLLMFailed):
		h.logger.Warn("content generation failed",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return c.JSON(http.StatusBadGateway, errorResponse{Error: "Failed to generate " + string(kind) + ", please try again later"})
	default:
		return err
	}
}

func (h *Handler) History(c echo.Context) error {
	limit := domain.DefaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be an integer"})
		}
		limit = n
	}

	entries, err := h.search.History(c.Request().Context(), limit)
	switch {
	case err == nil:
		if entries == nil {
			entries = []domain.HistoryEntry{}
		}
		return c.JSON(http.StatusOK, entries)
	case errors.Is(err, domain.ErrHistoryDisabled):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "Search history is disabled"})
	case errors.Is(err, domain.ErrInvalidLimit):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		return err
	}
}

type healthResponse struct {
	Status   string            `json:"status"`
	Breakers map[string]string `json:"breakers"`
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok", Breakers: h.search.BreakerStates()})
}
