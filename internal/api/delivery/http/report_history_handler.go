package http

import (
	"net/http"
	"strconv"

	"golang-alpha-seek/internal/api/dto"
	"golang-alpha-seek/internal/api/service"
	"golang-alpha-seek/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ReportHistoryHandler handles HTTP requests for briefing run records.
type ReportHistoryHandler struct {
	historyService service.ReportHistoryService
	logger         *logger.Logger
}

// NewReportHistoryHandler creates a new ReportHistoryHandler.
func NewReportHistoryHandler(historyService service.ReportHistoryService, log *logger.Logger) *ReportHistoryHandler {
	return &ReportHistoryHandler{historyService: historyService, logger: log}
}

// RegisterRoutes registers the report history routes to the Echo group.
func (h *ReportHistoryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetReportHistories)
}

// GetReportHistories lists recent briefing runs, optionally filtered by the
// user_email query parameter.
func (h *ReportHistoryHandler) GetReportHistories(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	userEmail := c.QueryParam("user_email")

	var (
		resp []dto.ReportHistoryResponse
		err  error
	)
	if userEmail != "" {
		resp, err = h.historyService.GetByUserEmail(c.Request().Context(), userEmail, limit)
	} else {
		resp, err = h.historyService.GetRecent(c.Request().Context(), limit)
	}
	if err != nil {
		h.logger.Error("Failed to get report histories", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get report histories"})
	}

	return c.JSON(http.StatusOK, resp)
}
