package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang-alpha-seek/internal/api/dto"
	"golang-alpha-seek/internal/api/service"
	"golang-alpha-seek/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SubscriptionHandler handles HTTP requests for subscriptions.
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
	logger              *logger.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionService service.SubscriptionService, log *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService, logger: log}
}

// RegisterRoutes registers the subscription routes to the Echo group.
func (h *SubscriptionHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateSubscription)
	g.GET("", h.GetAllSubscriptions)
	g.GET("/:id", h.GetSubscriptionByID)
	g.PUT("/:id", h.UpdateSubscription)
	g.DELETE("/:id", h.DeleteSubscription)
}

func (h *SubscriptionHandler) CreateSubscription(c echo.Context) error {
	var req dto.CreateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	resp, err := h.subscriptionService.Create(c.Request().Context(), &req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusCreated, resp)
}

func (h *SubscriptionHandler) GetSubscriptionByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid subscription ID"})
	}

	resp, err := h.subscriptionService.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Subscription not found"})
		}
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

// GetAllSubscriptions lists subscriptions, optionally filtered by the
// user_email query parameter.
func (h *SubscriptionHandler) GetAllSubscriptions(c echo.Context) error {
	userEmail := c.QueryParam("user_email")

	var (
		resp []dto.SubscriptionResponse
		err  error
	)
	if userEmail != "" {
		resp, err = h.subscriptionService.GetByUserEmail(c.Request().Context(), userEmail)
	} else {
		resp, err = h.subscriptionService.GetAll(c.Request().Context())
	}
	if err != nil {
		h.logger.Error("Failed to get subscriptions", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get subscriptions"})
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *SubscriptionHandler) UpdateSubscription(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid subscription ID"})
	}

	var req dto.UpdateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	resp, err := h.subscriptionService.Update(c.Request().Context(), uint(id), &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Subscription not found"})
		}
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *SubscriptionHandler) DeleteSubscription(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid subscription ID"})
	}

	if err := h.subscriptionService.Delete(c.Request().Context(), uint(id)); err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete subscription"})
	}

	return c.NoContent(http.StatusNoContent)
}
