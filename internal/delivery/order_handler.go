package delivery

import (
	"net/http"
	"strconv"

	"storefront/internal/domain"
	"storefront/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type OrderHandler struct {
	useCase domain.OrderUseCase
	log     *logrus.Logger
}

func NewOrderHandler(uc domain.OrderUseCase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *OrderHandler) RegisterRoutes(router gin.IRouter) {
	orders := router.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("/myorders", h.ListMyOrders)
		orders.GET("/:id", h.GetOrderByID)
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		h.log.Error("Handler: Owner id missing from authenticated request")
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	var req domain.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind JSON for create order (user %s): %v", ownerID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.useCase.CreateOrder(c.Request.Context(), ownerID, req)
	if err != nil {
		h.log.Warnf("Handler: Failed to create order for user %s: %v", ownerID, err)
		writeDomainError(c, err)
		return
	}

	h.log.Infof("Handler: Order %s created for user %s", order.ID, ownerID)
	SuccessResponse(c, http.StatusCreated, order)
}

func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	// Everything is returned unless the caller asks for a page; ordering is
	// newest-first either way.
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, err := h.useCase.ListOrdersForUser(c.Request.Context(), ownerID, limit, offset)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	ListResponse(c, http.StatusOK, len(orders), orders)
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	order, err := h.useCase.GetOrder(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, order)
}
