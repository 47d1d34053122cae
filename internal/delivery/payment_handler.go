package delivery

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/payments"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PaymentHandler exposes the simulated payment collaborator. A declined
// charge does not prevent order creation; callers may attach the receipt to
// an order via paymentDetails if they wish.
type PaymentHandler struct {
	processor payments.Processor
	log       *logrus.Logger
}

func NewPaymentHandler(processor payments.Processor, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		processor: processor,
		log:       logger,
	}
}

func (h *PaymentHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/payments/process", h.ProcessPayment)
}

func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	var req payments.ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind JSON for payment (user %s): %v", ownerID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var messages []string
	if req.Amount < 0 {
		messages = append(messages, "amount: cannot be negative")
	}
	if !domain.IsValidPaymentMethod(req.Method) {
		messages = append(messages, "method: '"+string(req.Method)+"' is not a supported payment method")
	}
	if len(messages) > 0 {
		ErrorResponse(c, http.StatusBadRequest, messages)
		return
	}

	receipt, err := h.processor.Charge(c.Request.Context(), req)
	if err != nil {
		h.log.Errorf("Handler: Payment simulation failed for user %s: %v", ownerID, err)
		ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	SuccessResponse(c, http.StatusOK, receipt)
}
