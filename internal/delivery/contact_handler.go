package delivery

import (
	"net/http"
	"strconv"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ContactHandler struct {
	useCase domain.ContactUseCase
	log     *logrus.Logger
}

func NewContactHandler(uc domain.ContactUseCase, logger *logrus.Logger) *ContactHandler {
	return &ContactHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ContactHandler) RegisterPublicRoutes(router gin.IRouter) {
	router.POST("/contact", h.SubmitMessage)
}

func (h *ContactHandler) RegisterProtectedRoutes(router gin.IRouter) {
	router.GET("/contact", h.ListMessages)
}

func (h *ContactHandler) SubmitMessage(c *gin.Context) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind JSON for contact message: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	msg, err := h.useCase.SubmitMessage(c.Request.Context(), &domain.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, msg)
}

func (h *ContactHandler) ListMessages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	msgs, err := h.useCase.ListMessages(c.Request.Context(), limit, offset)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	ListResponse(c, http.StatusOK, len(msgs), msgs)
}
