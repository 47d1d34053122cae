package delivery

import (
	"net/http"
	"strconv"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProductHandler struct {
	useCase domain.ProductUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc domain.ProductUseCase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ProductHandler) RegisterPublicRoutes(router gin.IRouter) {
	products := router.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProductByID)
	}
}

func (h *ProductHandler) RegisterProtectedRoutes(router gin.IRouter) {
	router.POST("/products", h.CreateProduct)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		ImageURL    string  `json:"imageUrl"`
		Stock       int     `json:"stock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind JSON for create product: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.useCase.CreateProduct(c.Request.Context(), &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, product)
}

func (h *ProductHandler) GetProductByID(c *gin.Context) {
	product, err := h.useCase.GetProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, product)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	products, err := h.useCase.ListProducts(c.Request.Context(), limit, offset)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	ListResponse(c, http.StatusOK, len(products), products)
}
