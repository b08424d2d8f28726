package handler

import (
	"net/http"

	"salesos/internal/middleware"
	"salesos/internal/service"
	"salesos/pkg/pagination"
	"salesos/pkg/response"

	"github.com/gin-gonic/gin"
)

type AllocationHandler struct {
	allocationService service.AllocationService
}

func NewAllocationHandler(allocationService service.AllocationService) *AllocationHandler {
	return &AllocationHandler{allocationService: allocationService}
}

func (h *AllocationHandler) RegisterRoutes(router *gin.RouterGroup) {
	shoppers := router.Group("/api/shoppers")
	{
		shoppers.GET("", middleware.RequirePermission("shoppers.read"), h.ListShoppers)
		shoppers.POST("", middleware.RequirePermission("shoppers.write"), h.CreateShopper)
		shoppers.PUT("/:id", middleware.RequirePermission("shoppers.write"), h.UpdateShopper)
		shoppers.GET("/:id/allocations", middleware.RequirePermission("allocations.read"), h.ListShopperAllocations)
	}

	allocations := router.Group("/api/allocations")
	{
		allocations.POST("", middleware.RequirePermission("allocations.write"), h.Allocate)
		allocations.DELETE("/:id", middleware.RequirePermission("allocations.write"), h.Release)
	}
}

// CreateShopper registers a personal shopper
// @Summary      Create a shopper
// @Tags         shoppers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateShopperRequest  true  "Create Shopper Payload"
// @Success      201      {object}  response.Response{data=service.ShopperResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/shoppers [post]
func (h *AllocationHandler) CreateShopper(c *gin.Context) {
	var req service.CreateShopperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	shopper, err := h.allocationService.CreateShopper(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, shopper))
}

// UpdateShopper edits shopper details or commission rate
// @Summary      Update a shopper
// @Tags         shoppers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Shopper ID"
// @Param        payload  body      service.UpdateShopperRequest  true  "Update Shopper Payload"
// @Success      200      {object}  response.Response{data=service.ShopperResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/shoppers/{id} [put]
func (h *AllocationHandler) UpdateShopper(c *gin.Context) {
	var req service.UpdateShopperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	shopper, err := h.allocationService.UpdateShopper(c.Request.Context(), c.Param("id"), req, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, shopper))
}

// ListShoppers returns paginated shoppers
// @Summary      List shoppers
// @Tags         shoppers
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int  false  "Page"
// @Param        limit  query  int  false  "Limit"
// @Success      200  {object}  response.Response
// @Router       /api/shoppers [get]
func (h *AllocationHandler) ListShoppers(c *gin.Context) {
	params := pagination.Parse(c)

	shoppers, total, err := h.allocationService.ListShoppers(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"shoppers": shoppers,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// Allocate ties a trade to a shopper for commission
// @Summary      Allocate a trade to a shopper
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.AllocateTradeRequest  true  "Allocation Payload"
// @Success      201      {object}  response.Response{data=service.AllocationResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/allocations [post]
func (h *AllocationHandler) Allocate(c *gin.Context) {
	var req service.AllocateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	allocation, err := h.allocationService.Allocate(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, allocation))
}

// Release detaches an active allocation
// @Summary      Release an allocation
// @Tags         allocations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Allocation ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/allocations/{id} [delete]
func (h *AllocationHandler) Release(c *gin.Context) {
	if err := h.allocationService.Release(c.Request.Context(), c.Param("id"), c.GetString("userID")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"released": true}))
}

// ListShopperAllocations returns a shopper's allocation history
// @Summary      List a shopper's allocations
// @Tags         allocations
// @Produce      json
// @Security     BearerAuth
// @Param        id     path   string  true   "Shopper ID"
// @Param        page   query  int     false  "Page"
// @Param        limit  query  int     false  "Limit"
// @Success      200  {object}  response.Response
// @Router       /api/shoppers/{id}/allocations [get]
func (h *AllocationHandler) ListShopperAllocations(c *gin.Context) {
	params := pagination.Parse(c)

	allocations, total, err := h.allocationService.ListShopperAllocations(c.Request.Context(), c.Param("id"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"allocations": allocations,
		"total":       total,
		"page":        params.Page,
		"limit":       params.Limit,
	}))
}
