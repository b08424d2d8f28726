package handler

import (
	"errors"
	"net/http"

	"salesos/internal/middleware"
	"salesos/internal/model"
	"salesos/internal/service"
	"salesos/pkg/pagination"
	"salesos/pkg/response"

	"github.com/gin-gonic/gin"
)

type TradeHandler struct {
	tradeService service.TradeService
}

func NewTradeHandler(tradeService service.TradeService) *TradeHandler {
	return &TradeHandler{tradeService: tradeService}
}

func (h *TradeHandler) RegisterRoutes(router *gin.RouterGroup) {
	trades := router.Group("/api/trades")
	{
		trades.GET("", middleware.RequirePermission("trades.read"), h.ListTrades)
		trades.GET("/:id", middleware.RequirePermission("trades.read"), h.GetTrade)
		trades.POST("", middleware.RequirePermission("trades.write"), h.CreateTrade)
		trades.POST("/preview/scenario", middleware.RequirePermission("trades.write"), h.PreviewScenario)
		trades.POST("/preview/costs", middleware.RequirePermission("trades.write"), h.PreviewCosts)
		trades.POST("/:id/invoice", middleware.RequirePermission("trades.settle"), h.MarkInvoiced)
		trades.POST("/:id/pay", middleware.RequirePermission("trades.settle"), h.MarkPaid)
		trades.POST("/:id/commission", middleware.RequirePermission("trades.settle"), h.MarkCommissionPaid)
		trades.POST("/:id/cancel", middleware.RequirePermission("trades.settle"), h.CancelTrade)
	}
}

// CreateTrade classifies the questionnaire, prices the trade and persists it
// @Summary      Create a new trade
// @Description  Classifies the tax scenario from the questionnaire answers, computes costs and margins, allocates the next sale reference and persists atomically
// @Tags         trades
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateTradeRequest  true  "Create Trade Payload"
// @Success      201      {object}  response.Response{data=service.TradeResponse}
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response "Questionnaire answers incomplete"
// @Router       /api/trades [post]
func (h *TradeHandler) CreateTrade(c *gin.Context) {
	var req service.CreateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")
	trade, err := h.tradeService.CreateTrade(c.Request.Context(), req, userID)
	if err != nil {
		if errors.Is(err, service.ErrAnswersIncomplete) {
			c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, trade))
}

// GetTrade returns one trade with items and allocation
// @Summary      Get a trade
// @Tags         trades
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Trade ID"
// @Success      200  {object}  response.Response{data=service.TradeResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/trades/{id} [get]
func (h *TradeHandler) GetTrade(c *gin.Context) {
	trade, err := h.tradeService.GetTrade(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, trade))
}

// ListTrades returns trades filtered by status, reference, account code or shopper
// @Summary      List trades
// @Tags         trades
// @Produce      json
// @Security     BearerAuth
// @Param        status         query  string  false  "Lifecycle status"
// @Param        reference      query  string  false  "Partial sale reference"
// @Param        account_code   query  string  false  "Tax scenario account code"
// @Param        shopper_id     query  string  false  "Allocated shopper"
// @Param        page           query  int     false  "Page"
// @Param        limit          query  int     false  "Limit"
// @Success      200  {object}  response.Response
// @Router       /api/trades [get]
func (h *TradeHandler) ListTrades(c *gin.Context) {
	params := pagination.Parse(c)

	trades, total, err := h.tradeService.ListTrades(c.Request.Context(), service.TradeListFilter{
		Status:        c.Query("status"),
		SaleReference: c.Query("reference"),
		AccountCode:   c.Query("account_code"),
		ShopperID:     c.Query("shopper_id"),
		Page:          params.Page,
		Limit:         params.Limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"trades": trades,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}

// PreviewScenario resolves the tax scenario for the answers so far
// @Summary      Preview tax scenario
// @Description  Runs the VAT-regime classifier over the questionnaire answers. Returns 204 while the answers are incomplete.
// @Tags         trades
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.DealAnswersRequest  true  "Questionnaire answers"
// @Success      200      {object}  response.Response{data=service.ScenarioResponse}
// @Success      204      "Answers incomplete"
// @Failure      400      {object}  response.Response
// @Router       /api/trades/preview/scenario [post]
func (h *TradeHandler) PreviewScenario(c *gin.Context) {
	var req service.DealAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	scenario, err := h.tradeService.PreviewScenario(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	if scenario == nil {
		// Incomplete answers are "keep going", not an error
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, scenario))
}

// PreviewCosts computes the cost breakdown for the current form state
// @Summary      Preview cost breakdown
// @Tags         trades
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.PreviewCostsRequest  true  "Items and answers"
// @Success      200      {object}  response.Response{data=service.CostBreakdownResponse}
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response "Questionnaire answers incomplete"
// @Router       /api/trades/preview/costs [post]
func (h *TradeHandler) PreviewCosts(c *gin.Context) {
	var req service.PreviewCostsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	costs, err := h.tradeService.PreviewCosts(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrAnswersIncomplete) {
			c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, costs))
}

// MarkInvoiced moves a draft trade to INVOICED
// @Summary      Mark trade invoiced
// @Tags         trades
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Trade ID"
// @Success      200  {object}  response.Response{data=service.TradeResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/trades/{id}/invoice [post]
func (h *TradeHandler) MarkInvoiced(c *gin.Context) {
	h.updateStatus(c, model.TradeStatusInvoiced)
}

// MarkPaid moves an invoiced trade to PAID
// @Summary      Mark trade paid
// @Tags         trades
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Trade ID"
// @Success      200  {object}  response.Response{data=service.TradeResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/trades/{id}/pay [post]
func (h *TradeHandler) MarkPaid(c *gin.Context) {
	h.updateStatus(c, model.TradeStatusPaid)
}

// MarkCommissionPaid moves a paid trade to COMMISSION_PAID
// @Summary      Mark trade commission paid
// @Tags         trades
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Trade ID"
// @Success      200  {object}  response.Response{data=service.TradeResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/trades/{id}/commission [post]
func (h *TradeHandler) MarkCommissionPaid(c *gin.Context) {
	h.updateStatus(c, model.TradeStatusCommissionPaid)
}

func (h *TradeHandler) updateStatus(c *gin.Context, status string) {
	userID := c.GetString("userID")
	trade, err := h.tradeService.UpdateStatus(c.Request.Context(), c.Param("id"), status, userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, trade))
}

// CancelTrade cancels any non-terminal trade
// @Summary      Cancel a trade
// @Tags         trades
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Trade ID"
// @Success      200  {object}  response.Response{data=service.TradeResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/trades/{id}/cancel [post]
func (h *TradeHandler) CancelTrade(c *gin.Context) {
	userID := c.GetString("userID")
	trade, err := h.tradeService.CancelTrade(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, trade))
}
