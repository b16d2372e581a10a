package restapi

import (
	"net/http"
	"strings"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/responder"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// APIPortfolioResponse определяет структуру ответа для эндпоинтов портфеля.
type APIPortfolioResponse struct {
	Data struct {
		Portfolio entity.PortfolioSnapshot `json:"portfolio"`
	} `json:"data"`
	Status        entity.FetchStatus `json:"status"`
	Text          string             `json:"text"`
	StatusMessage string             `json:"status_message"`
}

// APIRiskResponse is the body of the risk endpoint.
type APIRiskResponse struct {
	Data          entity.RiskReport  `json:"data"`
	Status        entity.FetchStatus `json:"status"`
	Text          string             `json:"text"`
	StatusMessage string             `json:"status_message"`
}

// APIOptimizationResponse is the body of the optimization endpoint.
type APIOptimizationResponse struct {
	Data          entity.OptimizationPlan `json:"data"`
	Status        entity.FetchStatus      `json:"status"`
	Text          string                  `json:"text"`
	StatusMessage string                  `json:"status_message"`
}

// APIPositionsResponse is the body of the positions endpoint.
type APIPositionsResponse struct {
	Data struct {
		Positions []entity.ProtocolPosition `json:"positions"`
		Source    entity.SnapshotSource     `json:"source"`
	} `json:"data"`
	Status        entity.FetchStatus `json:"status"`
	StatusMessage string             `json:"status_message"`
}

// walletAddress returns the :address path parameter or the configured wallet.
func (h *Handler) walletAddress(c *gin.Context) string {
	if addr := strings.TrimSpace(c.Param("address")); addr != "" {
		return addr
	}
	return h.svc.Portfolio.DefaultAddress()
}

func (h *Handler) portfolio(c *gin.Context) entity.PortfolioResult {
	return h.svc.Portfolio.GetPortfolioData(c.Request.Context(), h.walletAddress(c))
}

// GetPortfolioHandler обрабатывает запрос на получение снапшота портфеля.
func (h *Handler) GetPortfolioHandler(c *gin.Context) {
	res := h.portfolio(c)

	var response APIPortfolioResponse
	response.Data.Portfolio = res.Snapshot
	response.Status = res.Status
	response.Text = responder.Portfolio(res)
	response.StatusMessage = statusMessage(res.Status)

	c.JSON(http.StatusOK, response)
}

// GetRiskHandler returns the risk report for a wallet.
func (h *Handler) GetRiskHandler(c *gin.Context) {
	res := h.portfolio(c)
	report := h.svc.Risk.Analyze(res.Snapshot)

	c.JSON(http.StatusOK, APIRiskResponse{
		Data:          report,
		Status:        res.Status,
		Text:          responder.Risk(report),
		StatusMessage: statusMessage(res.Status),
	})
}

// GetOptimizationHandler returns rebalancing suggestions for a wallet.
func (h *Handler) GetOptimizationHandler(c *gin.Context) {
	res := h.portfolio(c)
	plan := h.svc.Optimizer.Optimize(res.Snapshot)

	c.JSON(http.StatusOK, APIOptimizationResponse{
		Data:          plan,
		Status:        res.Status,
		Text:          responder.Optimization(plan),
		StatusMessage: statusMessage(res.Status),
	})
}

// GetPositionsHandler returns the DeFi positions of a wallet.
func (h *Handler) GetPositionsHandler(c *gin.Context) {
	res := h.portfolio(c)

	var response APIPositionsResponse
	response.Data.Positions = res.Snapshot.Positions
	response.Data.Source = res.Snapshot.Source
	response.Status = res.Status
	response.StatusMessage = statusMessage(res.Status)

	c.JSON(http.StatusOK, response)
}
