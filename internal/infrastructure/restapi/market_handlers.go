package restapi

import (
	"net/http"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/responder"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// APIPriceResponse is the body of the price endpoint.
type APIPriceResponse struct {
	Data          entity.TokenPriceRecord `json:"data"`
	Status        entity.FetchStatus      `json:"status"`
	Source        string                  `json:"source,omitempty"`
	Text          string                  `json:"text"`
	StatusMessage string                  `json:"status_message"`
}

// APIMarketResponse is the body of the market overview endpoint.
type APIMarketResponse struct {
	Data          entity.MarketOverview `json:"data"`
	Text          string                `json:"text"`
	StatusMessage string                `json:"status_message"`
}

// APINetworksResponse lists the known networks.
type APINetworksResponse struct {
	Data struct {
		Networks []entity.NetworkProfile `json:"networks"`
		Active   string                  `json:"active"`
	} `json:"data"`
}

// GetPriceHandler returns the USD price of a token given as ticker or alias.
func (h *Handler) GetPriceHandler(c *gin.Context) {
	res := h.svc.Prices.GetPriceBySymbol(c.Request.Context(), c.Param("token"))

	c.JSON(httpStatusFor(res.Status), APIPriceResponse{
		Data:          res.Record,
		Status:        res.Status,
		Source:        res.Source,
		Text:          responder.Price(res),
		StatusMessage: statusMessage(res.Status),
	})
}

// GetMarketHandler returns the global market overview.
func (h *Handler) GetMarketHandler(c *gin.Context) {
	ov := h.svc.Market.GetOverview(c.Request.Context())

	c.JSON(http.StatusOK, APIMarketResponse{
		Data:          ov,
		Text:          responder.Market(ov),
		StatusMessage: statusMessage(ov.Status),
	})
}

// ListNetworksHandler returns every known network profile.
func (h *Handler) ListNetworksHandler(c *gin.Context) {
	var response APINetworksResponse
	response.Data.Networks = h.svc.Networks.All()
	response.Data.Active = h.svc.Networks.Current().Key

	c.JSON(http.StatusOK, response)
}

// GetCurrentNetworkHandler returns the active network and its warnings.
func (h *Handler) GetCurrentNetworkHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Networks.Status(h.svc.ChainDataConfigured, h.svc.MarketDataProvider))
}
