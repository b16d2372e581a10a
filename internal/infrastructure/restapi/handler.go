package restapi

import (
	"net/http"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/port"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
)

// APIErrorResponse is returned for rejected requests.
type APIErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Services groups everything the HTTP layer talks to.
type Services struct {
	Prices    port.PriceService
	Portfolio port.PortfolioService
	Risk      port.RiskAnalyzer
	Optimizer port.Optimizer
	Market    port.MarketService
	Query     port.QueryService
	Networks  port.NetworkStatusProvider

	// ChainDataConfigured and MarketDataProvider feed /networks/current.
	ChainDataConfigured bool
	MarketDataProvider  string
}

// Handler обрабатывает HTTP запросы агента.
type Handler struct {
	svc    Services
	logger port.Logger
}

// NewHandler создает новый экземпляр Handler.
func NewHandler(svc Services, l port.Logger) *Handler {
	return &Handler{svc: svc, logger: l}
}

// statusMessage describes a fetch status for API clients.
func statusMessage(s entity.FetchStatus) string {
	switch s {
	case entity.StatusOK:
		return "Data retrieved successfully."
	case entity.StatusNotConfigured:
		return "Live data source is not configured; demo or reference data returned."
	case entity.StatusNotFound:
		return "Requested symbol was not found."
	default:
		return "Live data source is temporarily unavailable; demo or reference data returned."
	}
}

// httpStatusFor maps a price lookup status to an HTTP code. Portfolio
// endpoints always answer 200 because they degrade to demo data.
func httpStatusFor(s entity.FetchStatus) int {
	switch s {
	case entity.StatusOK:
		return http.StatusOK
	case entity.StatusNotFound:
		return http.StatusNotFound
	case entity.StatusNotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
