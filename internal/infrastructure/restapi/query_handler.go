package restapi

import (
	"net/http"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// PostQueryHandler answers a natural-language question.
func (h *Handler) PostQueryHandler(c *gin.Context) {
	var req entity.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIErrorResponse{
			Error:     "request body must be JSON with a non-empty \"text\" field",
			RequestID: requestID(c),
		})
		return
	}

	resp := h.svc.Query.Handle(c.Request.Context(), req)
	if id := requestID(c); id != "" {
		resp.RequestID = id
	}
	h.logger.Info("Query answered", "request_id", resp.RequestID, "intent", resp.Intent)
	c.JSON(http.StatusOK, resp)
}
