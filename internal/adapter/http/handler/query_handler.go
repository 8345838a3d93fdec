package handler

import (
	"spend-ledger/internal/adapter/http/dto"
	"spend-ledger/internal/core/ports"
	"spend-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// QueryHandler handles the read-only ledger endpoints. Queries are
// permissionless: any party may inspect any balance or authorization pair.
type QueryHandler struct {
	querySvc ports.QueryService
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(querySvc ports.QueryService) *QueryHandler {
	return &QueryHandler{querySvc: querySvc}
}

// Balance handles GET /api/v1/ledger/balance/:account.
func (h *QueryHandler) Balance(c *gin.Context) {
	account := c.Param("account")

	balance, err := h.querySvc.Balance(c.Request.Context(), account)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		Account: account,
		Balance: balance.String(),
	})
}

// IsAuthorized handles GET /api/v1/ledger/authorizations/:owner/:spender.
func (h *QueryHandler) IsAuthorized(c *gin.Context) {
	owner := c.Param("owner")
	spender := c.Param("spender")

	authorized, err := h.querySvc.IsAuthorized(c.Request.Context(), owner, spender)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.IsAuthorizedResponse{
		Owner:      owner,
		Spender:    spender,
		Authorized: authorized,
	})
}
