package handler

import (
	"spend-ledger/internal/adapter/http/dto"
	"spend-ledger/internal/adapter/http/middleware"
	"spend-ledger/internal/core/domain"
	"spend-ledger/internal/core/ports"
	"spend-ledger/pkg/apperror"
	"spend-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// LedgerHandler handles the mutating ledger endpoints.
type LedgerHandler struct {
	ledgerSvc ports.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerSvc ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// callerFrom extracts the authenticated caller set by the JWT middleware.
func callerFrom(c *gin.Context) (domain.AccountID, bool) {
	v, ok := c.Get(middleware.CtxCaller)
	if !ok {
		return "", false
	}
	caller, ok := v.(domain.AccountID)
	return caller, ok
}

// Instantiate handles POST /api/v1/ledger/instantiate.
func (h *LedgerHandler) Instantiate(c *gin.Context) {
	var req dto.InstantiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.ledgerSvc.Instantiate(c.Request.Context(), ports.InstantiateRequest{
		Admin: req.Admin,
		Denom: req.Denom,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.InstantiateResponse{
		Admin: string(result.Admin),
		Denom: result.Denom,
	})
}

// Deposit handles POST /api/v1/ledger/deposit.
func (h *LedgerHandler) Deposit(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	funds := make([]ports.CoinInput, 0, len(req.Funds))
	for _, coin := range req.Funds {
		funds = append(funds, ports.CoinInput{Denom: coin.Denom, Amount: coin.Amount})
	}

	result, err := h.ledgerSvc.Deposit(c.Request.Context(), ports.DepositRequest{
		Caller: caller,
		Funds:  funds,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.DepositResponse{
		Account: string(result.Account),
		Amount:  result.Amount.String(),
		Balance: result.Balance.String(),
	})
}

// AuthorizeSpender handles POST /api/v1/ledger/spenders.
func (h *LedgerHandler) AuthorizeSpender(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.SpenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.ledgerSvc.AuthorizeSpender(c.Request.Context(), ports.AuthorizationRequest{
		Caller:  caller,
		Spender: req.Spender,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toAuthorizationResponse(result))
}

// RevokeSpender handles DELETE /api/v1/ledger/spenders/:spender.
func (h *LedgerHandler) RevokeSpender(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	result, err := h.ledgerSvc.RevokeSpender(c.Request.Context(), ports.AuthorizationRequest{
		Caller:  caller,
		Spender: c.Param("spender"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toAuthorizationResponse(result))
}

// SpendFrom handles POST /api/v1/ledger/spend.
func (h *LedgerHandler) SpendFrom(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.SpendFromRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.ledgerSvc.SpendFrom(c.Request.Context(), ports.SpendFromRequest{
		Caller: caller,
		Owner:  req.Owner,
		Amount: req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.SpendFromResponse{
		Owner:          string(result.Owner),
		Spender:        string(result.Spender),
		Amount:         result.Amount.String(),
		OwnerBalance:   result.OwnerBalance.String(),
		SpenderBalance: result.SpenderBalance.String(),
	})
}

func toAuthorizationResponse(result *ports.AuthorizationResult) dto.AuthorizationResponse {
	return dto.AuthorizationResponse{
		Owner:      string(result.Owner),
		Spender:    string(result.Spender),
		Authorized: result.Authorized,
	}
}
