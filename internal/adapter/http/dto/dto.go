package dto

// InstantiateRequest is the request body for one-shot ledger initialization.
type InstantiateRequest struct {
	Admin string `json:"admin" binding:"required,account_id,max=64"`
	Denom string `json:"denom" binding:"required,max=128"`
}

// InstantiateResponse reports the stored configuration.
type InstantiateResponse struct {
	Admin string `json:"admin"`
	Denom string `json:"denom"`
}

// TokenRequest is the request body for caller token issuance.
type TokenRequest struct {
	Account string `json:"account" binding:"required,account_id,max=64"`
}

// TokenResponse is the response body for token issuance.
type TokenResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// CoinInput is a single (denom, amount) attachment. Amounts are decimal
// strings so the full 128-bit range survives JSON.
type CoinInput struct {
	Denom  string `json:"denom" binding:"required,max=128"`
	Amount string `json:"amount" binding:"required,max=40"`
}

// DepositRequest is the request body for crediting the caller.
type DepositRequest struct {
	Funds []CoinInput `json:"funds" binding:"required"`
}

// DepositResponse reports the caller's balance after the deposit.
type DepositResponse struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
	Balance string `json:"balance"`
}

// SpenderRequest is the request body for granting a spender.
type SpenderRequest struct {
	Spender string `json:"spender" binding:"required,account_id,max=64"`
}

// AuthorizationResponse reports the resulting authorization state.
type AuthorizationResponse struct {
	Owner      string `json:"owner"`
	Spender    string `json:"spender"`
	Authorized bool   `json:"authorized"`
}

// SpendFromRequest is the request body for spending from an owner's balance.
type SpendFromRequest struct {
	Owner  string `json:"owner" binding:"required,account_id,max=64"`
	Amount string `json:"amount" binding:"required,max=40"`
}

// SpendFromResponse reports both balances after the spend.
type SpendFromResponse struct {
	Owner          string `json:"owner"`
	Spender        string `json:"spender"`
	Amount         string `json:"amount"`
	OwnerBalance   string `json:"owner_balance"`
	SpenderBalance string `json:"spender_balance"`
}

// BalanceResponse is the response for a balance query.
type BalanceResponse struct {
	Account string `json:"account"`
	Balance string `json:"balance"`
}

// IsAuthorizedResponse is the response for an authorization query.
type IsAuthorizedResponse struct {
	Owner      string `json:"owner"`
	Spender    string `json:"spender"`
	Authorized bool   `json:"authorized"`
}
