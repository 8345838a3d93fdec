package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spend-ledger/internal/adapter/http/dto"
	"spend-ledger/internal/adapter/http/middleware"
	"spend-ledger/internal/core/domain"
	"spend-ledger/internal/core/ports"
	"spend-ledger/internal/core/ports/mocks"
	"spend-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postJSON(t *testing.T, body interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

// --- Ledger Handler Tests ---

func TestInstantiate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockSvc)

	mockSvc.EXPECT().Instantiate(gomock.Any(), ports.InstantiateRequest{
		Admin: "admin",
		Denom: "uusd",
	}).Return(&ports.InstantiateResult{Admin: "admin", Denom: "uusd"}, nil)

	w, c := postJSON(t, dto.InstantiateRequest{Admin: "admin", Denom: "uusd"})
	h.Instantiate(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "admin", data["admin"])
	assert.Equal(t, "uusd", data["denom"])
}

func TestInstantiate_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewLedgerHandler(mocks.NewMockLedgerService(ctrl))

	w, c := postJSON(t, map[string]string{"denom": "uusd"})
	h.Instantiate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInstantiate_AlreadyInitialized(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockSvc)

	mockSvc.EXPECT().Instantiate(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrAlreadyInitialized())

	w, c := postJSON(t, dto.InstantiateRequest{Admin: "admin", Denom: "uusd"})
	h.Instantiate(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeposit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockSvc)

	mockSvc.EXPECT().Deposit(gomock.Any(), ports.DepositRequest{
		Caller: "alice",
		Funds:  []ports.CoinInput{{Denom: "uusd", Amount: "100"}},
	}).Return(&ports.DepositResult{
		Account: "alice",
		Amount:  domain.MustAmount("100"),
		Balance: domain.MustAmount("250"),
	}, nil)

	w, c := postJSON(t, dto.DepositRequest{
		Funds: []dto.CoinInput{{Denom: "uusd", Amount: "100"}},
	})
	c.Set(middleware.CtxCaller, domain.AccountID("alice"))
	h.Deposit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "alice", data["account"])
	assert.Equal(t, "100", data["amount"])
	assert.Equal(t, "250", data["balance"])
}

func TestDeposit_MissingCaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewLedgerHandler(mocks.NewMockLedgerService(ctrl))

	w, c := postJSON(t, dto.DepositRequest{
		Funds: []dto.CoinInput{{Denom: "uusd", Amount: "100"}},
	})
	h.Deposit(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeposit_WrongDenomination(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockSvc)

	mockSvc.EXPECT().Deposit(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInvalidDenomination("uatom", "uusd"))

	w, c := postJSON(t, dto.DepositRequest{
		Funds: []dto.CoinInput{{Denom: "uatom", Amount: "100"}},
	})
	c.Set(middleware.CtxCaller, domain.AccountID("alice"))
	h.Deposit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthorizeSpender_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockSvc)

	mockSvc.EXPECT().AuthorizeSpender(gomock.Any(), ports.AuthorizationRequest{
		Caller:  "alice",
		Spender: "bob",
	}).Return(&ports.AuthorizationResult{Owner: "alice", Spender: "bob", Authorized: true}, nil)

	w, c := postJSON(t, dto.SpenderRequest{Spender: "bob"})
	c.Set(middleware.CtxCaller, domain.AccountID("alice"))
	h.AuthorizeSpender(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "alice", data["owner"])
	assert.Equal(t, "bob", data["spender"])
	assert.Equal(t, true, data["authorized"])
}

func TestAuthorizeSpender_Self(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockSvc)

	mockSvc.EXPECT().AuthorizeSpender(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrSelfAuthorization())

	w, c := postJSON(t, dto.SpenderRequest{Spender: "alice"})
	c.Set(middleware.CtxCaller, domain.AccountID("alice"))
	h.AuthorizeSpender(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRevokeSpender_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockSvc)

	mockSvc.EXPECT().RevokeSpender(gomock.Any(), ports.AuthorizationRequest{
		Caller:  "alice",
		Spender: "bob",
	}).Return(&ports.AuthorizationResult{Owner: "alice", Spender: "bob", Authorized: false}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/", nil)
	c.Params = gin.Params{{Key: "spender", Value: "bob"}}
	c.Set(middleware.CtxCaller, domain.AccountID("alice"))

	h.RevokeSpender(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, false, data["authorized"])
}

func TestSpendFrom_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockSvc)

	mockSvc.EXPECT().SpendFrom(gomock.Any(), ports.SpendFromRequest{
		Caller: "bob",
		Owner:  "alice",
		Amount: "40",
	}).Return(&ports.SpendFromResult{
		Owner:          "alice",
		Spender:        "bob",
		Amount:         domain.MustAmount("40"),
		OwnerBalance:   domain.MustAmount("60"),
		SpenderBalance: domain.MustAmount("40"),
	}, nil)

	w, c := postJSON(t, dto.SpendFromRequest{Owner: "alice", Amount: "40"})
	c.Set(middleware.CtxCaller, domain.AccountID("bob"))
	h.SpendFrom(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "alice", data["owner"])
	assert.Equal(t, "bob", data["spender"])
	assert.Equal(t, "60", data["owner_balance"])
	assert.Equal(t, "40", data["spender_balance"])
}

func TestSpendFrom_Unauthorized(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockSvc)

	mockSvc.EXPECT().SpendFrom(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrUnauthorized())

	w, c := postJSON(t, dto.SpendFromRequest{Owner: "alice", Amount: "40"})
	c.Set(middleware.CtxCaller, domain.AccountID("mallory"))
	h.SpendFrom(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSpendFrom_InsufficientBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockSvc)

	mockSvc.EXPECT().SpendFrom(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInsufficientBalance("100", "40"))

	w, c := postJSON(t, dto.SpendFromRequest{Owner: "alice", Amount: "100"})
	c.Set(middleware.CtxCaller, domain.AccountID("bob"))
	h.SpendFrom(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// --- Query Handler Tests ---

func TestBalance_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockQueryService(ctrl)
	h := NewQueryHandler(mockSvc)

	mockSvc.EXPECT().Balance(gomock.Any(), "alice").Return(domain.MustAmount("250"), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "account", Value: "alice"}}

	h.Balance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "alice", data["account"])
	assert.Equal(t, "250", data["balance"])
}

func TestBalance_InvalidAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockQueryService(ctrl)
	h := NewQueryHandler(mockSvc)

	mockSvc.EXPECT().Balance(gomock.Any(), "x").
		Return(domain.Amount{}, apperror.ErrInvalidAddress(errors.New("too short")))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "account", Value: "x"}}

	h.Balance(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIsAuthorized_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockQueryService(ctrl)
	h := NewQueryHandler(mockSvc)

	mockSvc.EXPECT().IsAuthorized(gomock.Any(), "alice", "bob").Return(true, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "owner", Value: "alice"}, {Key: "spender", Value: "bob"}}

	h.IsAuthorized(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, true, data["authorized"])
}

// --- Auth Handler Tests ---

func TestToken_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTok := mocks.NewMockTokenService(ctrl)
	h := NewAuthHandler(mockTok)

	expiry := time.Now().Add(24 * time.Hour)
	mockTok.EXPECT().Generate(domain.AccountID("alice")).Return("signed-token", expiry, nil)

	w, c := postJSON(t, dto.TokenRequest{Account: "Alice"})
	h.Token(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "signed-token", data["token"])
	assert.Equal(t, float64(expiry.Unix()), data["expiry"])
}

func TestToken_InvalidAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAuthHandler(mocks.NewMockTokenService(ctrl))

	w, c := postJSON(t, dto.TokenRequest{Account: "ab"})
	h.Token(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Health Handler Tests ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Ping(_ context.Context) error { return s.err }
func (s stubChecker) Name() string                 { return s.name }

func TestHealthCheck_AllHealthy(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(stubChecker{name: "postgresql"}, stubChecker{name: "redis"})(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestHealthCheck_Degraded(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(stubChecker{name: "redis", err: errors.New("connection refused")})(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
}
