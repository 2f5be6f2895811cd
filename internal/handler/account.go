package handler

import (
	"encoding/json"
	"net/http"

	"github.com/efreitasn/papertrade/internal/domain"
	"github.com/efreitasn/papertrade/internal/service"
)

// AccountHandler handles HTTP requests for cash, portfolio and trade
// endpoints.
type AccountHandler struct {
	tradingSvc *service.TradingService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(tradingSvc *service.TradingService) *AccountHandler {
	return &AccountHandler{tradingSvc: tradingSvc}
}

// submitTradeRequest is the JSON request body for POST /trades.
type submitTradeRequest struct {
	Side     string `json:"side"`
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
}

// cashRequest is the JSON request body for deposits and withdrawals.
// Amount accepts a JSON number or a decimal string.
type cashRequest struct {
	Amount json.Number `json:"amount"`
}

// tradeResponse is a single executed trade.
type tradeResponse struct {
	TradeID    string  `json:"trade_id"`
	Side       string  `json:"side"`
	Symbol     string  `json:"symbol"`
	Quantity   int64   `json:"quantity"`
	Price      float64 `json:"price"`
	Total      float64 `json:"total"`
	ExecutedAt string  `json:"executed_at"`
}

// tradeListResponse is the JSON response for GET /trades.
type tradeListResponse struct {
	Trades []tradeResponse `json:"trades"`
	Total  int             `json:"total"`
}

// cashResponse is the JSON response for deposits and withdrawals.
type cashResponse struct {
	CashBalance float64 `json:"cash_balance"`
}

// holdingResponse is a single position in the portfolio response.
type holdingResponse struct {
	Symbol   string  `json:"symbol"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
	Value    float64 `json:"value"`
}

// portfolioResponse is the JSON response for GET /portfolio.
type portfolioResponse struct {
	CashBalance   float64           `json:"cash_balance"`
	Holdings      []holdingResponse `json:"holdings"`
	HoldingsValue float64           `json:"holdings_value"`
	Equity        float64           `json:"equity"`
}

// SubmitTrade handles POST /trades.
func (h *AccountHandler) SubmitTrade(w http.ResponseWriter, r *http.Request) {
	var req submitTradeRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Symbol == "" {
		WriteError(w, http.StatusBadRequest, "validation_error", "symbol is required")
		return
	}

	var (
		trade *domain.Trade
		err   error
	)
	switch domain.Side(req.Side) {
	case domain.SideBuy:
		trade, err = h.tradingSvc.Buy(req.Symbol, req.Quantity)
	case domain.SideSell:
		trade, err = h.tradingSvc.Sell(req.Symbol, req.Quantity)
	default:
		WriteError(w, http.StatusBadRequest, "validation_error", "side must be buy or sell")
		return
	}
	if err != nil {
		mapTradeError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, toTradeResponse(trade))
}

// ListTrades handles GET /trades.
func (h *AccountHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	trades := h.tradingSvc.Trades()

	resp := tradeListResponse{
		Trades: make([]tradeResponse, len(trades)),
		Total:  len(trades),
	}
	for i, t := range trades {
		resp.Trades[i] = toTradeResponse(t)
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Portfolio handles GET /portfolio.
func (h *AccountHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	view := h.tradingSvc.Portfolio()

	holdings := make([]holdingResponse, len(view.Holdings))
	for i, hv := range view.Holdings {
		holdings[i] = holdingResponse{
			Symbol:   hv.Symbol,
			Quantity: hv.Quantity,
			Price:    hv.Price.Float64(),
			Value:    hv.Value.Float64(),
		}
	}

	WriteJSON(w, http.StatusOK, portfolioResponse{
		CashBalance:   view.Cash.Float64(),
		Holdings:      holdings,
		HoldingsValue: view.HoldingsValue.Float64(),
		Equity:        view.Equity.Float64(),
	})
}

// Deposit handles POST /account/deposit.
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.moveCash(w, r, h.tradingSvc.Deposit)
}

// Withdraw handles POST /account/withdraw.
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.moveCash(w, r, h.tradingSvc.Withdraw)
}

func (h *AccountHandler) moveCash(w http.ResponseWriter, r *http.Request, op func(domain.Money) (domain.Money, error)) {
	var req cashRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	amount, err := domain.ParseMoney(req.Amount.String())
	if err != nil {
		mapTradeError(w, err)
		return
	}

	balance, err := op(amount)
	if err != nil {
		mapTradeError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, cashResponse{CashBalance: balance.Float64()})
}

func toTradeResponse(t *domain.Trade) tradeResponse {
	return tradeResponse{
		TradeID:    t.TradeID,
		Side:       string(t.Side),
		Symbol:     t.Symbol,
		Quantity:   t.Quantity,
		Price:      t.Price.Float64(),
		Total:      t.Total.Float64(),
		ExecutedAt: formatTime(t.ExecutedAt),
	}
}
