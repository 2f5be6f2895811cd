package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/efreitasn/papertrade/internal/domain"
	"github.com/efreitasn/papertrade/internal/market"
	"github.com/efreitasn/papertrade/internal/service"
	"github.com/efreitasn/papertrade/internal/store"
)

// fixedRand returns the same draw every time.
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

// testEnv bundles all dependencies for handler integration tests.
type testEnv struct {
	router     http.Handler
	tradingSvc *service.TradingService
}

func newTestEnv(t *testing.T, origins ...string) *testEnv {
	t.Helper()
	account, err := domain.NewAccount(domain.MoneyFromInt(5000))
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}
	catalog, err := market.NewCatalog(market.DefaultInstruments())
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tradingSvc := service.NewTradingService(account, catalog, store.NewTradeStore(), fixedRand(1), logger)

	return &testEnv{
		router:     NewRouter(tradingSvc, origins, logger),
		tradingSvc: tradingSvc,
	}
}

// doJSON sends a JSON request and returns the recorder.
func (env *testEnv) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// doRaw sends a raw request with optional content-type override.
func (env *testEnv) doRaw(t *testing.T, method, path, contentType, rawBody string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(rawBody))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// decodeJSON decodes the response body into v.
func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rr.Body.String())
	}
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, rr.Code, rr.Body.String())
	}
	var resp errorResponse
	decodeJSON(t, rr, &resp)
	if resp.Error != code {
		t.Errorf("expected error %q, got %q", code, resp.Error)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rr := env.doJSON(t, "GET", "/healthz", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
}

func TestMarket_ListAndSimulate(t *testing.T) {
	env := newTestEnv(t)

	rr := env.doJSON(t, "GET", "/market", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var listed marketResponse
	decodeJSON(t, rr, &listed)
	if len(listed.Instruments) != 3 || listed.Instruments[0].Symbol != "AAPL" || listed.Instruments[0].Price != 150 {
		t.Fatalf("unexpected market: %+v", listed)
	}

	rr = env.doJSON(t, "POST", "/market/simulate", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var simulated marketResponse
	decodeJSON(t, rr, &simulated)
	if simulated.Instruments[0].Price != 157.5 {
		t.Errorf("expected AAPL at 157.5 after +5%%, got %v", simulated.Instruments[0].Price)
	}
}

func TestMarket_Quote(t *testing.T) {
	env := newTestEnv(t)

	rr := env.doJSON(t, "GET", "/market/tsla", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var inst instrumentResponse
	decodeJSON(t, rr, &inst)
	if inst.Symbol != "TSLA" || inst.Price != 800 {
		t.Errorf("unexpected quote: %+v", inst)
	}

	expectError(t, env.doJSON(t, "GET", "/market/MSFT", nil), http.StatusNotFound, "symbol_not_found")
}

func TestSubmitTrade_BuyThenSell(t *testing.T) {
	env := newTestEnv(t)

	rr := env.doJSON(t, "POST", "/trades", map[string]any{"side": "buy", "symbol": "AAPL", "quantity": 10})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var bought tradeResponse
	decodeJSON(t, rr, &bought)
	if bought.Side != "buy" || bought.Quantity != 10 || bought.Total != 1500 || bought.TradeID == "" {
		t.Errorf("unexpected trade: %+v", bought)
	}

	expectError(t,
		env.doJSON(t, "POST", "/trades", map[string]any{"side": "sell", "symbol": "AAPL", "quantity": 15}),
		http.StatusConflict, "insufficient_shares")

	rr = env.doJSON(t, "POST", "/trades", map[string]any{"side": "sell", "symbol": "AAPL", "quantity": 4})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = env.doJSON(t, "GET", "/portfolio", nil)
	var pf portfolioResponse
	decodeJSON(t, rr, &pf)
	if pf.CashBalance != 4100 {
		t.Errorf("expected cash 4100, got %v", pf.CashBalance)
	}
	if len(pf.Holdings) != 1 || pf.Holdings[0].Quantity != 6 || pf.Holdings[0].Value != 900 {
		t.Errorf("unexpected holdings: %+v", pf.Holdings)
	}
	if pf.Equity != 5000 {
		t.Errorf("expected equity 5000, got %v", pf.Equity)
	}

	rr = env.doJSON(t, "GET", "/trades", nil)
	var list tradeListResponse
	decodeJSON(t, rr, &list)
	if list.Total != 2 || list.Trades[0].TradeID != bought.TradeID {
		t.Errorf("unexpected trade list: %+v", list)
	}
}

func TestSubmitTrade_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{"unknown symbol", map[string]any{"side": "buy", "symbol": "MSFT", "quantity": 1}, http.StatusNotFound, "symbol_not_found"},
		{"insufficient funds", map[string]any{"side": "buy", "symbol": "GOOGL", "quantity": 2}, http.StatusConflict, "insufficient_funds"},
		{"zero quantity", map[string]any{"side": "buy", "symbol": "AAPL", "quantity": 0}, http.StatusBadRequest, "validation_error"},
		{"bad side", map[string]any{"side": "short", "symbol": "AAPL", "quantity": 1}, http.StatusBadRequest, "validation_error"},
		{"missing symbol", map[string]any{"side": "buy", "quantity": 1}, http.StatusBadRequest, "validation_error"},
		{"unknown field", map[string]any{"side": "buy", "symbol": "AAPL", "quantity": 1, "limit": 10}, http.StatusBadRequest, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			expectError(t, env.doJSON(t, "POST", "/trades", tt.body), tt.status, tt.code)

			if !env.tradingSvc.Cash().Equal(domain.MoneyFromInt(5000)) {
				t.Errorf("cash changed after rejected trade: %s", env.tradingSvc.Cash())
			}
		})
	}
}

func TestSubmitTrade_RequiresJSONContentType(t *testing.T) {
	env := newTestEnv(t)

	rr := env.doRaw(t, "POST", "/trades", "text/plain", `{"side":"buy","symbol":"AAPL","quantity":1}`)
	expectError(t, rr, http.StatusBadRequest, "invalid_request")
}

func TestCash_DepositAndWithdraw(t *testing.T) {
	env := newTestEnv(t)

	rr := env.doRaw(t, "POST", "/account/deposit", "application/json", `{"amount":"100.25"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var cash cashResponse
	decodeJSON(t, rr, &cash)
	if cash.CashBalance != 5100.25 {
		t.Errorf("expected 5100.25, got %v", cash.CashBalance)
	}

	rr = env.doRaw(t, "POST", "/account/withdraw", "application/json", `{"amount":100}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	decodeJSON(t, rr, &cash)
	if cash.CashBalance != 5000.25 {
		t.Errorf("expected 5000.25, got %v", cash.CashBalance)
	}

	expectError(t,
		env.doRaw(t, "POST", "/account/withdraw", "application/json", `{"amount":"9999"}`),
		http.StatusConflict, "insufficient_funds")
	expectError(t,
		env.doRaw(t, "POST", "/account/deposit", "application/json", `{"amount":"-1"}`),
		http.StatusBadRequest, "validation_error")
	expectError(t,
		env.doRaw(t, "POST", "/account/deposit", "application/json", `{"amount":"1.005"}`),
		http.StatusBadRequest, "validation_error")
	expectError(t,
		env.doRaw(t, "POST", "/account/deposit", "application/json", `not json`),
		http.StatusBadRequest, "invalid_request")
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t, "http://localhost:3000")

	req := httptest.NewRequest("GET", "/market", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("expected allowed origin header, got %q", got)
	}

	req = httptest.NewRequest("GET", "/market", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow-origin header for unknown origin, got %q", got)
	}
}

func TestParseJSON_WrapsDecodeError(t *testing.T) {
	req := httptest.NewRequest("POST", "/trades", strings.NewReader(`{"side":`))
	var v map[string]any

	err := ParseJSON(req, &v)
	if err == nil {
		t.Fatal("expected error for truncated body")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("error %v does not wrap io.ErrUnexpectedEOF", err)
	}
	if !strings.HasPrefix(err.Error(), "request body must be valid JSON") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestCash_DepositRejectsExponentAmount(t *testing.T) {
	env := newTestEnv(t)

	rr := env.doRaw(t, "POST", "/account/deposit", "application/json", `{"amount": 1e30}`)
	expectError(t, rr, http.StatusBadRequest, "validation_error")

	if !env.tradingSvc.Cash().Equal(domain.MoneyFromInt(5000)) {
		t.Errorf("cash = %s, want 5000", env.tradingSvc.Cash())
	}
}
