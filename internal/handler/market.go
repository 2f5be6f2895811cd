package handler

import (
	"net/http"

	"github.com/efreitasn/papertrade/internal/domain"
	"github.com/efreitasn/papertrade/internal/service"
	"github.com/go-chi/chi/v5"
)

// MarketHandler handles HTTP requests for market endpoints.
type MarketHandler struct {
	tradingSvc *service.TradingService
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(tradingSvc *service.TradingService) *MarketHandler {
	return &MarketHandler{tradingSvc: tradingSvc}
}

// instrumentResponse is a single instrument in market responses.
type instrumentResponse struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// marketResponse is the JSON response for GET /market and POST /market/simulate.
type marketResponse struct {
	Instruments []instrumentResponse `json:"instruments"`
}

// List handles GET /market.
func (h *MarketHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, toMarketResponse(h.tradingSvc.Market()))
}

// Simulate handles POST /market/simulate.
func (h *MarketHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, toMarketResponse(h.tradingSvc.ViewMarket()))
}

// Quote handles GET /market/{symbol}.
func (h *MarketHandler) Quote(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	inst, err := h.tradingSvc.Quote(symbol)
	if err != nil {
		mapTradeError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, instrumentResponse{
		Symbol: inst.Symbol,
		Price:  inst.Price.Float64(),
	})
}

func toMarketResponse(instruments []domain.Instrument) marketResponse {
	resp := marketResponse{Instruments: make([]instrumentResponse, len(instruments))}
	for i, inst := range instruments {
		resp.Instruments[i] = instrumentResponse{
			Symbol: inst.Symbol,
			Price:  inst.Price.Float64(),
		}
	}
	return resp
}
