package handlers

import (
	"net/http"

	"github.com/rohits-web03/ledger/internal/calc"
	"github.com/rohits-web03/ledger/internal/utils"
)

type calculatorRequest struct {
	Breakeven calc.BreakevenInput `json:"breakeven"`
	Market    *calc.MarketInput   `json:"market,omitempty"`
}

type calculatorResponse struct {
	Breakeven calc.Breakeven `json:"breakeven"`
	Market    *calc.Market   `json:"market,omitempty"`
}

// Calculate godoc
// @Summary Break-even and market comparison
// @Description Pure arithmetic, nothing is stored
// @Tags Calculator
// @Accept json
// @Produce json
// @Param input body calculatorRequest true "Calculator input"
// @Success 200 {object} utils.Payload{data=calculatorResponse}
// @Failure 400 {object} utils.Payload
// @Router /api/calculator [post]
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var input calculatorRequest
	if !h.decodeJSON(w, r, &input) {
		return
	}

	be, err := calc.ComputeBreakeven(input.Breakeven)
	if err != nil {
		h.handleError(w, err)
		return
	}
	out := calculatorResponse{Breakeven: be}

	if input.Market != nil {
		m, err := calc.CompareMarket(*input.Market, be.BreakevenPerProject)
		if err != nil {
			h.handleError(w, err)
			return
		}
		out.Market = &m
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Calculated",
		Data:    out,
	})
}
