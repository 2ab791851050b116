package handler

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/iho/dailyledger/internal/adapter/http/dto"
	"github.com/iho/dailyledger/internal/domain"
	"github.com/iho/dailyledger/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	DailyBalances(ctx context.Context, input usecase.DailyBalancesInput) (*usecase.DailyBalancesResult, error)
}

// BalanceHandler serves daily balance series.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Daily returns the running balance for every day between ?start= and ?end=.
// Omitted bounds are derived from the stored transactions.
func (h *BalanceHandler) Daily(w http.ResponseWriter, r *http.Request) {
	start, err := parseDayQuery(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date", err.Error())
		return
	}

	end, err := parseDayQuery(r, "end")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date", err.Error())
		return
	}

	if start != nil && end != nil {
		if err := domain.NewDateRange(*start, *end).CheckSize(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid date range", err.Error())
			return
		}
	}

	startingBalance, err := parseDecimalQuery(r, "startingBalance", decimal.Zero)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startingBalance", err.Error())
		return
	}

	includeHistory, err := parseBoolQuery(r, "includeHistory", false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid includeHistory", err.Error())
		return
	}

	result, err := h.balanceUC.DailyBalances(r.Context(), usecase.DailyBalancesInput{
		Start:           start,
		End:             end,
		StartingBalance: startingBalance,
		IncludeHistory:  includeHistory,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DailyBalancesFromResult(result))
}
