package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/iho/dailyledger/internal/domain"
	"github.com/iho/dailyledger/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Date      string    `json:"date"`
	Concept   string    `json:"concept"`
	Amount    Number    `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(tx *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:        tx.ID,
		Type:      string(tx.Type),
		Date:      tx.Date.String(),
		Concept:   tx.Concept,
		Amount:    NewNumber(tx.Amount),
		CreatedAt: tx.CreatedAt,
		UpdatedAt: tx.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txs []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txs))
	for i, tx := range txs {
		result[i] = TransactionFromDomain(tx)
	}
	return result
}

// ListTransactionsResponse represents a list of transactions.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
}

// DailyBalancesResponse represents a computed balance series.
type DailyBalancesResponse struct {
	Start           string     `json:"start"`
	End             string     `json:"end"`
	StartingBalance Number     `json:"starting_balance"`
	Balances        BalanceMap `json:"balances"`
}

// DailyBalancesFromResult converts a use case result to a response.
func DailyBalancesFromResult(res *usecase.DailyBalancesResult) *DailyBalancesResponse {
	return &DailyBalancesResponse{
		Start:           res.Range.Start.String(),
		End:             res.Range.End.String(),
		StartingBalance: NewNumber(res.StartingBalance.Round(domain.AmountPlaces)),
		Balances:        BalanceMap(res.Balances),
	}
}

// BalanceMap encodes as a JSON object keyed by YYYY-MM-DD with members
// in ascending date order.
type BalanceMap domain.DailyBalances

// MarshalJSON implements json.Marshaler.
func (m BalanceMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%s", b.Date.String(), b.Balance.Round(domain.AmountPlaces).String())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *BalanceMap) UnmarshalJSON(data []byte) error {
	var raw map[string]Number
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(BalanceMap, 0, len(raw))
	for key, n := range raw {
		day, err := domain.ParseDay(key)
		if err != nil {
			return err
		}
		out = append(out, domain.DailyBalance{Date: day, Balance: n.Decimal})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	*m = out
	return nil
}
