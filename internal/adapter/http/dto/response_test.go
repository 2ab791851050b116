package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/dailyledger/internal/domain"
	"github.com/iho/dailyledger/internal/usecase"
)

func TestTransactionFromDomain(t *testing.T) {
	now := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	resp := TransactionFromDomain(&domain.Transaction{
		ID:        "tx-1",
		Type:      domain.TransactionTypeIncome,
		Date:      domain.MustParseDay("2024-01-05"),
		Concept:   "Salary",
		Amount:    decimal.RequireFromString("100.50"),
		CreatedAt: now,
		UpdatedAt: now,
	})

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	body := string(data)
	for _, want := range []string{`"id":"tx-1"`, `"type":"income"`, `"date":"2024-01-05"`, `"amount":100.5`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in %s", want, body)
		}
	}
}

func TestDailyBalancesResponse_OrderedNumbers(t *testing.T) {
	txs := []*domain.Transaction{
		{Type: domain.TransactionTypeIncome, Date: domain.MustParseDay("2024-01-05"), Amount: decimal.NewFromInt(100)},
		{Type: domain.TransactionTypeExpense, Date: domain.MustParseDay("2024-01-05"), Amount: decimal.NewFromInt(30)},
	}
	r := domain.NewDateRange(domain.MustParseDay("2023-12-30"), domain.MustParseDay("2024-01-06"))

	resp := DailyBalancesFromResult(&usecase.DailyBalancesResult{
		Range:           r,
		StartingBalance: decimal.Zero,
		Balances:        domain.ComputeDailyBalances(txs, r, decimal.Zero),
	})

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"start":"2023-12-30","end":"2024-01-06","starting_balance":0,"balances":{` +
		`"2023-12-30":0,"2023-12-31":0,"2024-01-01":0,"2024-01-02":0,"2024-01-03":0,` +
		`"2024-01-04":0,"2024-01-05":70,"2024-01-06":70}}`
	if string(data) != want {
		t.Fatalf("unexpected body\n got: %s\nwant: %s", data, want)
	}

	var decoded DailyBalancesResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(decoded.Balances) != 8 || decoded.Balances[0].Date.String() != "2023-12-30" {
		t.Fatalf("expected balances in date order, got %+v", decoded.Balances)
	}
	if !decoded.Balances[6].Balance.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected 70 on 2024-01-05, got %s", decoded.Balances[6].Balance)
	}
}

func TestBalanceMap_EmptyAndRounded(t *testing.T) {
	data, err := json.Marshal(BalanceMap{})
	if err != nil || string(data) != "{}" {
		t.Fatalf("expected empty object, got %s err=%v", data, err)
	}

	data, err = json.Marshal(BalanceMap{{Date: domain.MustParseDay("2024-01-01"), Balance: decimal.RequireFromString("10.005")}})
	if err != nil || string(data) != `{"2024-01-01":10.01}` {
		t.Fatalf("expected two-place rounding, got %s err=%v", data, err)
	}
}

func TestBalanceMap_LastRepresentableDay(t *testing.T) {
	last := domain.MaxDay
	in := BalanceMap{
		{Date: last.AddDays(-1), Balance: decimal.Zero},
		{Date: last, Balance: decimal.NewFromInt(1)},
	}

	data, err := json.Marshal(in)
	if err != nil || string(data) != `{"9999-12-30":0,"9999-12-31":1}` {
		t.Fatalf("unexpected json %s err=%v", data, err)
	}

	var out BalanceMap
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(out) != 2 || out[1].Date != last {
		t.Fatalf("unexpected round trip %+v", out)
	}
}
