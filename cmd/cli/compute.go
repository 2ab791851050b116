package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/dailyledger/internal/adapter/http/dto"
	"github.com/iho/dailyledger/internal/domain"
	"github.com/iho/dailyledger/internal/usecase"
)

func computeCmd() *cobra.Command {
	var file, start, end, startingBalance string

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute daily balances from a JSON file without a server",
		Long: `Reads transactions from a JSON file, either an array of
{"type","date","concept","amount"} objects or a {"transactions": [...]}
listing, and prints the daily balance for every day of the range.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			txs, err := parseTransactionsFile(data)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}

			starting := decimal.Zero
			if startingBalance != "" {
				if starting, err = decimal.NewFromString(startingBalance); err != nil {
					return fmt.Errorf("invalid starting balance %q: %w", startingBalance, err)
				}
			}

			r, err := resolveComputeRange(txs, start, end, time.Now())
			if err != nil {
				return err
			}

			result := &usecase.DailyBalancesResult{
				Range:           r,
				StartingBalance: starting,
				Balances:        domain.ComputeDailyBalances(txs, r, starting),
			}
			return printJSON(cmd.OutOrStdout(), dto.DailyBalancesFromResult(result))
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to a JSON file of transactions")
	cmd.Flags().StringVar(&start, "start", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&startingBalance, "starting-balance", "", "Balance before the first day")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func parseTransactionsFile(data []byte) ([]*domain.Transaction, error) {
	var reqs []dto.TransactionRequest

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped struct {
			Transactions []dto.TransactionRequest `json:"transactions"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, err
		}
		reqs = wrapped.Transactions
	} else if err := json.Unmarshal(trimmed, &reqs); err != nil {
		return nil, err
	}

	txs := make([]*domain.Transaction, 0, len(reqs))
	for i := range reqs {
		input, err := reqs[i].ToCreateInput()
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i+1, err)
		}

		tx := &domain.Transaction{
			Type:    input.Type,
			Date:    input.Date,
			Concept: input.Concept,
			Amount:  input.Amount,
		}
		if err := domain.ValidateTransaction(tx); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i+1, err)
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

func resolveComputeRange(txs []*domain.Transaction, start, end string, now time.Time) (domain.DateRange, error) {
	r := domain.DefaultRange(txs, domain.DayFromTime(now))

	if start != "" {
		d, err := domain.ParseDay(start)
		if err != nil {
			return domain.DateRange{}, err
		}
		r.Start = d
	}
	if end != "" {
		d, err := domain.ParseDay(end)
		if err != nil {
			return domain.DateRange{}, err
		}
		r.End = d
	}

	if err := r.CheckSize(); err != nil {
		return domain.DateRange{}, err
	}

	return r, nil
}
