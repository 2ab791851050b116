package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/dailyledger/internal/adapter/http/dto"
	"github.com/iho/dailyledger/internal/domain"
)

func txCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Transaction operations",
	}

	cmd.AddCommand(
		txListCmd(opts),
		txAddCmd(opts),
		txUpdateCmd(opts),
		txDeleteCmd(opts),
	)

	return cmd
}

func txListCmd(opts *options) *cobra.Command {
	var from, to string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if from != "" {
				query.Set("from", from)
			}
			if to != "" {
				query.Set("to", to)
			}

			var resp dto.ListTransactionsResponse
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/transactions/", query, nil, &resp); err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			return printTransactions(cmd.OutOrStdout(), resp.Transactions)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Latest date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON")

	return cmd
}

// transactionFlags binds the fields shared by add and update.
type transactionFlags struct {
	typ     string
	date    string
	concept string
	amount  string
}

func (f *transactionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.typ, "type", "", "income or expense")
	cmd.Flags().StringVar(&f.date, "date", "", "Date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.concept, "concept", "", "Description")
	cmd.Flags().StringVar(&f.amount, "amount", "", "Positive amount, e.g. 12.50")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("concept")
	_ = cmd.MarkFlagRequired("amount")
}

func (f *transactionFlags) request() (dto.TransactionRequest, error) {
	amount, err := decimal.NewFromString(f.amount)
	if err != nil {
		return dto.TransactionRequest{}, fmt.Errorf("invalid amount %q: %w", f.amount, err)
	}
	n := dto.NewNumber(amount)

	return dto.TransactionRequest{
		Type:    f.typ,
		Date:    f.date,
		Concept: f.concept,
		Amount:  &n,
	}, nil
}

func txAddCmd(opts *options) *cobra.Command {
	var flags transactionFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}

			var resp dto.TransactionResponse
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/transactions/", nil, req, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	flags.bind(cmd)

	return cmd
}

func txUpdateCmd(opts *options) *cobra.Command {
	var flags transactionFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}

			var resp dto.TransactionResponse
			path := "/api/v1/transactions/" + url.PathEscape(args[0])
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodPut, path, nil, req, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	flags.bind(cmd)

	return cmd
}

func txDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/transactions/" + url.PathEscape(args[0])
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodDelete, path, nil, nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func balancesCmd(opts *options) *cobra.Command {
	var start, end, startingBalance, on string
	var includeHistory bool

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Show daily balances computed by the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if start != "" {
				query.Set("start", start)
			}
			if end != "" {
				query.Set("end", end)
			}
			if startingBalance != "" {
				query.Set("startingBalance", startingBalance)
			}
			if includeHistory {
				query.Set("includeHistory", strconv.FormatBool(includeHistory))
			}

			var day domain.Day
			if on != "" {
				var err error
				if day, err = domain.ParseDay(on); err != nil {
					return err
				}
			}

			var resp dto.DailyBalancesResponse
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/balances/daily", query, nil, &resp); err != nil {
				return err
			}

			if on == "" {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			balance, ok := domain.DailyBalances(resp.Balances).Get(day)
			if !ok {
				return fmt.Errorf("%s is outside %s..%s", day, resp.Start, resp.End)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", day, balance.StringFixed(domain.AmountPlaces))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&startingBalance, "starting-balance", "", "Balance before the first day")
	cmd.Flags().StringVar(&on, "on", "", "Print only the balance of this day (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&includeHistory, "include-history", false, "Fold transactions before start into the starting balance")

	return cmd
}
