package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	postgresRepo "github.com/iho/splitledger/internal/adapter/repository/postgres"
	"github.com/iho/splitledger/internal/calculator"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/postgres"
)

var (
	baseURL string
	userID  string
	token   string
	timeout time.Duration

	databaseURL    string
	migrationsPath string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "splitledger-cli",
		Short:         "splitledger CLI tool",
		Long:          `A command line interface for computing splits and working with the splitledger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the splitledger API")
	root.PersistentFlags().StringVar(&userID, "user", os.Getenv("SPLITLEDGER_USER"), "Caller identity sent as X-User-ID")
	root.PersistentFlags().StringVar(&token, "token", os.Getenv("SPLITLEDGER_TOKEN"), "Bearer token; overrides --user")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	root.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL URL for migrate and check")
	root.PersistentFlags().StringVar(&migrationsPath, "migrations", "internal/infrastructure/postgres/migrations", "Migrations directory")

	root.AddCommand(splitCmd(), balancesCmd(), payCmd(), settleCmd(), migrateCmd(), checkCmd())
	return root
}

func splitCmd() *cobra.Command {
	var (
		total        string
		method       string
		payer        string
		participants []string
		amounts      string
		percents     string
	)

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Compute a split locally without contacting the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(total)
			if err != nil {
				return fmt.Errorf("invalid total %q: %w", total, err)
			}
			custom, err := parseAmounts(amounts)
			if err != nil {
				return err
			}
			pct, err := parseAmounts(percents)
			if err != nil {
				return err
			}

			alloc, err := calculator.ComputeSplit(calculator.SplitSpec{
				Total:          amount,
				CustomAmounts:  custom,
				Percentages:    pct,
				PayerID:        payer,
				Method:         domain.SplitMethod(method),
				ParticipantIDs: participants,
			})
			if err != nil {
				return err
			}
			if alloc.Method == domain.SplitExact && payer != "" {
				alloc.AssignResidualTo(payer)
			}

			out := cmd.OutOrStdout()
			for _, s := range alloc.Shares {
				fmt.Fprintf(out, "%-20s %s\n", truncate(s.UserID, 20), s.Amount.StringFixed(2))
			}
			if !alloc.Residual.IsZero() {
				fmt.Fprintf(out, "%-20s %s\n", "(unassigned)", alloc.Residual.StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&total, "total", "", "Transaction total")
	cmd.Flags().StringVar(&method, "method", string(domain.SplitEqual), "equal, exact or percentage")
	cmd.Flags().StringVar(&payer, "payer", "", "Payer id; receives any exact-split residual")
	cmd.Flags().StringSliceVar(&participants, "participants", nil, "Comma separated participant ids")
	cmd.Flags().StringVar(&amounts, "amounts", "", "Exact amounts, e.g. alice=10,bob=5.50")
	cmd.Flags().StringVar(&percents, "percentages", "", "Percentages, e.g. alice=60,bob=40")
	_ = cmd.MarkFlagRequired("total")
	return cmd
}

func balancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balances [user-id]",
		Short: "Show a user's balances",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject := userID
			if len(args) == 1 {
				subject = args[0]
			}
			if subject == "" {
				return errors.New("a user id is required (argument or --user)")
			}

			var out map[string]any
			if err := client().do(cmd.Context(), http.MethodGet, "/api/v1/users/"+url.PathEscape(subject)+"/balances", nil, &out); err != nil {
				return err
			}
			printJSON(out)
			return nil
		},
	}
}

func payCmd() *cobra.Command {
	var ref string
	cmd := &cobra.Command{
		Use:   "pay <transaction-id> <user-id>",
		Short: "Mark one participant's share paid",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{"paid": true}
			if ref != "" {
				body["payment_method_ref"] = ref
			}
			path := "/api/v1/transactions/" + url.PathEscape(args[0]) + "/participants/" + url.PathEscape(args[1]) + "/paid"

			var out map[string]any
			if err := client().do(cmd.Context(), http.MethodPost, path, body, &out); err != nil {
				return err
			}
			printJSON(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "", "Payment method reference")
	return cmd
}

func settleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settle <transaction-id>",
		Short: "Mark every unpaid share of a transaction paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out map[string]any
			if err := client().do(cmd.Context(), http.MethodPost, "/api/v1/transactions/"+url.PathEscape(args[0])+"/settle", nil, &out); err != nil {
				return err
			}
			printJSON(out)
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return errors.New("--database-url or DATABASE_URL is required")
			}
			return postgres.RunMigrations(databaseURL, migrationsPath)
		},
	}, &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return errors.New("--database-url or DATABASE_URL is required")
			}
			return postgres.RunMigrationsDown(databaseURL, migrationsPath)
		},
	})
	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that every stored transaction's shares add up to its amount",
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return errors.New("--database-url or DATABASE_URL is required")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			pool, err := postgres.NewPool(ctx, databaseURL, 2, 0)
			if err != nil {
				return err
			}
			defer pool.Close()

			mismatches, err := postgresRepo.NewIntegrityRepository(pool).CheckConsistency(ctx)
			if err != nil {
				return err
			}
			if len(mismatches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Consistency check PASSED")
				return nil
			}

			for _, m := range mismatches {
				fmt.Fprintf(cmd.OutOrStdout(), "%-28s amount=%s shares=%s\n",
					truncate(m.TransactionID, 28), m.Amount.StringFixed(2), m.ShareSum.StringFixed(2))
			}
			return fmt.Errorf("consistency check FAILED: %d transaction(s) do not balance", len(mismatches))
		},
	}
}

func client() *apiClient {
	return newAPIClient(baseURL, userID, token, timeout)
}

// parseAmounts reads "alice=10,bob=5.50" into a map.
func parseAmounts(s string) (map[string]decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	out := make(map[string]decimal.Decimal)
	for _, pair := range strings.Split(s, ",") {
		id, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid pair %q, want id=amount", pair)
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("invalid amount for %s: %w", id, err)
		}
		out[id] = d
	}
	return out, nil
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Error formatting JSON: %v\n", err)
		return
	}
	fmt.Println(string(b))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
