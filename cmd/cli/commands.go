package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/infrastructure/config"
	"github.com/iho/gowallet/internal/infrastructure/postgres"
)

const tokenEnv = "GOWALLET_TOKEN"

type cliOptions struct {
	baseURL        string
	token          string
	timeout        time.Duration
	idempotencyKey string
	out            io.Writer
}

func (o *cliOptions) client() *apiClient {
	token := o.token
	if token == "" {
		token = os.Getenv(tokenEnv)
	}
	return newAPIClient(o.baseURL, token, o.timeout)
}

func (o *cliOptions) idempotencyHeaders() map[string]string {
	if o.idempotencyKey == "" {
		return nil
	}
	return map[string]string{"Idempotency-Key": o.idempotencyKey}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &cliOptions{out: out}

	rootCmd := &cobra.Command{
		Use:           "gowallet-cli",
		Short:         "GoWallet CLI tool",
		Long:          `A command line interface for interacting with the GoWallet API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the GoWallet API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", "", "Access token (defaults to $"+tokenEnv+")")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		newRegisterCmd(opts),
		newLoginCmd(opts),
		newWalletCmd(opts),
		newAmountCmd(opts, "deposit", "Deposit funds into your wallet"),
		newAmountCmd(opts, "withdraw", "Withdraw funds from your wallet"),
		newTransferCmd(opts),
		newHistoryCmd(opts),
		newReconcileCmd(opts),
		newMigrateCmd(opts),
	)

	return rootCmd
}

func newRegisterCmd(opts *cliOptions) *cobra.Command {
	var req dto.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user and its wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			var user dto.UserResponse
			if err := opts.client().do(cmd.Context(), http.MethodPost, "/api/v1/auth/register", nil, req, &user, nil); err != nil {
				return err
			}

			fmt.Fprintf(opts.out, "User %s created\nWallet: %s\n", user.ID, user.WalletID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Username, "username", "", "Display name")
	cmd.Flags().StringVar(&req.CPF, "cpf", "", "CPF, 11 digits")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password")
	for _, name := range []string{"email", "username", "cpf", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newLoginCmd(opts *cliOptions) *cobra.Command {
	var req dto.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			var token dto.TokenResponse
			if err := opts.client().do(cmd.Context(), http.MethodPost, "/api/v1/auth/login", nil, req, &token, nil); err != nil {
				return err
			}

			fmt.Fprintln(opts.out, token.AccessToken)
			fmt.Fprintf(opts.out, "# expires %s; export %s to reuse it\n", token.ExpiresAt.Format(time.RFC3339), tokenEnv)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newWalletCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "wallet",
		Short: "Show your wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			var wallet dto.WalletResponse
			if err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/wallet", nil, nil, &wallet, nil); err != nil {
				return err
			}

			printWallet(opts.out, &wallet)
			return nil
		},
	}
}

// newAmountCmd builds the deposit and withdraw commands.
func newAmountCmd(opts *cliOptions, action, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   action + " AMOUNT",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}

			var resp dto.OperationResponse
			path := "/api/v1/wallet/" + action
			if err := opts.client().do(cmd.Context(), http.MethodPost, path, nil, dto.AmountRequest{Amount: amount}, &resp, opts.idempotencyHeaders()); err != nil {
				return err
			}

			fmt.Fprintln(opts.out, resp.Detail)
			if resp.Wallet != nil {
				printWallet(opts.out, resp.Wallet)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")
	return cmd
}

func newTransferCmd(opts *cliOptions) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "transfer RECEIVER_WALLET_ID AMOUNT",
		Short: "Transfer funds to another wallet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}

			req := dto.CreateTransferRequest{
				ReceiverWalletID: args[0],
				Amount:           amount,
				Description:      description,
			}

			var resp dto.TransferResponse
			if err := opts.client().do(cmd.Context(), http.MethodPost, "/api/v1/transfers", nil, req, &resp, opts.idempotencyHeaders()); err != nil {
				return err
			}

			fmt.Fprintf(opts.out, "Transferred %s to %s\nBalance: %s\n", resp.Amount, resp.ReceiverWalletID, resp.SenderBalance)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Transfer description")
	cmd.Flags().StringVar(&opts.idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")
	return cmd
}

func newHistoryCmd(opts *cliOptions) *cobra.Command {
	var startDate, endDate string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List your wallet transactions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if startDate != "" {
				query.Set("start_date", startDate)
			}
			if endDate != "" {
				query.Set("end_date", endDate)
			}

			var records []dto.TransactionResponse
			if err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/transfers/history", query, nil, &records, nil); err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(opts.out)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}

			tw := tabwriter.NewWriter(opts.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tTYPE\tAMOUNT\tDESCRIPTION")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.CreatedAt.Format(time.DateTime), r.Kind, r.Amount, truncate(r.Description, 40))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&startDate, "start-date", "", "First day, YYYY-MM-DD")
	cmd.Flags().StringVar(&endDate, "end-date", "", "Last day, YYYY-MM-DD")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON")
	return cmd
}

func newReconcileCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Check your balance against the transaction log",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result dto.ReconciliationResponse
			if err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/wallet/reconciliation", nil, nil, &result, nil); err != nil {
				return err
			}

			status := "PASSED"
			if !result.IsReconciled {
				status = "FAILED"
			}
			fmt.Fprintf(opts.out, "Reconciliation %s\n", status)
			fmt.Fprintf(opts.out, "Recorded:   %s\nCalculated: %s\nDifference: %s\nRecords:    %d\n",
				result.RecordedBalance, result.CalculatedBalance, result.Difference, result.RecordCount)

			if !result.IsReconciled {
				return fmt.Errorf("wallet %s is not reconciled", result.WalletID)
			}
			return nil
		},
	}
}

func newMigrateCmd(opts *cliOptions) *cobra.Command {
	var databaseURL string

	resolveURL := func() (string, error) {
		if databaseURL != "" {
			return databaseURL, nil
		}
		cfg, err := config.Load()
		if err != nil {
			return "", err
		}
		return cfg.DatabaseURL, nil
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Database URL (defaults to $DATABASE_URL)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				dbURL, err := resolveURL()
				if err != nil {
					return err
				}
				return postgres.RunMigrations(dbURL)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				dbURL, err := resolveURL()
				if err != nil {
					return err
				}
				return postgres.RunMigrationsDown(dbURL)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				dbURL, err := resolveURL()
				if err != nil {
					return err
				}
				version, dirty, err := postgres.MigrationVersion(dbURL)
				if err != nil {
					return err
				}
				fmt.Fprintf(opts.out, "version %d (dirty: %v)\n", version, dirty)
				return nil
			},
		},
	)

	return cmd
}

func printWallet(out io.Writer, w *dto.WalletResponse) {
	fmt.Fprintf(out, "Wallet:  %s\nOwner:   %s\nBalance: %s\n", w.ID, w.Email, w.Balance)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	if limit <= 3 {
		return s[:limit]
	}
	return s[:limit-3] + "..."
}
