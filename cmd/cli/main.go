package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/gobudget/internal/calendar"
	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/auth"
	"github.com/iho/gobudget/internal/infrastructure/config"
	"github.com/iho/gobudget/internal/infrastructure/logger"
	"github.com/iho/gobudget/internal/infrastructure/postgres"
)

var bcryptGenerate = bcrypt.GenerateFromPassword

type globalOptions struct {
	baseURL string
	timeout time.Duration
	userID  string
	token   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "gobudget-cli",
		Short:         "GoBudget CLI tool",
		Long:          `A command line interface for the GoBudget API and database maintenance.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the GoBudget API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&opts.userID, "user", os.Getenv("GOBUDGET_USER"), "User ID sent as X-User-ID when auth is disabled")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("GOBUDGET_TOKEN"), "Bearer token")

	rootCmd.AddCommand(
		accountsCmd(opts),
		balanceCmd(opts),
		seriesCmd(opts),
		materializeCmd(opts),
		reconcileCmd(opts),
		netWorthCmd(opts),
		migrateCmd(),
		tokenCmd(),
		hashPasswordCmd(),
	)

	return rootCmd
}

type apiClient struct {
	baseURL string
	http    *http.Client
	userID  string
	token   string
}

func newAPIClient(opts *globalOptions) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(opts.baseURL, "/"),
		http:    &http.Client{Timeout: opts.timeout},
		userID:  opts.userID,
		token:   opts.token,
	}
}

func (c *apiClient) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return data, nil
}

// printRaw re-indents a JSON body.
func printRaw(w io.Writer, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return printJSON(w, v)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func accountsCmd(opts *globalOptions) *cobra.Command {
	var includeArchived bool

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if includeArchived {
				query.Set("include_archived", "true")
			}
			query.Set("limit", "100")

			data, err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/accounts/", query, nil)
			if err != nil {
				return err
			}

			var resp struct {
				Accounts []struct {
					ID             string `json:"id"`
					Name           string `json:"name"`
					Kind           string `json:"kind"`
					Currency       string `json:"currency"`
					OpeningBalance string `json:"opening_balance"`
					Archived       bool   `json:"archived"`
				} `json:"accounts"`
			}
			if err := json.Unmarshal(data, &resp); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tKIND\tCURRENCY\tOPENING\tARCHIVED")
			for _, a := range resp.Accounts {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%v\n", a.ID, truncate(a.Name, 24), a.Kind, a.Currency, a.OpeningBalance, a.Archived)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&includeArchived, "archived", false, "Include archived accounts")
	return cmd
}

func balanceCmd(opts *globalOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Show an account balance at the end of a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if date != "" {
				if _, err := calendar.Parse(date); err != nil {
					return err
				}
				query.Set("date", date)
			}

			data, err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0])+"/balance", query, nil)
			if err != nil {
				return err
			}
			return printRaw(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD), defaults to today")
	return cmd
}

func seriesCmd(opts *globalOptions) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "series <account-id>",
		Short: "Show daily balances for a date range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRange(start, end); err != nil {
				return err
			}

			query := url.Values{"start": {start}, "end": {end}}
			data, err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0])+"/balances", query, nil)
			if err != nil {
				return err
			}
			return printRaw(cmd.OutOrStdout(), data)
		},
	}

	addRangeFlags(cmd, &start, &end)
	return cmd
}

func materializeCmd(opts *globalOptions) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "materialize <account-id>",
		Short: "Populate the daily balance cache for a date range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRange(start, end); err != nil {
				return err
			}

			body := map[string]string{"start": start, "end": end}
			data, err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/accounts/"+url.PathEscape(args[0])+"/balances/materialize", nil, body)
			if err != nil {
				return err
			}
			return printRaw(cmd.OutOrStdout(), data)
		},
	}

	addRangeFlags(cmd, &start, &end)
	return cmd
}

func reconcileCmd(opts *globalOptions) *cobra.Command {
	var (
		start, end string
		repair     bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile [account-id]",
		Short: "Compare cached balances with transaction history",
		Long:  "Checks one account, or every active account when no ID is given. Exits non-zero when discrepancies remain.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRange(start, end); err != nil {
				return err
			}

			path := "/api/v1/reconcile"
			if len(args) == 1 {
				path = "/api/v1/accounts/" + url.PathEscape(args[0]) + "/reconcile"
			}

			body := map[string]any{"start": start, "end": end, "repair": repair}
			data, err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, path, nil, body)
			if err != nil {
				return err
			}
			if err := printRaw(cmd.OutOrStdout(), data); err != nil {
				return err
			}

			if !reconciled(data) && !repair {
				return fmt.Errorf("balance cache has discrepancies")
			}
			return nil
		},
	}

	addRangeFlags(cmd, &start, &end)
	cmd.Flags().BoolVar(&repair, "repair", false, "Rewrite stale or missing cache rows")
	return cmd
}

// reconciled reports whether a single result or a results list is clean.
func reconciled(data []byte) bool {
	var single struct {
		Reconciled *bool `json:"reconciled"`
	}
	if err := json.Unmarshal(data, &single); err == nil && single.Reconciled != nil {
		return *single.Reconciled
	}

	var many struct {
		Results []struct {
			Reconciled bool `json:"reconciled"`
		} `json:"results"`
	}
	if err := json.Unmarshal(data, &many); err != nil {
		return false
	}
	for _, r := range many.Results {
		if !r.Reconciled {
			return false
		}
	}
	return true
}

func netWorthCmd(opts *globalOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "net-worth",
		Short: "Show net worth per currency",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if date != "" {
				query.Set("date", date)
			}

			data, err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/net-worth", query, nil)
			if err != nil {
				return err
			}
			return printRaw(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD), defaults to today")
	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	run := func(down bool) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			log := logger.NewWithWriter(logger.Config{Level: cfg.LogLevel, Format: "console"}, cmd.ErrOrStderr())

			if down {
				return postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath, log)
			}
			return postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log)
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all pending migrations", RunE: run(false)},
		&cobra.Command{Use: "down", Short: "Roll back all migrations", RunE: run(true)},
	)
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		email string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a bearer token signed with JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}
			if ttl <= 0 {
				ttl = cfg.JWTExpiration
			}

			token, err := auth.NewJWTManager(cfg.JWTSecret, ttl).Generate(&domain.User{ID: args[0], Email: email})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime, defaults to JWT_EXPIRATION")
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for seeding users",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
}

func addRangeFlags(cmd *cobra.Command, start, end *string) {
	cmd.Flags().StringVar(start, "start", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(end, "end", "", "Last day (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
}

func validateRange(start, end string) error {
	s, err := calendar.Parse(start)
	if err != nil {
		return err
	}
	e, err := calendar.Parse(end)
	if err != nil {
		return err
	}
	if e.Before(s) {
		return domain.ErrInvalidDateRange
	}
	return nil
}
