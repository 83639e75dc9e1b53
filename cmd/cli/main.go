package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/giftledger/internal/adapter/http/dto"
)

type options struct {
	baseURL string
	actor   string
	timeout time.Duration
	json    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "giftledger-cli",
		Short:         "GiftLedger CLI tool",
		Long:          `A command line interface for interacting with the GiftLedger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("GIFTLEDGER_URL", "http://localhost:8080"), "Base URL of the GiftLedger API")
	rootCmd.PersistentFlags().StringVar(&opts.actor, "actor", os.Getenv("GIFTLEDGER_ACTOR"), "Operator reference recorded on mutations")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Print raw JSON responses")

	rootCmd.AddCommand(
		cardsCmd(opts),
		mutationCmd(opts, "credit", "Add funds to a card", "credit"),
		mutationCmd(opts, "debit", "Redeem funds from a card", "debit"),
		mutationCmd(opts, "adjust", "Apply a signed correction to a card", "adjustments"),
		historyCmd(opts),
		importCmd(opts),
		closureCmd(opts),
		reconcileCmd(opts),
		ledgerCmd(opts),
	)

	return rootCmd
}

func (o *options) client() *apiClient {
	return &apiClient{
		baseURL: o.baseURL,
		actor:   o.actor,
		http:    &http.Client{Timeout: o.timeout},
	}
}

// render prints v as JSON when --json is set and falls back to text otherwise.
func (o *options) render(w io.Writer, v any, text func() error) error {
	if o.json {
		printJSON(w, v)
		return nil
	}
	return text()
}

func cardsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Gift card operations",
	}

	getCmd := &cobra.Command{
		Use:   "get <card-id-or-reference>",
		Short: "Show a card by UUID or external reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var card dto.CardResponse
			if err := opts.client().get(cmd.Context(), "/api/v1/cards/lookup", url.Values{"ref": {args[0]}}, &card); err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), &card, func() error {
				printCard(cmd.OutOrStdout(), &card)
				return nil
			})
		},
	}

	var (
		ownerID  string
		inactive bool
	)
	createCmd := &cobra.Command{
		Use:   "create <external-id>",
		Short: "Create a card with a zero balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.CreateCardRequest{ExternalID: args[0]}
			if ownerID != "" {
				req.OwnerID = &ownerID
			}
			if inactive {
				active := false
				req.Active = &active
			}

			var card dto.CardResponse
			if err := opts.client().send(cmd.Context(), http.MethodPost, "/api/v1/cards", req, nil, &card); err != nil {
				return err
			}
			printCard(cmd.OutOrStdout(), &card)
			return nil
		},
	}
	createCmd.Flags().StringVar(&ownerID, "owner", "", "Owner ID")
	createCmd.Flags().BoolVar(&inactive, "inactive", false, "Create the card deactivated")

	var status string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if status != "" {
				query.Set("status", status)
			}
			var resp dto.ListCardsResponse
			if err := opts.client().get(cmd.Context(), "/api/v1/cards", query, &resp); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tEXTERNAL ID\tOWNER\tBALANCE\tACTIVE\tSTATUS")
			for _, c := range resp.Cards {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%v\t%s\n", c.ID, c.ExternalID, truncate(c.OwnerName, 24), c.Balance.StringFixed(2), c.Active, c.Status)
			}
			return tw.Flush()
		},
	}
	listCmd.Flags().StringVar(&status, "status", "", "Comma separated statuses (active, archived)")

	cmd.AddCommand(getCmd, createCmd, listCmd)
	return cmd
}

func mutationCmd(opts *options, use, short, endpoint string) *cobra.Command {
	var (
		description    string
		location       string
		idempotencyKey string
	)

	cmd := &cobra.Command{
		Use:   use + " <card-id> <amount>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			req := dto.MutationRequest{Amount: amount.String()}
			if description != "" {
				req.Description = &description
			}
			if location != "" {
				req.LocationID = &location
			}

			var entry dto.EntryResponse
			path := "/api/v1/cards/" + url.PathEscape(args[0]) + "/" + endpoint
			headers := map[string]string{idempotencyHeader: idempotencyKey}
			if err := opts.client().send(cmd.Context(), http.MethodPost, path, req, headers, &entry); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s: %s -> %s\n",
				entry.Folio, entry.Kind, entry.SignedAmount.StringFixed(2),
				entry.BalanceBefore.StringFixed(2), entry.BalanceAfter.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Free text description")
	cmd.Flags().StringVar(&location, "location", "", "Location ID (required for debits)")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")
	return cmd
}

func historyCmd(opts *options) *cobra.Command {
	var (
		from, to, kind string
		limit          int
	)

	cmd := &cobra.Command{
		Use:   "history <card-id>",
		Short: "List the ledger entries of a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := periodQuery(from, to)
			if kind != "" {
				query.Set("kind", kind)
			}
			if limit > 0 {
				query.Set("limit", strconv.Itoa(limit))
			}

			var resp dto.ListEntriesResponse
			if err := opts.client().get(cmd.Context(), "/api/v1/cards/"+url.PathEscape(args[0])+"/entries", query, &resp); err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), &resp, func() error {
				return printEntries(cmd.OutOrStdout(), resp.Entries)
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&to, "to", "", "End date, inclusive (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&kind, "kind", "", "credit, debit or adjustment")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of entries")
	return cmd
}

func importCmd(opts *options) *cobra.Command {
	var (
		allowMultiple bool
		headingRow    int
		startRow      int
	)

	cmd := &cobra.Command{
		Use:   "import <file.csv|file.xlsx>",
		Short: "Apply a balance spreadsheet, one mutation per row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := map[string]string{"allow_multiple": strconv.FormatBool(allowMultiple)}
			if headingRow > 0 {
				fields["heading_row"] = strconv.Itoa(headingRow)
			}
			if startRow > 0 {
				fields["start_row"] = strconv.Itoa(startRow)
			}

			var resp dto.ImportResponse
			err := opts.client().upload(cmd.Context(), args[0], fields, &resp)
			if resp.ImportResult != nil {
				printImport(cmd.OutOrStdout(), &resp)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&allowMultiple, "allow-multiple", false, "Allow several rows for the same card")
	cmd.Flags().IntVar(&headingRow, "heading-row", 0, "1-based heading row (server default when 0)")
	cmd.Flags().IntVar(&startRow, "start-row", 0, "1-based first data row (server default when 0)")
	return cmd
}

func closureCmd(opts *options) *cobra.Command {
	var from, to, kind, actor string

	cmd := &cobra.Command{
		Use:   "closure <location>",
		Short: "Print the cash closure of a location, by name or ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := periodQuery(from, to)
			if kind != "" {
				query.Set("kind", kind)
			}
			if actor != "" {
				query.Set("actor_id", actor)
			}

			var location dto.LocationResponse
			if err := opts.client().get(cmd.Context(), "/api/v1/locations/lookup", url.Values{"ref": {args[0]}}, &location); err != nil {
				return err
			}

			var resp dto.ClosureResponse
			if err := opts.client().get(cmd.Context(), "/api/v1/locations/"+url.PathEscape(location.ID)+"/closure", query, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			return opts.render(out, &resp, func() error {
				if resp.Location != nil {
					fmt.Fprintf(out, "Location: %s\n", resp.Location.Name)
				}
				if err := printEntries(out, resp.Entries); err != nil {
					return err
				}
				printSummary(out, resp.Summary)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&to, "to", "", "End date, inclusive (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&kind, "kind", "", "credit, debit or adjustment")
	cmd.Flags().StringVar(&actor, "cashier", "", "Only entries recorded by this actor")
	return cmd
}

func reconcileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <card-id>",
		Short: "Replay a card's entries and compare with the stored balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ReconciliationResponse
			if err := opts.client().get(cmd.Context(), "/api/v1/cards/"+url.PathEscape(args[0])+"/reconciliation", nil, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Card:       %s\n", resp.CardID)
			fmt.Fprintf(out, "Recorded:   %s\n", resp.RecordedBalance.StringFixed(2))
			fmt.Fprintf(out, "Calculated: %s\n", resp.CalculatedBalance.StringFixed(2))
			fmt.Fprintf(out, "Entries:    %d\n", resp.EntryCount)
			for _, b := range resp.Breaks {
				fmt.Fprintf(out, "  break at %s: %s (expected %s, got %s)\n", b.EntryID, b.Reason, b.Expected.StringFixed(2), b.Actual.StringFixed(2))
			}
			if !resp.IsReconciled {
				return fmt.Errorf("card %s is not reconciled (difference %s)", resp.CardID, resp.Difference.StringFixed(2))
			}
			fmt.Fprintln(out, "Reconciled")
			return nil
		},
	}
}

func ledgerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ConsistencyResponse
			err := opts.client().get(cmd.Context(), "/api/v1/ledger/consistency", nil, &resp)

			out := cmd.OutOrStdout()
			for _, d := range resp.Drifts {
				fmt.Fprintf(out, "  %s (%s): recorded %s, calculated %s\n", d.CardID, d.ExternalID, d.Recorded.StringFixed(2), d.Calculated.StringFixed(2))
			}
			if err != nil {
				return fmt.Errorf("consistency check FAILED: %w", err)
			}

			fmt.Fprintln(out, "Consistency check PASSED")
			return nil
		},
	}

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Reconcile every card and check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ReconciliationReportResponse
			if err := opts.client().get(cmd.Context(), "/api/v1/ledger/reconciliation", nil, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			return opts.render(out, &resp, func() error {
				fmt.Fprintf(out, "Cards:      %d\n", resp.TotalCards)
				fmt.Fprintf(out, "Reconciled: %d\n", resp.ReconciledCards)
				for _, d := range resp.Discrepancies {
					fmt.Fprintf(out, "  %s: recorded %s, calculated %s\n", d.CardID, d.RecordedBalance.StringFixed(2), d.CalculatedBalance.StringFixed(2))
				}
				for _, d := range resp.Drifts {
					fmt.Fprintf(out, "  drift %s (%s): recorded %s, calculated %s\n", d.CardID, d.ExternalID, d.Recorded.StringFixed(2), d.Calculated.StringFixed(2))
				}
				if len(resp.Discrepancies) > 0 || !resp.LedgerConsistent {
					return fmt.Errorf("reconciliation FAILED: %d card(s) off, %d drift(s)", len(resp.Discrepancies), len(resp.Drifts))
				}
				fmt.Fprintln(out, "Reconciliation PASSED")
				return nil
			})
		},
	}

	cmd.AddCommand(consistencyCmd, reportCmd)
	return cmd
}

func periodQuery(from, to string) url.Values {
	query := url.Values{}
	if from != "" {
		query.Set("from", from)
	}
	if to != "" {
		query.Set("to", to)
	}
	return query
}

func printCard(w io.Writer, c *dto.CardResponse) {
	fmt.Fprintf(w, "ID:          %s\n", c.ID)
	fmt.Fprintf(w, "External ID: %s\n", c.ExternalID)
	fmt.Fprintf(w, "Owner:       %s\n", c.OwnerName)
	fmt.Fprintf(w, "Balance:     %s\n", c.Balance.StringFixed(2))
	fmt.Fprintf(w, "Active:      %v\n", c.Active)
	fmt.Fprintf(w, "Status:      %s\n", c.Status)
}

func printEntries(w io.Writer, entries []*dto.EntryResponse) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FOLIO\tDATE\tKIND\tAMOUNT\tBALANCE\tLOCATION\tDESCRIPTION")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Folio,
			e.CreatedAt.Format(time.DateTime),
			e.Kind,
			e.SignedAmount.StringFixed(2),
			e.BalanceAfter.StringFixed(2),
			deref(e.LocationName),
			truncate(deref(e.Description), 32),
		)
	}
	return tw.Flush()
}

func printSummary(w io.Writer, s dto.SummaryResponse) {
	fmt.Fprintf(w, "Entries: %d across %d card(s)\n", s.TotalEntries, s.UniqueCards)
	fmt.Fprintf(w, "Credits: %s\n", s.TotalCredits.StringFixed(2))
	fmt.Fprintf(w, "Debits:  %s\n", s.TotalDebits.StringFixed(2))
	fmt.Fprintf(w, "Net:     %s\n", s.NetDifference.StringFixed(2))
}

func printImport(w io.Writer, resp *dto.ImportResponse) {
	stats := resp.Stats
	fmt.Fprintf(w, "%s: %d of %d row(s) applied, %d error(s)\n", resp.Filename, stats.Processed, stats.TotalRows, stats.Errors)
	fmt.Fprintf(w, "Credited: %s  Debited: %s  Net: %s\n",
		stats.TotalCredited.StringFixed(2), stats.TotalDebited.StringFixed(2), stats.NetChange.StringFixed(2))
	for _, e := range resp.Errors {
		fmt.Fprintf(w, "  row %d (%s): %s\n", e.Row, e.CardRef, e.Message)
	}
	if resp.Aborted {
		fmt.Fprintf(w, "Import aborted: %s\n", resp.Message)
	}
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
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

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
