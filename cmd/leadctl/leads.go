package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"advisory_portal/internal/leads/domain"

	"github.com/spf13/cobra"
)

var (
	leadsTab     string
	leadsStatus  string
	leadsRefresh bool
)

// leadsCmd lists one review queue
var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List the leads of a review queue",
	Long: `List the leads of one tab: pending (priority order), auto_rejected or active.
--status narrows the active tab to a single status.`,
	Args: cobra.NoArgs,
	RunE: runLeads,
}

// metricsCmd prints the summary strip
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show the dashboard summary counters",
	Args:  cobra.NoArgs,
	RunE:  runMetrics,
}

func init() {
	leadsCmd.Flags().StringVar(&leadsTab, "tab", string(domain.TabPending), "pending, auto_rejected or active")
	leadsCmd.Flags().StringVar(&leadsStatus, "status", "", "filter by status")
	leadsCmd.Flags().BoolVar(&leadsRefresh, "refresh", false, "bypass cached snapshots")
}

func runLeads(cmd *cobra.Command, _ []string) error {
	tab, ok := domain.ParseTab(leadsTab)
	if !ok {
		return fmt.Errorf("unknown tab %q", leadsTab)
	}
	if leadsStatus != "" {
		if err := val.Var(leadsStatus, "lead_status"); err != nil {
			return fmt.Errorf("unknown status %q", leadsStatus)
		}
	}

	snap, err := leadsSvc.ListLeads(cmd.Context(), tab, domain.Status(leadsStatus), leadsRefresh)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if asJSON {
		return printJSON(out, snap)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEAD\tNAME\tSTATUS\tPRIORITY\tASSETS\tSUBMITTED")
	for _, lead := range snap.Leads {
		submitted := "-"
		if lead.SubmittedAt != nil {
			submitted = lead.SubmittedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			lead.LeadID, lead.FullName, lead.Status, orDash(string(lead.PriorityScore)),
			orDash(domain.AssetsLabel(lead.InvestableAssets)), submitted)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d lead(s) in %s", snap.Count, snap.Tab)
	if snap.UsingFallback {
		fmt.Fprint(out, " (sample data: upstream unavailable)")
	}
	fmt.Fprintln(out)
	return nil
}

func runMetrics(cmd *cobra.Command, _ []string) error {
	metrics, usingFallback, err := leadsSvc.Metrics(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if asJSON {
		return printJSON(out, struct {
			domain.Metrics
			UsingFallback bool `json:"usingFallback"`
		}{metrics, usingFallback})
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Leads this week\t%d\n", metrics.LeadsThisWeek)
	fmt.Fprintf(w, "Total leads\t%d\n", metrics.TotalLeads)
	fmt.Fprintf(w, "Pending review\t%d\n", metrics.PendingReview)
	fmt.Fprintf(w, "Booked consultations\t%d\n", metrics.BookedConsultations)
	fmt.Fprintf(w, "Avg hours to book\t%.1f\n", metrics.AvgHoursToBook)
	if usingFallback {
		fmt.Fprintln(w, "Source\tsample data")
	}
	return w.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
