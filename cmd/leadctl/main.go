// Command leadctl reviews leads from a terminal through the same read side
// and workflow webhooks as the admin dashboard.
package main

import (
	"fmt"
	"os"
	"time"

	"advisory_portal/internal/airtable"
	"advisory_portal/internal/leads"
	"advisory_portal/internal/leads/service"
	"advisory_portal/internal/leads/source"
	"advisory_portal/internal/workflow"
	"advisory_portal/platform/config"
	"advisory_portal/platform/logger"
	"advisory_portal/platform/validator"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	sourceMode string
	operator   string
	asJSON     bool
	verbose    bool

	// set by setup for the queue and action commands
	cfg      *config.Config
	leadsSvc *service.Service
	val      *validator.Validator
)

var rootCmd = &cobra.Command{
	Use:   "leadctl",
	Short: "Operator CLI for the advisory lead review queue",
	Long: `leadctl lists the review queues and performs operator actions
(approve, reject, override, request-info, confirm-reject) through the workflow engine.

Configuration is read from the environment (and .env) exactly like the API server.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sourceMode, "source", "", "lead source: auto, airtable, workflow or demo (default LEADS_SOURCE)")
	rootCmd.PersistentFlags().StringVar(&operator, "operator", defaultOperator(), "operator name recorded in the action log")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log upstream calls to stderr")

	rootCmd.AddCommand(leadsCmd, metricsCmd, tokenCmd)
	rootCmd.AddCommand(approveCmd, rejectCmd, confirmRejectCmd, overrideCmd, requestInfoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	if !needsLeads(cmd) {
		return nil
	}

	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if sourceMode != "" {
		loaded.LeadsSource = sourceMode
	}
	cfg = loaded

	log := logger.Nop()
	if verbose {
		log = logger.NewWithWriter(cfg.Env, cmd.ErrOrStderr())
	}

	val = validator.New()
	webhooks := workflow.New(cfg, log, nil)
	module, err := leads.NewModule(cfg, source.Deps{
		Airtable: airtable.New(cfg, log, nil),
		Workflow: webhooks,
		Log:      log,
		Now:      time.Now,
	}, webhooks, nil, val)
	if err != nil {
		return err
	}
	leadsSvc = module.Service()
	return nil
}

func needsLeads(cmd *cobra.Command) bool {
	switch cmd {
	case leadsCmd, metricsCmd, approveCmd, rejectCmd, confirmRejectCmd, overrideCmd, requestInfoCmd:
		return true
	default:
		return false
	}
}

func defaultOperator() string {
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "leadctl"
}
