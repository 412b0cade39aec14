package main

import (
	"fmt"

	"advisory_portal/internal/leads/service"
	"advisory_portal/internal/leads/transport"
	"advisory_portal/platform/validator"

	"github.com/spf13/cobra"
)

var (
	advisorID      string
	advisorName    string
	rejectReason   string
	overrideReason string
	customNote     string
	question       string
)

// approveCmd assigns an advisor to a pending lead
var approveCmd = &cobra.Command{
	Use:   "approve <leadId>",
	Short: "Approve a pending lead and assign an advisor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := transport.ApproveRequest{AssignedAdvisorID: advisorID, AssignedAdvisorName: advisorName}
		if err := validate(req); err != nil {
			return err
		}
		return report(cmd, leadsSvc.Approve(cmd.Context(), operator, args[0], req))
	},
}

// rejectCmd rejects a pending lead
var rejectCmd = &cobra.Command{
	Use:   "reject <leadId>",
	Short: "Reject a pending lead",
	Long:  `Reject a pending lead. --reason is one of below_threshold, not_a_fit, incomplete_info or other.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := transport.RejectRequest{RejectionReason: rejectReason, CustomNote: customNote}
		if err := validate(req); err != nil {
			return err
		}
		return report(cmd, leadsSvc.Reject(cmd.Context(), operator, args[0], req))
	},
}

// confirmRejectCmd confirms an automatic disqualification
var confirmRejectCmd = &cobra.Command{
	Use:   "confirm-reject <leadId>",
	Short: "Confirm the rejection of a disqualified lead",
	Long:  `Confirm the rejection of a disqualified lead; the workflow engine then emails the applicant.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := transport.ConfirmRejectRequest{RejectionReason: rejectReason, CustomNote: customNote}
		if err := validate(req); err != nil {
			return err
		}
		return report(cmd, leadsSvc.ConfirmReject(cmd.Context(), operator, args[0], req))
	},
}

// overrideCmd sends a disqualified lead back through enrichment
var overrideCmd = &cobra.Command{
	Use:   "override <leadId>",
	Short: "Override an automatic disqualification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := transport.OverrideRequest{OverrideReason: overrideReason}
		if err := validate(req); err != nil {
			return err
		}
		return report(cmd, leadsSvc.Override(cmd.Context(), operator, args[0], req))
	},
}

// requestInfoCmd emails the applicant a follow-up question
var requestInfoCmd = &cobra.Command{
	Use:   "request-info <leadId>",
	Short: "Ask the applicant a follow-up question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := transport.RequestInfoRequest{FollowUpQuestion: question}
		if err := validate(req); err != nil {
			return err
		}
		return report(cmd, leadsSvc.RequestInfo(cmd.Context(), operator, args[0], req))
	},
}

func init() {
	approveCmd.Flags().StringVar(&advisorID, "advisor-id", "", "advisor record id")
	approveCmd.Flags().StringVar(&advisorName, "advisor-name", "", "advisor display name")

	for _, cmd := range []*cobra.Command{rejectCmd, confirmRejectCmd} {
		cmd.Flags().StringVar(&rejectReason, "reason", "not_a_fit", "rejection reason")
		cmd.Flags().StringVar(&customNote, "note", "", "note included in the rejection email")
	}
	overrideCmd.Flags().StringVar(&overrideReason, "reason", "", "override reason")
	requestInfoCmd.Flags().StringVar(&question, "question", "", "question emailed to the applicant")
}

func validate(req any) error {
	if err := val.Struct(req); err != nil {
		return fmt.Errorf("invalid flags: %v", validator.FieldErrors(err))
	}
	return nil
}

func report(cmd *cobra.Command, out service.Outcome) error {
	if asJSON {
		if err := printJSON(cmd.OutOrStdout(), transport.ActionResponse{
			Action:          out.Action,
			LeadID:          out.LeadID,
			Succeeded:       out.Succeeded,
			RemovedFromView: out.RemovedFromView,
			Message:         out.Message,
			Error:           errorText(out.Err),
		}); err != nil {
			return err
		}
	}
	if out.Err != nil {
		return fmt.Errorf("%s %s: %w", out.Action, out.LeadID, out.Err)
	}
	if !asJSON {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", out.Action, out.LeadID, orDash(out.Message))
	}
	return nil
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
