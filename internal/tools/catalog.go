package tools

import (
	"context"
	"fmt"

	"github.com/ShayonX/LLM-Playground/internal/mail"
)

// lookupTool is a read-only data lookup keyed by a free-text username. No
// validation is applied to the username: the model passes through whatever
// the conversation produced and the mock datasets accept any string.
type lookupTool struct {
	name        string
	description string
	argDoc      string
	payload     func(username string) map[string]any
}

func (t *lookupTool) Name() string        { return t.name }
func (t *lookupTool) Description() string { return t.description }

func (t *lookupTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"username": map[string]any{
				"type":        "string",
				"description": t.argDoc,
			},
		},
		"required": []string{"username"},
	}
}

func (t *lookupTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	username, _ := args["username"].(string)
	return t.payload(username), nil
}

// userInfoTool returns the caller's profile and takes no arguments.
type userInfoTool struct{}

func (userInfoTool) Name() string { return "get_user_info" }
func (userInfoTool) Description() string {
	return "Get user information of the person asking the questions"
}
func (userInfoTool) Parameters() map[string]any { return nil }
func (userInfoTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	return UserInfo(), nil
}

// consolidatedTool accepts a list of usernames and nests every dataset.
type consolidatedTool struct{}

func (consolidatedTool) Name() string { return "get_consolidated_data_multiple_people" }
func (consolidatedTool) Description() string {
	return "Get consolidated data for multiple people"
}

func (consolidatedTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"usernames": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "List of usernames to get consolidated data for",
			},
		},
		"required": []string{"usernames"},
	}
}

func (consolidatedTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	raw, ok := args["usernames"].([]any)
	if !ok {
		return nil, fmt.Errorf("usernames must be an array of strings")
	}
	usernames := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			usernames = append(usernames, s)
		}
	}
	return consolidatedData(usernames), nil
}

// sendEmailTool delivers a free-form email through the mail sender.
type sendEmailTool struct {
	sender *mail.Sender
}

func (t *sendEmailTool) Name() string { return "send_email" }
func (t *sendEmailTool) Description() string {
	return fmt.Sprintf("Send an email to %s with custom content", t.sender.Recipient())
}

func (t *sendEmailTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"subject": map[string]any{
				"type":        "string",
				"description": "The email subject line",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "The email content/body",
			},
			"content_type": map[string]any{
				"type":        "string",
				"description": "The content type - 'plain' or 'html'",
				"enum":        []string{"plain", "html"},
				"default":     "plain",
			},
			"sender_name": map[string]any{
				"type":        "string",
				"description": "The name to display as sender",
				"default":     mail.DefaultSenderName,
			},
		},
		"required": []string{"subject", "content"},
	}
}

func (t *sendEmailTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	subject, _ := args["subject"].(string)
	content, _ := args["content"].(string)
	if subject == "" || content == "" {
		return nil, fmt.Errorf("subject and content are required")
	}

	contentType, _ := args["content_type"].(string)
	if contentType == "" {
		contentType = "plain"
	}
	senderName, _ := args["sender_name"].(string)
	if senderName == "" {
		senderName = mail.DefaultSenderName
	}

	return t.sender.Send(ctx, subject, content, contentType, senderName)
}

// complianceNotificationTool delivers a templated compliance email.
type complianceNotificationTool struct {
	sender *mail.Sender
}

func (t *complianceNotificationTool) Name() string { return "send_compliance_notification" }
func (t *complianceNotificationTool) Description() string {
	return "Send a compliance-specific notification email with predefined formatting"
}

func (t *complianceNotificationTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"notification_type": map[string]any{
				"type":        "string",
				"description": "Type of notification",
				"enum":        []string{"policy_update", "training_due", "audit_alert", "general"},
			},
			"details": map[string]any{
				"type":        "string",
				"description": "Specific details about the notification",
			},
			"priority": map[string]any{
				"type":        "string",
				"description": "Priority level",
				"enum":        []string{"low", "normal", "high", "urgent"},
				"default":     "normal",
			},
		},
		"required": []string{"notification_type", "details"},
	}
}

func (t *complianceNotificationTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	kind, _ := args["notification_type"].(string)
	details, _ := args["details"].(string)
	if kind == "" || details == "" {
		return nil, fmt.Errorf("notification_type and details are required")
	}
	priority, _ := args["priority"].(string)
	if priority == "" {
		priority = "normal"
	}

	return t.sender.SendComplianceNotification(ctx, kind, details, priority)
}

// NewCatalog builds the full fixed tool catalog: the profile lookup, the
// per-user datasets, the multi-user consolidator, and the two notification
// senders. Registration order is the order the catalog is presented to the
// model.
func NewCatalog(sender *mail.Sender) (*Registry, error) {
	registry := NewRegistry()

	all := []Tool{
		userInfoTool{},
		&lookupTool{"get_vendor_risk_ratings_complete", "Get vendor risk ratings for a specific user", "The username to get vendor risk ratings for", vendorRiskRatings},
		&lookupTool{"get_asset_checkout_records", "Get asset checkout records for a specific user", "The username to get asset checkout records for", assetCheckoutRecords},
		&lookupTool{"get_final_hr_clearance_forms", "Get final HR clearance forms for a specific user", "The username to get HR clearance forms for", hrClearanceForms},
		&lookupTool{"get_pre_post_transfer_kpi_deltas", "Get pre and post transfer KPI deltas for a specific user", "The username to get KPI deltas for", transferKPIDeltas},
		&lookupTool{"get_training_gap_analysis", "Get training gap analysis for a specific user", "The username to get training gap analysis for", trainingGapAnalysis},
		&lookupTool{"get_sales_leaderboard_rankings", "Get sales leaderboard rankings for a specific user", "The username to get sales rankings for", salesLeaderboard},
		&lookupTool{"get_new_client_acquisition_metrics", "Get new client acquisition metrics for a specific user", "The username to get client acquisition metrics for", clientAcquisitionMetrics},
		&lookupTool{"get_quarter_end_variance_schedules", "Get quarter-end variance schedules for a specific user", "The username to get variance schedules for", varianceSchedules},
		&lookupTool{"get_invoices_over_threshold", "Get invoices over threshold for a specific user", "The username to get invoices over threshold for", invoicesOverThreshold},
		&lookupTool{"get_pending_contract_redlines", "Get pending contract redlines for a specific user", "The username to get pending contract redlines for", contractRedlines},
		&lookupTool{"get_customer_signature_status", "Get customer signature status for a specific user", "The username to get customer signature status for", signatureStatus},
		&lookupTool{"get_vendor_arbitration_documents", "Get vendor arbitration documents for a specific user", "The username to get vendor arbitration documents for", arbitrationDocuments},
		&lookupTool{"get_shipping_discrepancy_logs", "Get shipping discrepancy logs for a specific user", "The username to get shipping discrepancy logs for", shippingDiscrepancies},
		&lookupTool{"get_control_test_evidence", "Get control test evidence for a specific user", "The username to get control test evidence for", controlTestEvidence},
		&lookupTool{"get_remediation_status_matrix", "Get remediation status matrix for a specific user", "The username to get remediation status matrix for", remediationMatrix},
		&lookupTool{"get_inter_site_transfer_approvals", "Get inter-site transfer approvals for a specific user", "The username to get transfer approvals for", transferApprovals},
		&lookupTool{"get_mobility_stipend_usage", "Get mobility stipend usage for a specific user", "The username to get mobility stipend usage for", mobilityStipendUsage},
		&lookupTool{"get_endpoint_patch_compliance_summary", "Get endpoint patch compliance summary for a specific user", "The username to get patch compliance summary for", patchComplianceSummary},
		&lookupTool{"get_root_cause_analysis_failed_updates", "Get root-cause analysis on failed updates for a specific user", "The username to get root cause analysis for", failedUpdateRootCauses},
		&lookupTool{"get_capex_spend_vs_budget_detail", "Get CAPEX spend vs budget detail for a specific user", "The username to get CAPEX spend details for", capexSpendDetail},
		&lookupTool{"get_asset_recovery_forms", "Get asset recovery forms for a specific user", "The username to get asset recovery forms for", assetRecoveryForms},
		&lookupTool{"get_engagement_survey_verbatims", "Get engagement survey verbatims for a specific user", "The username to get survey verbatims for", surveyVerbatims},
		&lookupTool{"get_mentor_mentee_pairing_outcomes", "Get mentor-mentee pairing outcomes for a specific user", "The username to get mentoring outcomes for", mentorPairingOutcomes},
		&lookupTool{"get_signed_nda_archive", "Get signed NDA archive for a specific user", "The username to get NDA archive for", ndaArchive},
		&lookupTool{"get_employee_relations_case_notes", "Get employee relations case notes for a specific user", "The username to get employee relations case notes for", employeeRelationsNotes},
		&lookupTool{"get_attendance_variance_sheet", "Get attendance variance sheet for a specific user", "The username to get attendance variance for", attendanceVariance},
		&lookupTool{"get_exception_based_overtime_approvals", "Get exception-based overtime approvals for a specific user", "The username to get overtime approvals for", overtimeApprovals},
		&lookupTool{"get_conflict_mediation_transcripts", "Get conflict mediation transcripts for a specific user", "The username to get mediation transcripts for", mediationTranscripts},
		&lookupTool{"get_policy_violation_closure_memos", "Get policy violation closure memos for a specific user", "The username to get policy violation memos for", policyViolationMemos},
		&lookupTool{"get_aged_receivables_escalation_list", "Get aged receivables escalation list for a specific user", "The username to get aged receivables list for", agedReceivables},
		consolidatedTool{},
		&sendEmailTool{sender: sender},
		&complianceNotificationTool{sender: sender},
	}

	for _, tool := range all {
		if err := registry.Register(tool); err != nil {
			return nil, fmt.Errorf("failed to build tool catalog: %w", err)
		}
	}
	return registry, nil
}
