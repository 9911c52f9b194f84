package tools

import "time"

// The lookup tools below return canned datasets keyed by whatever username
// the model passes through. The payload shapes mirror the reports the
// assistant narrates from; values are fixed so behavior is reproducible.

func today() string {
	return time.Now().Format("2006-01-02")
}

func wrap(username, dataType string, payload map[string]any) map[string]any {
	out := map[string]any{
		"user":         username,
		"data_type":    dataType,
		"last_updated": today(),
	}
	for k, v := range payload {
		out[k] = v
	}
	return out
}

// UserInfo returns the signed-in user's profile. The API layer serves it
// directly and the get_user_info tool returns the same payload.
func UserInfo() map[string]any {
	return map[string]any{
		"name":        "John Doe",
		"department":  "Compliance",
		"role":        "Compliance Officer",
		"email":       "john.doe@company.com",
		"permissions": []string{"policy_review", "training_creation", "audit_access"},
		"location":    "New York",
		"adminAccess": true,
	}
}

func vendorRiskRatings(username string) map[string]any {
	return wrap(username, "Vendor risk ratings", map[string]any{
		"vendors": []map[string]any{
			{"vendor_id": "VEND-001", "name": "TechCorp Solutions", "risk_level": "Low", "rating": "A", "last_assessment": "2024-12-01"},
			{"vendor_id": "VEND-002", "name": "Global Services Ltd", "risk_level": "Medium", "rating": "B+", "last_assessment": "2024-11-15"},
			{"vendor_id": "VEND-003", "name": "QuickFix Inc", "risk_level": "High", "rating": "C", "last_assessment": "2024-12-10"},
		},
		"total_vendors":  3,
		"average_rating": "B",
	})
}

func assetCheckoutRecords(username string) map[string]any {
	return wrap(username, "Asset checkout records", map[string]any{
		"checked_out_assets": []map[string]any{
			{"asset_id": "LAPTOP-001", "type": "Laptop", "checkout_date": "2024-11-01", "return_due": "2024-12-01", "status": "overdue"},
			{"asset_id": "PROJ-005", "type": "Projector", "checkout_date": "2024-12-10", "return_due": "2024-12-17", "status": "active"},
			{"asset_id": "CAM-003", "type": "Camera", "checkout_date": "2024-12-12", "return_due": "2024-12-19", "status": "active"},
		},
		"total_checked_out": 3,
		"overdue_count":     1,
	})
}

func hrClearanceForms(username string) map[string]any {
	return wrap(username, "Final HR clearance forms", map[string]any{
		"clearance_items": []map[string]any{
			{"item": "Equipment Return", "status": "completed", "completion_date": "2024-12-01"},
			{"item": "Badge Deactivation", "status": "completed", "completion_date": "2024-12-02"},
			{"item": "System Access Removal", "status": "pending", "assigned_to": "IT Security"},
			{"item": "Final Payroll Processing", "status": "in_progress", "assigned_to": "Payroll Dept"},
		},
		"completion_percentage": "50%",
		"expected_completion":   "2024-12-20",
	})
}

func transferKPIDeltas(username string) map[string]any {
	return wrap(username, "Pre and post transfer KPI deltas", map[string]any{
		"kpis": []map[string]any{
			{"metric": "Productivity Score", "pre_transfer": 85, "post_transfer": 92, "delta": "+7", "improvement": "8.2%"},
			{"metric": "Customer Satisfaction", "pre_transfer": 4.2, "post_transfer": 4.6, "delta": "+0.4", "improvement": "9.5%"},
			{"metric": "Project Completion Rate", "pre_transfer": 78, "post_transfer": 83, "delta": "+5", "improvement": "6.4%"},
			{"metric": "Team Collaboration Score", "pre_transfer": 3.8, "post_transfer": 4.1, "delta": "+0.3", "improvement": "7.9%"},
		},
		"overall_improvement": "7.8%",
		"transfer_date":       "2024-11-01",
		"measurement_period":  "30 days post-transfer",
	})
}

func trainingGapAnalysis(username string) map[string]any {
	return wrap(username, "Training gap analysis", map[string]any{
		"skill_gaps": []map[string]any{
			{"skill": "Advanced Excel", "current_level": "Intermediate", "required_level": "Advanced", "priority": "High", "training_hours": 20},
			{"skill": "Project Management", "current_level": "Basic", "required_level": "Intermediate", "priority": "Medium", "training_hours": 40},
			{"skill": "Data Analysis", "current_level": "Beginner", "required_level": "Intermediate", "priority": "High", "training_hours": 35},
			{"skill": "Leadership", "current_level": "None", "required_level": "Basic", "priority": "Low", "training_hours": 25},
		},
		"total_training_hours_needed": 120,
		"estimated_completion_time":   "3 months",
		"budget_required":             "$2,400",
	})
}

func salesLeaderboard(username string) map[string]any {
	return wrap(username, "Sales leaderboard rankings", map[string]any{
		"current_ranking": map[string]any{
			"position":          5,
			"total_sales":       "$125,000",
			"quota_achievement": "104%",
			"deals_closed":      12,
		},
		"top_performers": []map[string]any{
			{"rank": 1, "name": "Sarah Johnson", "sales": "$180,000", "quota_achievement": "150%"},
			{"rank": 2, "name": "Mike Chen", "sales": "$165,000", "quota_achievement": "138%"},
			{"rank": 3, "name": "Lisa Rodriguez", "sales": "$155,000", "quota_achievement": "129%"},
			{"rank": 4, "name": "David Kim", "sales": "$140,000", "quota_achievement": "117%"},
			{"rank": 5, "name": username, "sales": "$125,000", "quota_achievement": "104%"},
		},
		"period": "Q4 2024",
	})
}

func clientAcquisitionMetrics(username string) map[string]any {
	return wrap(username, "New client acquisition metrics", map[string]any{
		"metrics": map[string]any{
			"new_clients_acquired":  8,
			"conversion_rate":       "15.2%",
			"average_deal_size":     "$18,500",
			"time_to_close":         "45 days",
			"client_retention_rate": "92%",
		},
		"quarterly_breakdown": []map[string]any{
			{"month": "October", "new_clients": 3, "revenue": "$45,000"},
			{"month": "November", "new_clients": 2, "revenue": "$38,000"},
			{"month": "December", "new_clients": 3, "revenue": "$65,000"},
		},
		"total_new_revenue":  "$148,000",
		"target_achievement": "118%",
	})
}

func varianceSchedules(username string) map[string]any {
	return wrap(username, "Quarter-end variance schedules", map[string]any{
		"variances": []map[string]any{
			{"account": "Revenue", "plan": 1200000, "actual": 1175000, "variance": -25000},
			{"account": "COGS", "plan": 300000, "actual": 315000, "variance": 15000},
		},
	})
}

func invoicesOverThreshold(username string) map[string]any {
	return wrap(username, "Invoices over threshold", map[string]any{
		"threshold": "$10 000",
		"invoices": []map[string]any{
			{"invoice_id": "INV-09231", "amount": "$12 450", "vendor": "Contoso Ltd", "status": "pending"},
			{"invoice_id": "INV-09307", "amount": "$18 300", "vendor": "Fabrikam Inc", "status": "approved"},
		},
	})
}

func contractRedlines(username string) map[string]any {
	return wrap(username, "Pending contract redlines", map[string]any{
		"contracts": []map[string]any{
			{"contract_id": "CTR-4410", "counterparty": "Northwind", "version": 3, "section": "Indemnity"},
			{"contract_id": "CTR-4422", "counterparty": "Adventure Works", "version": 2, "section": "Payment"},
		},
	})
}

func signatureStatus(username string) map[string]any {
	return wrap(username, "Customer signature status", map[string]any{
		"documents": []map[string]any{
			{"doc_id": "MSA-2025-07", "customer": "Wingtip Toys", "sent": "2025-05-14", "signed": false},
			{"doc_id": "SLA-4015-A", "customer": "Tailspin", "sent": "2025-05-02", "signed": true},
		},
	})
}

func arbitrationDocuments(username string) map[string]any {
	return wrap(username, "Vendor arbitration documents", map[string]any{
		"cases": []map[string]any{
			{"case_id": "ARB-88-22", "vendor": "Fabrikam", "stage": "response due", "due_date": "2025-06-10"},
		},
	})
}

func shippingDiscrepancies(username string) map[string]any {
	return wrap(username, "Shipping discrepancy logs", map[string]any{
		"incidents": []map[string]any{
			{"shipment_id": "SHIP-7721", "type": "shortage", "units": 15, "resolution": "pending"},
			{"shipment_id": "SHIP-7844", "type": "damage", "units": 4, "resolution": "credit issued"},
		},
	})
}

func controlTestEvidence(username string) map[string]any {
	return wrap(username, "Control test evidence", map[string]any{
		"controls_tested": 12,
		"exceptions":      1,
		"evidence_links": []string{
			"https://sharepoint/controls/CNTR-105-evidence.pdf",
			"https://sharepoint/controls/CNTR-112-screenshots.zip",
		},
	})
}

func remediationMatrix(username string) map[string]any {
	return wrap(username, "Remediation status matrix", map[string]any{
		"open_items": 3,
		"items": []map[string]any{
			{"id": "RM-0042", "control": "Access review", "owner": "IT-Sec", "due": "2025-06-20"},
		},
	})
}

func transferApprovals(username string) map[string]any {
	return wrap(username, "Inter-site transfer approvals", map[string]any{
		"transfers": []map[string]any{
			{"request_id": "TR-0099", "from": "NYC", "to": "SJC", "status": "approved"},
			{"request_id": "TR-0102", "from": "DAL", "to": "SEA", "status": "pending"},
		},
	})
}

func mobilityStipendUsage(username string) map[string]any {
	return wrap(username, "Mobility stipend usage", map[string]any{
		"annual_allowance": "$1 200",
		"spent_to_date":    "$450",
		"transactions": []map[string]any{
			{"date": "2025-02-03", "category": "Bike share", "amount": "$150"},
			{"date": "2025-03-18", "category": "Transit pass", "amount": "$300"},
		},
	})
}

func patchComplianceSummary(username string) map[string]any {
	return wrap(username, "Endpoint patch compliance summary", map[string]any{
		"devices":       12,
		"compliant":     10,
		"non_compliant": 2,
		"percentage":    "83.3%",
	})
}

func failedUpdateRootCauses(username string) map[string]any {
	return wrap(username, "Root-cause analysis on failed updates", map[string]any{
		"failed_updates": []map[string]any{
			{"update_id": "KB5032147", "error": "0x80070005", "root_cause": "access denied"},
		},
	})
}

func capexSpendDetail(username string) map[string]any {
	return wrap(username, "CAPEX spend vs budget detail", map[string]any{
		"budget":   "$500 000",
		"actual":   "$475 000",
		"variance": "-$25 000",
		"major_line_items": []map[string]any{
			{"project": "Data-center UPS", "budget": "$75 000", "actual": "$81 000"},
		},
	})
}

func assetRecoveryForms(username string) map[string]any {
	return wrap(username, "Asset recovery forms", map[string]any{
		"forms_pending": 2,
		"forms":         []string{"ARF-0118", "ARF-0121"},
	})
}

func surveyVerbatims(username string) map[string]any {
	return wrap(username, "Engagement survey verbatims", map[string]any{
		"count": 4,
		"highlights": []string{
			"Communication between teams has improved.",
			"Need clearer performance metrics.",
		},
	})
}

func mentorPairingOutcomes(username string) map[string]any {
	return wrap(username, "Mentor-mentee pairing outcomes", map[string]any{
		"pairings": 1,
		"outcomes": []map[string]any{
			{"mentor": "Alice", "mentee": username, "status": "active"},
		},
	})
}

func ndaArchive(username string) map[string]any {
	return wrap(username, "Signed NDA archive", map[string]any{
		"ndas": []map[string]any{
			{"nda_id": "NDA-8891", "signed_on": "2025-01-12", "counterparty": "Contoso"},
		},
	})
}

func employeeRelationsNotes(username string) map[string]any {
	return wrap(username, "Employee relations case notes", map[string]any{
		"open_cases":   0,
		"closed_cases": 1,
		"notes": []map[string]any{
			{"case_id": "ER-2024-17", "summary": "Work-schedule dispute resolved amicably"},
		},
	})
}

func attendanceVariance(username string) map[string]any {
	return wrap(username, "Attendance variance sheet", map[string]any{
		"days_worked":        120,
		"late_arrivals":      3,
		"unplanned_absences": 2,
	})
}

func overtimeApprovals(username string) map[string]any {
	return wrap(username, "Exception-based overtime approvals", map[string]any{
		"overtime_requests": []map[string]any{
			{"request_id": "OT-530", "hours": 6, "approved_by": "Mgr1"},
		},
	})
}

func mediationTranscripts(username string) map[string]any {
	return wrap(username, "Conflict mediation transcripts", map[string]any{
		"transcript_links": []string{"https://sharepoint/mediation/TR-0099.txt"},
	})
}

func policyViolationMemos(username string) map[string]any {
	return wrap(username, "Policy violation closure memos", map[string]any{
		"memos": []string{"PVCM-2025-04.pdf"},
	})
}

func agedReceivables(username string) map[string]any {
	return wrap(username, "Aged receivables escalation list", map[string]any{
		"total_outstanding": "$42 000",
		"over_90_days":      "$12 500",
		"top_accounts": []map[string]any{
			{"account": "WideWorld Importers", "amount": "$7 800"},
		},
	})
}

// consolidatedData nests every per-user dataset for each requested name.
func consolidatedData(usernames []string) map[string]any {
	consolidated := make(map[string]any, len(usernames))
	for _, name := range usernames {
		consolidated[name] = map[string]any{
			"quarter_end_variance":      varianceSchedules(name),
			"invoices_over_threshold":   invoicesOverThreshold(name),
			"pending_contract_redlines": contractRedlines(name),
			"customer_signature_status": signatureStatus(name),
			"vendor_arbitration":        arbitrationDocuments(name),
			"shipping_discrepancies":    shippingDiscrepancies(name),
			"control_test_evidence":     controlTestEvidence(name),
			"remediation_status":        remediationMatrix(name),
			"transfer_approvals":        transferApprovals(name),
			"mobility_stipend":          mobilityStipendUsage(name),
			"patch_compliance":          patchComplianceSummary(name),
			"root_cause_analysis":       failedUpdateRootCauses(name),
			"capex_spend":               capexSpendDetail(name),
			"asset_recovery":            assetRecoveryForms(name),
			"survey_verbatims":          surveyVerbatims(name),
			"mentor_pairing":            mentorPairingOutcomes(name),
			"nda_archive":               ndaArchive(name),
			"employee_relations":        employeeRelationsNotes(name),
			"attendance_variance":       attendanceVariance(name),
			"overtime_approvals":        overtimeApprovals(name),
			"mediation_transcripts":     mediationTranscripts(name),
			"policy_violations":         policyViolationMemos(name),
			"aged_receivables":          agedReceivables(name),
			"vendor_risk_ratings":       vendorRiskRatings(name),
			"asset_checkout":            assetCheckoutRecords(name),
			"hr_clearance":              hrClearanceForms(name),
			"kpi_deltas":                transferKPIDeltas(name),
			"training_gaps":             trainingGapAnalysis(name),
			"sales_rankings":            salesLeaderboard(name),
			"client_acquisition":        clientAcquisitionMetrics(name),
		}
	}

	return map[string]any{
		"users":        usernames,
		"total_users":  len(usernames),
		"last_updated": today(),
		"user_data":    consolidated,
	}
}
