package mail

import (
	"context"
	"fmt"
	"strings"
)

type notificationTemplate struct {
	subject string
	body    string
}

var notificationTemplates = map[string]notificationTemplate{
	"policy_update": {
		subject: "Compliance Policy Update Notification",
		body: `Dear Shayon,

A compliance policy has been updated that requires your attention.

Policy Update Details:
%s

Please review the updated policy and ensure your team is aware of any changes.

Best regards,
Compliance Communications System`,
	},
	"training_due": {
		subject: "Compliance Training Due Notification",
		body: `Dear Shayon,

This is a reminder about upcoming compliance training requirements.

Training Details:
%s

Please ensure completion by the specified deadline to maintain compliance status.

Best regards,
Compliance Communications System`,
	},
	"audit_alert": {
		subject: "Audit Alert Notification",
		body: `Dear Shayon,

An audit-related item requires your immediate attention.

Audit Details:
%s

Please review and take appropriate action as soon as possible.

Best regards,
Compliance Communications System`,
	},
	"general": {
		subject: "Compliance Notification",
		body: `Dear Shayon,

A compliance-related notification has been generated.

Details:
%s

Please review and take any necessary action.

Best regards,
Compliance Communications System`,
	},
}

// SendComplianceNotification delivers a templated notification email.
// Unrecognized notification types fall back to the general template;
// high and urgent priorities are called out in the subject line.
func (s *Sender) SendComplianceNotification(ctx context.Context, notificationType, details, priority string) (SendResult, error) {
	tmpl, ok := notificationTemplates[notificationType]
	if !ok {
		tmpl = notificationTemplates["general"]
	}

	subject := tmpl.subject
	switch strings.ToLower(priority) {
	case "high":
		subject = "HIGH PRIORITY - " + subject
	case "urgent":
		subject = "URGENT - " + subject
	}

	content := fmt.Sprintf(tmpl.body, details)
	return s.send(ctx, subject, content, "plain", DefaultSenderName, notificationType, priority)
}
