package mail

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryOutbox collects records in memory for assertions.
type memoryOutbox struct {
	records []OutboxRecord
}

func (o *memoryOutbox) Record(rec OutboxRecord) error {
	o.records = append(o.records, rec)
	return nil
}

// TestNewSender_AppliesDefaults tests configuration defaults
func TestNewSender_AppliesDefaults(t *testing.T) {
	sender := NewSender(Config{}, nil)
	assert.Equal(t, "shayon.gupta@microsoft.com", sender.Recipient())
}

// TestSender_Send_SimulateMode tests the default no-delivery mode
func TestSender_Send_SimulateMode(t *testing.T) {
	outbox := &memoryOutbox{}
	sender := NewSender(Config{Mode: ModeSimulate}, outbox)

	result, err := sender.Send(context.Background(), "Quarterly reminder", "Please complete your training.", "plain", "")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "simulation", result.Mode)
	assert.Equal(t, "Email simulated successfully (test mode)", result.Message)
	assert.Equal(t, "shayon.gupta@microsoft.com", result.Recipient)
	assert.Equal(t, "Quarterly reminder", result.Subject)
	assert.Equal(t, "Please complete your training.", result.ContentPreview)

	require.Len(t, outbox.records, 1)
	assert.Equal(t, "Quarterly reminder", outbox.records[0].Subject)
	assert.Equal(t, ModeSimulate, outbox.records[0].Mode)
}

// TestSender_Send_TruncatesPreview tests the 100-character preview cap
func TestSender_Send_TruncatesPreview(t *testing.T) {
	sender := NewSender(Config{Mode: ModeSimulate}, nil)
	long := strings.Repeat("a", 150)

	result, err := sender.Send(context.Background(), "s", long, "plain", "")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 100)+"...", result.ContentPreview)
	assert.Len(t, result.ContentPreview, 103)
}

// TestSender_Send_NilOutboxIsSafe tests sending without an outbox
func TestSender_Send_NilOutboxIsSafe(t *testing.T) {
	sender := NewSender(Config{Mode: ModeSimulate}, nil)
	result, err := sender.Send(context.Background(), "s", "c", "plain", "")
	require.NoError(t, err)
	assert.True(t, result.Success)
}

// TestBuildMessage_PlainAndHTML tests MIME assembly
func TestBuildMessage_PlainAndHTML(t *testing.T) {
	msg := buildMessage("noreply@compliancecomms.com", "to@example.com", "Sender", "Subject line", "body", "plain")
	assert.Contains(t, msg, "From: Sender <noreply@compliancecomms.com>\r\n")
	assert.Contains(t, msg, "To: to@example.com\r\n")
	assert.Contains(t, msg, "Subject: Subject line\r\n")
	assert.Contains(t, msg, `Content-Type: text/plain; charset="utf-8"`)
	assert.True(t, strings.HasSuffix(msg, "body\r\n"))

	html := buildMessage("a@b.c", "d@e.f", "S", "s", "<p>hi</p>", "HTML")
	assert.Contains(t, html, `Content-Type: text/html; charset="utf-8"`)
}

// TestPreview tests the short-content path
func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short"))
}
