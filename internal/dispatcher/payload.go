package dispatcher

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shettyvedanth21/End-End-Factory-Ops-GA/internal/events"
)

// MessagePayload is the rendered notification content shared by all channels.
type MessagePayload struct {
	Subject string
	Body    string
}

// BuildPayload renders the notification subject and body for a dispatch job.
func BuildPayload(job *events.DispatchJob) MessagePayload {
	return MessagePayload{
		Subject: fmt.Sprintf("Alert: %s triggered on %s", job.Rule.Name, job.DeviceID),
		Body:    buildBody(job),
	}
}

// buildBody builds the plain-text message body.
func buildBody(job *events.DispatchJob) string {
	var sb strings.Builder
	sb.WriteString("Alert Notification\n")
	sb.WriteString("==================\n\n")
	sb.WriteString(fmt.Sprintf("Alert ID: %s\n", job.AlertID))
	sb.WriteString(fmt.Sprintf("Rule: %s\n", job.Rule.Name))
	sb.WriteString(fmt.Sprintf("Device: %s\n", job.DeviceID))
	sb.WriteString(fmt.Sprintf("Factory: %s\n", job.FactoryID))
	sb.WriteString(fmt.Sprintf("Triggered At: %s\n", job.TriggeredAt.UTC().Format("2006-01-02 15:04:05 UTC")))

	if len(job.TriggerValues) > 0 {
		sb.WriteString("\nTrigger Values:\n")
		values, err := json.MarshalIndent(job.TriggerValues, "  ", "  ")
		if err == nil {
			sb.WriteString("  ")
			sb.Write(values)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
