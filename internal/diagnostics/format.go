package diagnostics

import "fmt"

// FormatDiagnostic renders "[<severity>] <module>/<stage>: <message>",
// appending " cid:<n>" iff the event's correlation id is non-zero.
func FormatDiagnostic(e DiagnosticEvent) string {
	s := fmt.Sprintf("[%s] %s/%s: %s", e.Severity, e.Module, e.Stage, e.Message)
	if e.CorrelationID != 0 {
		s += fmt.Sprintf(" cid:%d", e.CorrelationID)
	}
	return s
}
