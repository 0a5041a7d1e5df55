package utils

import (
	"log"
	"strings"
)

// LogEvent writes a single structured line tagged with the owning module,
// the action taken, and the request id carried from the gin middleware.
// Keep messages short; amounts and statuses are fine, payloads are not.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, req, message)
}
