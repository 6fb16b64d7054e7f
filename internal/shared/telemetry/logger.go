package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

var out io.Writer = os.Stdout

// SetOutput redirects log output and returns the previous writer. Tests use it
// to capture log lines.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	write("info", msg, fields)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	write("error", msg, fields)
}

// Security writes a warn-level log line tagged as security relevant.
// Used for authorization denials and token anomalies.
func Security(msg string, fields map[string]any) {
	tagged := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		tagged[k] = v
	}
	tagged["security"] = true
	write("warn", msg, tagged)
}

// AuthzDenied logs an ownership check that failed: the caller addressed a
// resource that belongs to another user.
func AuthzDenied(resource string, resourceID, userID, ownerID int64) {
	Security("security.authz_denied", map[string]any{
		"resource":    resource,
		"resource_id": resourceID,
		"user_id":     userID,
		"owner_id":    ownerID,
	})
}

func write(level, msg string, fields map[string]any) {
	entry := make(map[string]any, len(fields)+3)
	entry["ts"] = time.Now().UTC().Format(time.RFC3339)
	entry["level"] = level
	entry["msg"] = msg
	for k, v := range fields {
		entry[k] = v
	}
	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(out, `{"ts":"%s","level":"error","msg":"logger marshal failed","err":%q}`+"\n", time.Now().UTC().Format(time.RFC3339), err.Error())
		return
	}
	fmt.Fprintln(out, string(data))
}
