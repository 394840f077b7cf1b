// Package notify delivers best-effort repair notifications via a
// user-configured shell command.
package notify

import (
	"log"
	"os/exec"
	"strings"
)

// Config controls how notifications are delivered.
type Config struct {
	Command string // shell command template, e.g. "notify-send 'Crewline' '{{.Subject}}'"
}

// Event is one notification payload.
type Event struct {
	Subject string
	Body    string
}

// Send delivers a notification. Best-effort: errors are logged, not returned.
func Send(ev Event, cfg Config) {
	if cfg.Command == "" {
		return
	}
	cmdStr := templateEvent(cfg.Command, ev)
	cmd := exec.Command("sh", "-c", cmdStr)
	if out, err := cmd.CombinedOutput(); err != nil {
		log.Printf("notify: command failed: %v: %s", err, strings.TrimSpace(string(out)))
	}
}

// templateEvent substitutes event fields into the command template.
func templateEvent(tmpl string, ev Event) string {
	s := strings.ReplaceAll(tmpl, "{{.Subject}}", shellEscape(ev.Subject))
	s = strings.ReplaceAll(s, "{{.Body}}", shellEscape(ev.Body))
	return s
}

// shellEscape neutralizes single quotes; templates are expected to wrap
// substitutions in single quotes.
func shellEscape(s string) string {
	return strings.ReplaceAll(s, "'", "'\\''")
}
