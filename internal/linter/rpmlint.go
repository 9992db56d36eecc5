package linter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yeager/rpmcheck/internal/models"
)

// DefaultBinary is the external linter invoked when no override is
// configured.
const DefaultBinary = "rpmlint"

var (
	// rpmlint output: "package: S: tag detail"
	findingRe = regexp.MustCompile(`^(.+?):\s*([A-Za-z]):\s*(\S+)\s*(.*)$`)

	// Simpler "tag: detail" form some versions emit.
	simpleRe = regexp.MustCompile(`^(\S+):\s*(.*)$`)
)

// Adapter invokes the external linter as an isolated child process.
// Its absence degrades gracefully: the engine turns the returned
// AdapterUnavailableError into a single info finding.
type Adapter struct {
	binary  string
	timeout time.Duration

	lookupOnce sync.Once
	resolved   string
	lookupErr  error
}

// New creates an adapter. An empty binary uses the default; timeout
// bounds the subprocess.
func New(binary string, timeout time.Duration) *Adapter {
	if binary == "" {
		binary = DefaultBinary
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Adapter{binary: binary, timeout: timeout}
}

// lookup resolves the external binary once per process lifetime.
func (a *Adapter) lookup() (string, error) {
	a.lookupOnce.Do(func() {
		a.resolved, a.lookupErr = exec.LookPath(a.binary)
	})
	return a.resolved, a.lookupErr
}

// Run executes the external linter against the target path and maps
// its diagnostics into findings. The linter exits non-zero when it
// finds issues, so a non-zero exit with parseable output is a normal
// result, not a failure.
func (a *Adapter) Run(ctx context.Context, target string) ([]models.Finding, error) {
	bin, err := a.lookup()
	if err != nil {
		return nil, &models.AdapterUnavailableError{
			Reason: fmt.Sprintf("%s is not installed", a.binary),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, target)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, &models.AdapterUnavailableError{
			Reason: fmt.Sprintf("%s timed out after %s", a.binary, a.timeout),
		}
	}

	// Diagnostics come on stdout only; stderr carries interpreter
	// noise (tracebacks, deprecation chatter) that must not turn into
	// findings.
	findings := ParseOutput(stdout.String())
	if len(findings) == 0 && runErr != nil {
		logrus.Debugf("%s produced no parseable output: %v", bin, runErr)
		reason := fmt.Sprintf("%s failed: %v", a.binary, runErr)
		if line := firstLine(stderr.String()); line != "" {
			reason += ": " + line
		}
		return nil, &models.AdapterUnavailableError{Reason: reason}
	}
	return findings, nil
}

// firstLine returns the first non-blank line of s.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// ParseOutput maps the external linter's line-oriented diagnostics into
// findings. Unparseable lines are skipped; the format is externally
// owned and incompatibilities must never fail the run.
func ParseOutput(output string) []models.Finding {
	var findings []models.Finding
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "---") || strings.HasPrefix(line, " ") || strings.HasPrefix(line, "rpmlint:") {
			continue
		}
		if isSummaryLine(line) {
			continue
		}

		if m := findingRe.FindStringSubmatch(line); m != nil {
			tag, detail := m[3], strings.TrimSpace(m[4])
			findings = append(findings, newFinding(tag, detail, mapSeverity(m[2])))
			continue
		}
		if m := simpleRe.FindStringSubmatch(line); m != nil {
			findings = append(findings, newFinding(strings.TrimSuffix(m[1], ":"), strings.TrimSpace(m[2]), models.SeverityWarning))
		}
	}
	return findings
}

func newFinding(tag, detail string, severity models.Severity) models.Finding {
	message := detail
	if message == "" {
		message = tag
	}
	return models.Finding{
		RuleID:     "rpmlint:" + tag,
		Category:   models.CategoryExternalLint,
		Severity:   severity,
		Message:    message,
		Suggestion: fmt.Sprintf("Run 'rpmlint -e %s' for an explanation of this check.", tag),
	}
}

// mapSeverity converts the tool's severity markers. E is an error, W a
// warning, and the informational markers (I, N for note, P for
// pedantic) map to info. Unknown markers default to warning.
func mapSeverity(marker string) models.Severity {
	switch strings.ToUpper(marker) {
	case "E":
		return models.SeverityError
	case "W":
		return models.SeverityWarning
	case "I", "N", "P":
		return models.SeverityInfo
	default:
		return models.SeverityWarning
	}
}

// isSummaryLine matches the trailing "N packages and M specfiles
// checked" line.
func isSummaryLine(line string) bool {
	return strings.Contains(line, "packages and") && strings.Contains(line, "checked")
}

// IsUnavailable reports whether err is the adapter's unavailability
// signal.
func IsUnavailable(err error) bool {
	var target *models.AdapterUnavailableError
	return errors.As(err, &target)
}
