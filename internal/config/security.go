package config

import (
	"fmt"
	"regexp"
	"strings"
)

// SensitivePattern represents a pattern that might indicate sensitive data
type SensitivePattern struct {
	Name        string
	Pattern     *regexp.Regexp
	Description string
}

var sensitivePatterns = []SensitivePattern{
	{
		Name:        "GitHub Token",
		Pattern:     regexp.MustCompile(`\b(gh[pousr]_[A-Za-z0-9]{36,}|github_pat_[A-Za-z0-9_]{22,})`),
		Description: "GitHub token detected",
	},
	{
		Name:        "Token",
		Pattern:     regexp.MustCompile(`(?i)\b(token|auth[_-]?token|access[_-]?token|bearer)\s*=\s*['"][^'"]{8,}['"]`),
		Description: "Hardcoded registry token detected",
	},
	{
		Name:        "Credentials in URL",
		Pattern:     regexp.MustCompile(`(?i)https?://[^/\s'"]+:[^@/\s'"]+@`),
		Description: "Credentials embedded in a URL",
	},
}

// SensitiveDataFinding represents a detected sensitive data instance
type SensitiveDataFinding struct {
	PatternName string
	Description string
	Line        int
	Preview     string // redacted
}

// DetectSensitiveData scans config source for credentials. Each line is
// reported once, for the first pattern it matches.
func DetectSensitiveData(content string) []SensitiveDataFinding {
	var findings []SensitiveDataFinding

	for lineNum, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "--") {
			continue
		}
		for _, pattern := range sensitivePatterns {
			if pattern.Pattern.MatchString(line) {
				findings = append(findings, SensitiveDataFinding{
					PatternName: pattern.Name,
					Description: pattern.Description,
					Line:        lineNum + 1,
					Preview:     redactSensitiveValue(trimmed),
				})
				break
			}
		}
	}

	return findings
}

// redactSensitiveValue keeps the key of an assignment and hides the value.
func redactSensitiveValue(line string) string {
	eqIdx := strings.Index(line, "=")
	if eqIdx == -1 {
		if len(line) > 12 {
			return line[:12] + "... [REDACTED]"
		}
		return "[REDACTED]"
	}
	return strings.TrimSpace(line[:eqIdx]) + " = [REDACTED]"
}

// FormatSensitiveDataWarning formats findings into a user-facing warning.
func FormatSensitiveDataWarning(findings []SensitiveDataFinding) string {
	if len(findings) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("WARNING: credentials found in configuration\n\n")

	for i, finding := range findings {
		fmt.Fprintf(&sb, "%d. %s (line %d)\n", i+1, finding.Description, finding.Line)
		fmt.Fprintf(&sb, "   %s\n", finding.Preview)
	}

	sb.WriteString("\nKeep the token out of the config file:\n")
	fmt.Fprintf(&sb, "  export %s=<token>\n", EnvGitHubToken)
	fmt.Fprintf(&sb, "  or export %s=<token>\n", envKey(KeyRegistryToken))

	return sb.String()
}
