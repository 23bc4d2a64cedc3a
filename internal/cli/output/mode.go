// Package output renders command results for terminals, markdown readers
// and machines.
package output

import (
	"fmt"
	"strings"
)

// OutputMode selects how results are written.
type OutputMode string

// Output modes.
const (
	// ModeAuto picks text on a terminal and markdown otherwise.
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
	ModeYAML     OutputMode = "yaml"
)

// Modes lists every accepted mode.
func Modes() []OutputMode {
	return []OutputMode{ModeAuto, ModeText, ModeMarkdown, ModeJSON, ModeYAML}
}

// Mode converts a configured value to an OutputMode. Unknown and empty
// values become ModeAuto.
func Mode(s string) OutputMode {
	m, err := ParseMode(s)
	if err != nil {
		return ModeAuto
	}
	return m
}

// ParseMode validates s. "md" is accepted for markdown and "" for auto.
func ParseMode(s string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "text":
		return ModeText, nil
	case "markdown", "md":
		return ModeMarkdown, nil
	case "json":
		return ModeJSON, nil
	case "yaml", "yml":
		return ModeYAML, nil
	}
	names := make([]string, 0, len(Modes()))
	for _, m := range Modes() {
		names = append(names, string(m))
	}
	return "", fmt.Errorf("unknown output format %q (valid: %s)", s, strings.Join(names, "|"))
}
