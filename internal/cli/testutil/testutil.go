// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/wildstat/internal/cli/output"
	"github.com/leapstack-labs/wildstat/internal/store"
	parktest "github.com/leapstack-labs/wildstat/internal/testutil"
)

// SetupTestPark creates a temporary park directory holding the small park
// as CSV seeds and a wildstat.yaml pointing at a sqlite database inside it.
// It returns the directory and the config file path.
func SetupTestPark(t *testing.T) (dir, cfgFile string) {
	t.Helper()

	dir = t.TempDir()
	if err := store.WriteSeeds(filepath.Join(dir, "seeds"), parktest.SmallPark(t)); err != nil {
		t.Fatalf("failed to write seeds: %v", err)
	}

	cfg := `database:
  type: sqlite
  path: data/park.db
seeds_dir: seeds
output: json
`
	cfgFile = filepath.Join(dir, "wildstat.yaml")
	if err := os.WriteFile(cfgFile, []byte(cfg), 0o600); err != nil {
		t.Fatalf("failed to create wildstat.yaml: %v", err)
	}
	return dir, cfgFile
}

// CapturedRenderer is an output.Renderer whose streams are kept in memory.
type CapturedRenderer struct {
	*output.Renderer
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// NewCapturedRenderer creates a renderer in mode that believes it writes to
// a terminal when isTTY is set.
func NewCapturedRenderer(mode output.OutputMode, isTTY bool) *CapturedRenderer {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &CapturedRenderer{
		Renderer: output.NewRendererWithTTY(stdout, stderr, isTTY, mode),
		stdout:   stdout,
		stderr:   stderr,
	}
}

// Stdout returns everything written to standard output so far.
func (c *CapturedRenderer) Stdout() string { return c.stdout.String() }

// Stderr returns everything written to the diagnostics stream so far.
func (c *CapturedRenderer) Stderr() string { return c.stderr.String() }

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI fails when s carries terminal escape sequences.
func AssertNoANSI(t testing.TB, s string) {
	t.Helper()
	assert.NotRegexp(t, ansiPattern, s, "output contains ANSI escape codes")
}

// AssertValidMarkdown checks headings have text, code fences are closed
// and table rows are closed on both sides.
func AssertValidMarkdown(t testing.TB, md string) {
	t.Helper()

	assert.Zero(t, strings.Count(md, "```")%2, "unbalanced code fences")
	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"):
			assert.NotEmpty(t, strings.TrimLeft(trimmed, "# "), "empty heading at line %d", i+1)
		case strings.HasPrefix(trimmed, "|"):
			assert.True(t, strings.HasSuffix(trimmed, "|"), "open table row at line %d: %q", i+1, line)
		}
	}
}

// AssertRendered checks that the captured standard output has the shape of
// the renderer's effective mode.
func AssertRendered(t testing.TB, c *CapturedRenderer) {
	t.Helper()

	out := c.Stdout()
	require.NotEmpty(t, out, "nothing rendered")
	switch c.EffectiveMode() {
	case output.ModeJSON:
		AssertNoANSI(t, out)
		assert.True(t, json.Valid([]byte(out)), "invalid JSON: %s", out)
	case output.ModeYAML:
		AssertNoANSI(t, out)
		var v any
		assert.NoError(t, yaml.Unmarshal([]byte(out), &v))
	case output.ModeMarkdown:
		AssertNoANSI(t, out)
		AssertValidMarkdown(t, out)
	}
}
