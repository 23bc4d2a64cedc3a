package output

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Zeta   int      `json:"zeta"`
	Alpha  float64  `json:"alpha"`
	Nested nested   `json:"nested_stats"`
	Empty  struct{} `json:"empty"`
}

type nested struct {
	Mean float64 `json:"mean"`
	Std  any     `json:"std"`
}

func newTest(mode OutputMode, tty bool) (*Renderer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewRendererWithTTY(out, &bytes.Buffer{}, tty, mode), out
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputMode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"TEXT", ModeText, false},
		{"md", ModeMarkdown, false},
		{"json", ModeJSON, false},
		{"yml", ModeYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "auto|text|markdown|json|yaml")
				assert.Equal(t, ModeAuto, Mode(tt.in))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	r, _ := newTest(ModeAuto, true)
	assert.Equal(t, ModeText, r.EffectiveMode())

	r, _ = newTest(ModeAuto, false)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())

	r, _ = newTest(ModeJSON, true)
	assert.Equal(t, ModeJSON, r.EffectiveMode())
}

func TestTree_YAMLKeepsOrder(t *testing.T) {
	r, out := newTest(ModeYAML, false)
	require.NoError(t, r.Tree("Sample", sample{Zeta: 1, Alpha: 2.5, Nested: nested{Mean: 3, Std: nil}}))

	got := out.String()
	assert.Less(t, strings.Index(got, "zeta:"), strings.Index(got, "alpha:"))
	assert.Contains(t, got, "nested_stats:\n  mean: 3\n  std: null\n")
	assert.Contains(t, got, "empty: {}")
}

func TestTree_JSON(t *testing.T) {
	r, out := newTest(ModeJSON, false)
	require.NoError(t, r.Tree("Sample", sample{Zeta: 1}))
	assert.Contains(t, out.String(), `"zeta": 1`)
}

func TestTree_Markdown(t *testing.T) {
	r, out := newTest(ModeMarkdown, false)
	require.NoError(t, r.Tree("Sample Report", sample{Zeta: 1, Alpha: 0.25, Nested: nested{Mean: 4.5}}))

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "# Sample Report\n"))
	assert.Contains(t, got, "## Nested Stats")
	assert.Regexp(t, regexp.MustCompile(`\|\s*alpha\s*\|\s*0\.25\s*\|`), got)
	assert.Regexp(t, regexp.MustCompile(`\|\s*mean\s*\|\s*4\.5\s*\|`), got)
	assert.Regexp(t, regexp.MustCompile(`\|\s*std\s*\|\s*n/a\s*\|`), got)
	assert.Regexp(t, regexp.MustCompile(`\|\s*empty\s*\|\s*-\s*\|`), got)
}

func TestTree_TextHasNoColourOffTerminal(t *testing.T) {
	r, out := newTest(ModeText, false)
	require.NoError(t, r.Tree("Sample", sample{Zeta: 7}))

	got := out.String()
	assert.Contains(t, got, "Sample")
	assert.Contains(t, got, "zeta")
	assert.NotContains(t, got, "\x1b[")
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Avg Service Hours By Gender", Title("avg_service_hours_by_gender"))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Seeds", FormatHeader(2, "Seeds"))
	assert.Equal(t, "**Rows:** 3", FormatKeyValue("Rows", 3))
}

func TestScalarText_Float(t *testing.T) {
	node, err := toNode(map[string]float64{"x": 1.0 / 3})
	require.NoError(t, err)
	assert.Equal(t, "0.3333333333333333", scalarText(node.Content[1]))
}
