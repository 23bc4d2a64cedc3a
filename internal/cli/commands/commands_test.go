package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/wildstat/internal/analytics"
	"github.com/leapstack-labs/wildstat/internal/cli/config"
	"github.com/leapstack-labs/wildstat/internal/cli/output"
	clitest "github.com/leapstack-labs/wildstat/internal/cli/testutil"
	"github.com/leapstack-labs/wildstat/internal/testutil"
)

func TestSeedOutput(t *testing.T) {
	snap := testutil.SmallPark(t)

	out := seedOutput(snap, "seeds")
	assert.Equal(t, "seeds", out.Source)
	assert.Equal(t, []output.TableInfo{
		{Name: "guiders", Rows: 2},
		{Name: "animals", Rows: 2},
		{Name: "guests", Rows: 2},
		{Name: "animal_guider", Rows: 2},
		{Name: "guest_guider", Rows: 3},
	}, out.Tables)
	assert.Equal(t, 5, out.Summary.TotalTables)
	assert.Equal(t, 11, out.Summary.TotalRows)
	assert.Equal(t, snap.ID(), out.Summary.SnapshotID)
}

func TestNonZero(t *testing.T) {
	assert.Equal(t, -1, nonZero(0))
	assert.Equal(t, 3, nonZero(3))
}

func TestDatabaseTarget(t *testing.T) {
	tests := []struct {
		name string
		db   config.DatabaseConfig
		want string
	}{
		{"file", config.DatabaseConfig{Type: "sqlite", Path: "data/park.db"}, "data/park.db"},
		{"memory", config.DatabaseConfig{Type: "duckdb"}, ":memory:"},
		{"server", config.DatabaseConfig{Type: "postgres", Host: "db", Port: 5432, Database: "park", Password: "secret"}, "db:5432/park"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := &CommandContext{Cfg: &config.Config{Database: tt.db}}
			got := databaseTarget(cc)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "secret")
		})
	}
}

func TestReportCommandCompletesKinds(t *testing.T) {
	cmd := NewReportCommand()
	names, _ := cmd.ValidArgsFunction(cmd, nil, "")
	assert.Equal(t, []string{"basic", "animals", "guests", "guiders", "complex"}, names)
}

// renderCases covers every mode. Auto without a terminal falls back to
// markdown; text pretends to be a terminal.
var renderCases = []struct {
	name  string
	mode  output.OutputMode
	isTTY bool
}{
	{"json", output.ModeJSON, false},
	{"yaml", output.ModeYAML, false},
	{"markdown", output.ModeMarkdown, false},
	{"auto piped", output.ModeAuto, false},
	{"text", output.ModeText, true},
}

func TestRenderSeed(t *testing.T) {
	out := seedOutput(testutil.SmallPark(t), "seeds")
	out.Summary.ExportedTo = "seeds"

	want := map[output.OutputMode]string{
		output.ModeJSON:     `"total_rows": 11`,
		output.ModeYAML:     "total_rows: 11",
		output.ModeMarkdown: "**Total Rows:** 11",
		output.ModeText:     "Exported to: seeds",
	}

	for _, tc := range renderCases {
		t.Run(tc.name, func(t *testing.T) {
			r := clitest.NewCapturedRenderer(tc.mode, tc.isTTY)
			require.NoError(t, renderSeed(r.Renderer, out))

			clitest.AssertRendered(t, r)
			assert.Contains(t, r.Stdout(), want[r.EffectiveMode()])
			assert.Contains(t, r.Stdout(), "guest_guider")
			assert.Empty(t, r.Stderr())

			if r.EffectiveMode() == output.ModeText {
				assert.Contains(t, r.Stdout(), r.Styles().StatusSuccess.String())
			} else {
				assert.NotContains(t, r.Stdout(), "✓")
			}
		})
	}
}

func TestRenderMigrate(t *testing.T) {
	out := output.MigrateOutput{Database: "sqlite", Target: "data/park.db", Status: "up to date"}

	for _, tc := range renderCases {
		t.Run(tc.name, func(t *testing.T) {
			r := clitest.NewCapturedRenderer(tc.mode, tc.isTTY)
			require.NoError(t, renderMigrate(r.Renderer, out))

			clitest.AssertRendered(t, r)
			assert.Contains(t, r.Stdout(), "data/park.db")
			if r.EffectiveMode() == output.ModeMarkdown {
				assert.Contains(t, r.Stdout(), "# Migrations")
				assert.Contains(t, r.Stdout(), "**Status:** up to date")
			}
		})
	}
}

func TestRenderCombinedReport(t *testing.T) {
	a := analytics.New(testutil.SmallPark(t), testutil.NewTestLogger(t))
	combined, err := a.All(t.Context())
	require.NoError(t, err)

	for _, tc := range renderCases {
		t.Run(tc.name, func(t *testing.T) {
			r := clitest.NewCapturedRenderer(tc.mode, tc.isTTY)
			require.NoError(t, r.Tree("Wildlife Analytics", combined))

			clitest.AssertRendered(t, r)

			switch r.EffectiveMode() {
			case output.ModeJSON, output.ModeYAML:
				assert.Contains(t, r.Stdout(), "guider_workload")
			case output.ModeMarkdown:
				assert.Contains(t, r.Stdout(), "# Wildlife Analytics")
				assert.Contains(t, r.Stdout(), "## Complex Analysis")
				assert.Contains(t, r.Stdout(), "### Guider Workload")
				assert.NotContains(t, r.Stdout(), "│", "markdown uses pipe tables")
			case output.ModeText:
				assert.Contains(t, r.Stdout(), "Guider Workload")
				assert.Contains(t, r.Stdout(), "│", "text uses box-drawn tables")
				assert.NotContains(t, r.Stdout(), "| Key | Value |")
			}
		})
	}
}
