package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/wildstat/internal/cli/output"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the park schema",
		Long: `Apply pending schema migrations to the configured database.

Migrations are also applied automatically before report, seed and serve,
so this command is mainly useful when provisioning a database ahead of
time.`,
		Example: `  # Migrate the default SQLite database
  wildstat migrate

  # Migrate a Postgres database from the prod environment
  wildstat migrate --env prod`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd)
		},
	}
}

func runMigrate(cmd *cobra.Command) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return renderMigrate(cc.Renderer, output.MigrateOutput{
		Database: cc.Cfg.Database.Type,
		Target:   databaseTarget(cc),
		Status:   "up to date",
	})
}

func renderMigrate(r *output.Renderer, out output.MigrateOutput) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeYAML:
		return r.YAML(out)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Migrations"))
		r.Println("")
		r.Println(output.FormatKeyValue("Database", out.Database))
		r.Println(output.FormatKeyValue("Target", out.Target))
		r.Println(output.FormatKeyValue("Status", out.Status))
	default:
		r.Success(fmt.Sprintf("%s schema is %s", out.Database, out.Status))
		r.Muted("Target: " + out.Target)
	}
	return nil
}

// databaseTarget describes where the database lives without credentials.
func databaseTarget(cc *CommandContext) string {
	db := cc.Cfg.Database
	if db.Host == "" {
		if db.Path == "" {
			return ":memory:"
		}
		return db.Path
	}
	return fmt.Sprintf("%s:%d/%s", db.Host, db.Port, db.Database)
}
