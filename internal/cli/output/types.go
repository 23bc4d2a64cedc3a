package output

// SeedOutput is the JSON result of the seed command.
type SeedOutput struct {
	Source  string      `json:"source"`
	Tables  []TableInfo `json:"tables"`
	Summary SeedSummary `json:"summary"`
}

// TableInfo describes one table written by the seed command.
type TableInfo struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

// SeedSummary totals a seed run.
type SeedSummary struct {
	TotalTables int    `json:"total_tables"`
	TotalRows   int    `json:"total_rows"`
	SnapshotID  string `json:"snapshot_id"`
	ExportedTo  string `json:"exported_to,omitempty"`
}

// MigrateOutput is the JSON result of the migrate command.
type MigrateOutput struct {
	Database string `json:"database"`
	Target   string `json:"target"`
	Status   string `json:"status"`
}
