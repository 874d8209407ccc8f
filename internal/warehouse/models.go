// internal/warehouse/models.go
package warehouse

// TableSpec declares an external CSV-backed table.
type TableSpec struct {
	Name    string
	Columns []Column
	// Location is the s3:// prefix the data files live under.
	Location string
	// SkipHeader marks the first line of each file as a header row.
	SkipHeader bool
}

// Column types use the engine's DDL names (string, int, bigint, double,
// date, timestamp, boolean).
type Column struct {
	Name string
	Type string
}

// ResultSet is the unwrapped query output: a header row followed by data
// rows, all as strings the way the engine returns them.
type ResultSet struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`

	QueryExecutionID string `json:"queryExecutionId"`
}
