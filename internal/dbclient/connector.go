package dbclient

import (
	"context"
	"fmt"

	"boardkit/internal/domain"
)

// ResultTable is a bounded batch of rows fetched for a datasource widget.
// The datasource module projects this into its public contract payload.
type ResultTable struct {
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
	RowCount int      `json:"rowCount"` // rows fetched (bounded by the query limit)
	HasMore  bool     `json:"hasMore"`  // result was truncated at the limit
}

// Connector abstracts interaction with an external database.
type Connector interface {
	// TestConnection verifies connectivity.
	TestConnection(ctx context.Context) error

	// Query runs a read query and returns up to limit rows.
	Query(ctx context.Context, query string, limit int) (*ResultTable, error)

	// ListTables returns the table (or collection) names, for the widget's
	// source picker.
	ListTables(ctx context.Context) ([]string, error)

	// Close closes the connection.
	Close() error
}

// NewConnector creates a Connector for the given datasource config.
// The password is supplied separately; it never lives in the document.
func NewConnector(cfg domain.DataSourceConfig, password string) (Connector, error) {
	switch cfg.Driver {
	case domain.DatabaseDriverSQLite:
		return newSQLConnector("sqlite", cfg.Host)
	case domain.DatabaseDriverMySQL:
		return newSQLConnector("mysql", buildMySQLDSN(cfg, password))
	case domain.DatabaseDriverPostgres:
		return newSQLConnector("postgres", buildPostgresDSN(cfg, password))
	case domain.DatabaseDriverMongoDB:
		return newMongoConnector(cfg, password)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}
}
