package domain

// DatabaseDriver represents the type of database engine a datasource
// widget can query.
type DatabaseDriver string

const (
	DatabaseDriverMySQL    DatabaseDriver = "mysql"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
	DatabaseDriverMongoDB  DatabaseDriver = "mongodb"
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
)

// DataSourceConfig holds the connection settings of a datasource widget.
// It lives inside the widget's module state blob; the password is kept
// out of the document and supplied by the caller at query time.
type DataSourceConfig struct {
	Driver   DatabaseDriver `json:"driver"`
	Host     string         `json:"host"`     // hostname or file path (sqlite)
	Port     int            `json:"port"`     // 0 for sqlite
	Database string         `json:"database"` // db name, empty for sqlite
	Username string         `json:"username"`
	SSLMode  string         `json:"sslMode"`
}
