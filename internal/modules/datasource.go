package modules

import (
	"context"
	"fmt"

	"boardkit/internal/dbclient"
	"boardkit/internal/domain"
)

// ModuleDataSource runs a read query against an external database and shares
// the result table. The connection is opened on demand per refresh; the
// password is looked up outside the document and never persisted.
const ModuleDataSource = "datasource"

// ContractTable is the public payload contract for tabular query results.
const ContractTable = "boardkit.table.v1"

type DataSourceState struct {
	Config domain.DataSourceConfig `json:"config"`
	Query  string                  `json:"query"`
	Limit  int                     `json:"limit"`

	// LastResult caches the most recent refresh so the widget renders
	// without a live connection. It is also what gets projected.
	LastResult *dbclient.ResultTable `json:"lastResult,omitempty"`
}

type PublicTable struct {
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
	RowCount int      `json:"rowCount"`
	HasMore  bool     `json:"hasMore"`
}

// RefreshDataSource runs the state's query and returns the state with
// LastResult updated. The caller persists the new state and republishes.
func RefreshDataSource(ctx context.Context, state DataSourceState, password string) (DataSourceState, error) {
	if state.Query == "" {
		return state, fmt.Errorf("datasource has no query")
	}
	conn, err := dbclient.NewConnector(state.Config, password)
	if err != nil {
		return state, err
	}
	defer conn.Close()

	result, err := conn.Query(ctx, state.Query, state.Limit)
	if err != nil {
		return state, err
	}
	state.LastResult = result
	return state, nil
}

func dataSourceDefinition() moduleEntry {
	def := baseDefinition(ModuleDataSource, "Data Source", 420, 280)
	jsonState(&def, func() DataSourceState {
		return DataSourceState{Limit: 100}
	})
	return moduleEntry{
		Definition: def,
		Contracts: []domain.DataContract{{
			ID:          ContractTable,
			Name:        "Result Table",
			Description: "Columns and rows of the most recent query result",
			Version:     "1.0.0",
			ProviderID:  ModuleDataSource,
		}},
		Project: func(state any) any {
			s, ok := state.(DataSourceState)
			if !ok || s.LastResult == nil {
				return PublicTable{}
			}
			return PublicTable{
				Columns:  s.LastResult.Columns,
				Rows:     s.LastResult.Rows,
				RowCount: s.LastResult.RowCount,
				HasMore:  s.LastResult.HasMore,
			}
		},
	}
}
