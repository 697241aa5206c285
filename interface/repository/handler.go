package repository

import (
	"database/sql"

	"github.com/behrang/sqlbatch"
)

var (
	// BatchOptionNormal is used for journal writes.
	BatchOptionNormal = sql.TxOptions{
		ReadOnly:  false,
		Isolation: sql.LevelReadCommitted,
	}

	// BatchOptionNormalReadOnly is used for run history and memo lookups.
	BatchOptionNormalReadOnly = sql.TxOptions{
		ReadOnly:  true,
		Isolation: sql.LevelReadCommitted,
	}
)

// BatchHandler runs the journal's SQL commands in a single transaction and
// returns one result per command.
type BatchHandler interface {
	Batch(opts *sql.TxOptions, commands []sqlbatch.Command) ([]interface{}, error)
}
