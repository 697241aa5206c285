package repository

import (
	"database/sql"
	"reflect"

	"github.com/behrang/sqlbatch"
)

type batchCall struct {
	opts     *sql.TxOptions
	commands []sqlbatch.Command
}

// fakeBatchHandler hands its rows, in order, to the readers of the commands it
// receives.
type fakeBatchHandler struct {
	rows  [][]interface{}
	err   error
	calls []batchCall
}

func scanRow(row []interface{}) func(...interface{}) error {
	return func(dest ...interface{}) error {
		for i, d := range dest {
			reflect.ValueOf(d).Elem().Set(reflect.ValueOf(row[i]))
		}
		return nil
	}
}

func (h *fakeBatchHandler) Batch(opts *sql.TxOptions, commands []sqlbatch.Command) ([]interface{}, error) {
	h.calls = append(h.calls, batchCall{opts: opts, commands: commands})
	if h.err != nil {
		return nil, h.err
	}

	results := make([]interface{}, len(commands))
	for i, command := range commands {
		switch {
		case command.ReadOne != nil:
			if len(h.rows) == 0 {
				return nil, sql.ErrNoRows
			}
			result, err := command.ReadOne(scanRow(h.rows[0]))
			h.rows = h.rows[1:]
			if err != nil {
				return nil, err
			}
			results[i] = result
		case command.ReadAll != nil:
			all := command.Init
			for _, row := range h.rows {
				var err error
				all, err = command.ReadAll(all, scanRow(row))
				if err != nil {
					return nil, err
				}
			}
			h.rows = nil
			results[i] = all
		}
	}
	return results, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
