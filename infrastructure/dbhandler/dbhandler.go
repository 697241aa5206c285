package dbhandler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/behrang/sqlbatch"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const (
	serializationFailure = "40001"
	maxRetries           = 5
)

// DBHandler runs batches of journal commands in one transaction each.
type DBHandler struct {
	DB     *sql.DB
	Logger *slog.Logger
}

// Open connects to Postgres with the pool sized for a single driver process.
func Open(uri string, logger *slog.Logger) (*DBHandler, error) {
	db, err := sql.Open("postgres", uri)
	if err != nil {
		return nil, errors.Wrap(err, "opening journal database")
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(1 * time.Minute)
	db.SetConnMaxLifetime(4 * time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "connecting to journal database")
	}

	return &DBHandler{DB: db, Logger: logger}, nil
}

// Batch creates a transaction and executes the batch of commands in that transaction.
// A serialization failure is retried a few times.
func (handler DBHandler) Batch(opts *sql.TxOptions, commands []sqlbatch.Command) ([]interface{}, error) {

	for attempt := 1; ; attempt++ {
		results, err := handler.tryBatch(opts, commands)
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == serializationFailure && attempt < maxRetries {
			handler.Logger.Warn("dbhandler: retryable postgres error", "attempt", attempt, "error", err)
			continue
		}
		return results, err
	}
}

func (handler DBHandler) tryBatch(opts *sql.TxOptions, commands []sqlbatch.Command) (results []interface{}, err error) {

	results = make([]interface{}, len(commands))

	tx, err := handler.DB.BeginTx(context.Background(), opts)
	if err != nil {
		return
	}
	defer tx.Rollback()

	results, err = sqlbatch.Batch(tx, commands)

	if err == nil {
		err = tx.Commit()
	}

	return
}

func (handler DBHandler) Close() error {
	return handler.DB.Close()
}
