package usecase

import (
	"database/sql"
	"math/big"
	"strings"
	"testing"
	"time"

	"feedriver/domain"
	"feedriver/interface/repository"

	"github.com/behrang/sqlbatch"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// memoryJournal keeps memos in a map and counts run inserts.
type memoryJournal struct {
	memos      map[string]string
	runInserts int
	err        error
}

func (j *memoryJournal) Batch(opts *sql.TxOptions, commands []sqlbatch.Command) ([]interface{}, error) {
	if j.err != nil {
		return nil, j.err
	}
	results := make([]interface{}, len(commands))
	for i, command := range commands {
		switch {
		case strings.Contains(command.Query, "insert into runs"):
			j.runInserts++
		case strings.Contains(command.Query, "insert into memos"):
			j.memos[command.Args[0].(string)] = command.Args[1].(string)
		case command.ReadOne != nil:
			memo, exist := j.memos[command.Args[0].(string)]
			if !exist {
				return nil, sql.ErrNoRows
			}
			key := command.Args[0].(string)
			result, err := command.ReadOne(func(dest ...interface{}) error {
				*dest[0].(*string) = key
				*dest[1].(*[]byte) = []byte(memo)
				return nil
			})
			if err != nil {
				return nil, err
			}
			results[i] = result
		}
	}
	return results, nil
}

func newMemoryMemoInteractor(journal *memoryJournal) *MemoInteractor {
	return NewMemoInteractor(repository.NewMemoRepository(journal), repository.NewRunRepository(journal))
}

func TestMemoInteractor(t *testing.T) {
	t.Parallel()

	t.Run("records the run and the last run memo", func(t *testing.T) {
		t.Parallel()

		journal := &memoryJournal{memos: make(map[string]string)}
		interactor := newMemoryMemoInteractor(journal)

		report := domain.NewRunReport(time.Unix(1_700_000_000, 0).UTC())
		report.Forwarded = big.NewInt(49_995_000)
		report.Finish(domain.StageDone, domain.Proceed(), time.Unix(1_700_000_010, 0).UTC())
		require.NoError(t, interactor.Record(report))
		require.Equal(t, 1, journal.runInserts)

		last, err := interactor.GetLastRun()
		require.NoError(t, err)
		require.Equal(t, report.ID, last.ID)
		require.Equal(t, "49995000", last.Forwarded.String())
		require.Equal(t, domain.StageDone, last.Stage)
	})

	t.Run("journal errors are wrapped", func(t *testing.T) {
		t.Parallel()

		journal := &memoryJournal{memos: make(map[string]string), err: errors.New("connection refused")}
		err := newMemoryMemoInteractor(journal).Record(domain.NewRunReport(time.Now()))
		require.ErrorContains(t, err, "inserting run")
		require.ErrorContains(t, err, "connection refused")
	})
}
