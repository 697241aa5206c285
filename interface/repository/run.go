package repository

import (
	"database/sql"
	"encoding/json"
	"math/big"

	"feedriver/domain"

	"github.com/behrang/sqlbatch"
	"github.com/gagliardetto/solana-go"
)

const (
	sqlRunInsert = `
	insert into runs (
			id, start_time, finish_time, stage, outcome, skip_reason, error,
			pending_fees, collected, forwarded, holder_count, per_holder_share, distributed, signatures
		)
		values (
			$1, $2, $3, $4, $5, $6, $7,
			$8::numeric, $9::numeric, $10::numeric, $11, $12::numeric, $13::numeric, $14::jsonb
		)
	on conflict (id) do nothing
`

	sqlRunFindRecent = `
	select
		id, start_time, finish_time, stage, outcome, skip_reason, error,
		pending_fees, collected, forwarded, holder_count, per_holder_share, distributed, signatures
	from runs
	order by start_time desc
	limit $1
`
)

type RunRepository struct {
	batchHandler BatchHandler
}

func NewRunRepository(db BatchHandler) *RunRepository {
	return &RunRepository{batchHandler: db}
}

func numericArg(x *big.Int) interface{} {
	if x == nil {
		return nil
	}
	return x.String()
}

func scanNumeric(s sql.NullString) *big.Int {
	if !s.Valid {
		return nil
	}
	x, ok := new(big.Int).SetString(s.String, 10)
	if !ok {
		return nil
	}
	return x
}

func scanRun(scan func(...interface{}) error) (domain.RunReport, error) {
	r := domain.RunReport{}
	var skipReason, errorText sql.NullString
	var pending, collected, forwarded, share, distributed sql.NullString
	var signaturesJson []byte
	err := scan(
		&r.ID, &r.StartTime, &r.FinishTime, &r.Stage, &r.Outcome, &skipReason, &errorText,
		&pending, &collected, &forwarded, &r.HolderCount, &share, &distributed, &signaturesJson,
	)
	if err != nil {
		return r, err
	}

	r.SkipReason = domain.SkipReason(skipReason.String)
	r.Error = errorText.String
	r.PendingFees = scanNumeric(pending)
	r.Collected = scanNumeric(collected)
	r.Forwarded = scanNumeric(forwarded)
	r.PerHolderShare = scanNumeric(share)
	r.Distributed = scanNumeric(distributed)

	r.Signatures = make(map[domain.Stage]solana.Signature)
	err = json.Unmarshal(signaturesJson, &r.Signatures)
	return r, err
}

func readAllRuns(all interface{}, scan func(...interface{}) error) (interface{}, error) {
	r, err := scanRun(scan)

	list := all.([]domain.RunReport)
	list = append(list, r)
	return list, err
}

func (repo *RunRepository) Insert(report *domain.RunReport) error {

	signaturesJson, err := json.Marshal(report.Signatures)
	if err != nil {
		return err
	}

	_, err = repo.batchHandler.Batch(&BatchOptionNormal, []sqlbatch.Command{
		{
			Query: sqlRunInsert,
			Args: []interface{}{
				report.ID, report.StartTime, report.FinishTime, string(report.Stage), string(report.Outcome),
				string(report.SkipReason), report.Error,
				numericArg(report.PendingFees), numericArg(report.Collected), numericArg(report.Forwarded),
				report.HolderCount, numericArg(report.PerHolderShare), numericArg(report.Distributed),
				string(signaturesJson),
			},
		},
	})
	return err
}

func (repo *RunRepository) FindRecent(limit int) ([]domain.RunReport, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlRunFindRecent,
			Args:    []interface{}{limit},
			Init:    make([]domain.RunReport, 0),
			ReadAll: readAllRuns,
		},
	})
	if err != nil || len(results) == 0 {
		return nil, err
	}
	result, _ := results[0].([]domain.RunReport)
	return result, nil
}
