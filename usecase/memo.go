package usecase

import (
	"feedriver/domain"
	"feedriver/interface/repository"

	"github.com/pkg/errors"
)

const (
	LastRunMemoKey = "last_run"
)

// MemoInteractor journals run reports: one row per run plus the latest report
// under a memo key.
type MemoInteractor struct {
	memoRepository *repository.MemoRepository
	runRepository  *repository.RunRepository
}

func NewMemoInteractor(memoRepository *repository.MemoRepository, runRepository *repository.RunRepository) *MemoInteractor {
	interactor := &MemoInteractor{
		memoRepository: memoRepository,
		runRepository:  runRepository,
	}
	return interactor
}

func (interactor *MemoInteractor) GetLastRun() (*domain.RunReport, error) {
	memo, err := interactor.memoRepository.Find(LastRunMemoKey)
	if err != nil || memo == nil {
		return nil, err
	}

	var lastRun domain.LastRunMemo
	if err := lastRun.FromJson(memo.Memo); err != nil {
		return nil, errors.Wrap(err, "decoding last run memo")
	}
	return lastRun.Report, nil
}

func (interactor *MemoInteractor) Record(report *domain.RunReport) error {
	if err := interactor.runRepository.Insert(report); err != nil {
		return errors.Wrapf(err, "inserting run %s", report.ID)
	}

	lastRun := domain.LastRunMemo{Report: report}
	if _, err := interactor.memoRepository.Upsert(LastRunMemoKey, &lastRun); err != nil {
		return errors.Wrap(err, "updating last run memo")
	}
	return nil
}
