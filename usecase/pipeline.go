package usecase

import (
	"context"
	"log/slog"
	"time"

	"feedriver/domain"

	"github.com/gagliardetto/solana-go"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
)

// RunObserver receives stage timings and finished runs, e.g. for metrics.
type RunObserver interface {
	ObserveStage(stage domain.Stage, elapsed time.Duration)
	ObserveRun(report *domain.RunReport)
}

// RunJournal persists finished runs.
type RunJournal interface {
	Record(report *domain.RunReport) error
}

type PipelineConfig struct {
	Creator   solana.PrivateKey
	PoolOwner solana.PrivateKey
	Clock     clockwork.Clock
	Logger    *slog.Logger

	// Optional.
	Observer RunObserver
	Journal  RunJournal
}

func (cfg *PipelineConfig) Validate() error {
	if len(cfg.Creator) == 0 {
		return errors.New("creator key is required")
	}
	if len(cfg.PoolOwner) == 0 {
		return errors.New("pool owner key is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return nil
}

type PipelineInteractor struct {
	cfg PipelineConfig

	feeInteractor        *FeeInteractor
	claimInteractor      *ClaimInteractor
	normalizeInteractor  *NormalizeInteractor
	forwardInteractor    *ForwardInteractor
	distributeInteractor *DistributeInteractor
}

func NewPipelineInteractor(cfg PipelineConfig,
	feeInteractor *FeeInteractor,
	claimInteractor *ClaimInteractor,
	normalizeInteractor *NormalizeInteractor,
	forwardInteractor *ForwardInteractor,
	distributeInteractor *DistributeInteractor) (*PipelineInteractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	interactor := &PipelineInteractor{
		cfg:                  cfg,
		feeInteractor:        feeInteractor,
		claimInteractor:      claimInteractor,
		normalizeInteractor:  normalizeInteractor,
		forwardInteractor:    forwardInteractor,
		distributeInteractor: distributeInteractor,
	}
	return interactor, nil
}

// runState carries what one stage hands to the next within a single run.
type runState struct {
	report  *domain.RunReport
	claim   *ClaimResult
	holders []domain.Holder
}

type pipelineStage struct {
	stage domain.Stage
	run   func(ctx context.Context, state *runState) domain.StageOutcome
}

func (interactor *PipelineInteractor) stages() []pipelineStage {
	return []pipelineStage{
		{domain.StageReadFees, interactor.readFees},
		{domain.StageClaim, interactor.claim},
		{domain.StageNormalize, interactor.normalize},
		{domain.StageForward, interactor.forward},
		{domain.StageAggregateHolders, interactor.aggregateHolders},
		{domain.StageDistribute, interactor.distribute},
	}
}

// Run executes one pass of the pipeline. Skips end the run successfully; the
// returned error is set only for a fatal outcome.
func (interactor *PipelineInteractor) Run(ctx context.Context) (*domain.RunReport, error) {
	clock := interactor.cfg.Clock
	logger := interactor.cfg.Logger

	state := &runState{report: domain.NewRunReport(clock.Now())}
	report := state.report
	logger.Info("pipeline: run started", "run", report.ID)

	var runErr error
	finished := false
	for _, s := range interactor.stages() {
		report.Stage = s.stage
		start := clock.Now()
		outcome := s.run(ctx, state)
		if interactor.cfg.Observer != nil {
			interactor.cfg.Observer.ObserveStage(s.stage, clock.Since(start))
		}

		if outcome.Kind == domain.OutcomeProceed {
			continue
		}

		if outcome.Kind == domain.OutcomeFatal {
			runErr = errors.Wrapf(outcome.Err, "stage %s", s.stage)
			outcome = domain.Fatal(runErr)
			logger.Error("pipeline: run failed", "run", report.ID, "stage", s.stage, "error", runErr)
		} else {
			logger.Info("pipeline: run skipped", "run", report.ID, "stage", s.stage, "reason", outcome.Reason)
		}
		report.Finish(s.stage, outcome, clock.Now())
		finished = true
		break
	}

	if !finished {
		report.Finish(domain.StageDone, domain.Proceed(), clock.Now())
		logger.Info("pipeline: run completed", "run", report.ID,
			"forwarded", report.Forwarded, "distributed", report.Distributed, "holders", report.HolderCount)
	}

	if interactor.cfg.Observer != nil {
		interactor.cfg.Observer.ObserveRun(report)
	}
	if interactor.cfg.Journal != nil {
		if err := interactor.cfg.Journal.Record(report); err != nil {
			logger.Warn("pipeline: journal write failed", "run", report.ID, "error", err)
		}
	}

	return report, runErr
}

func (interactor *PipelineInteractor) readFees(ctx context.Context, state *runState) domain.StageOutcome {
	pending, outcome := interactor.feeInteractor.ReadPending(ctx, interactor.cfg.Creator.PublicKey())
	if pending != nil {
		state.report.PendingFees = pending.Total()
	}
	return outcome
}

func (interactor *PipelineInteractor) claim(ctx context.Context, state *runState) domain.StageOutcome {
	result, outcome := interactor.claimInteractor.Claim(ctx, interactor.cfg.Creator)
	if result != nil {
		state.claim = result
		state.report.BalanceBefore = result.BalanceBefore
		if !result.Signature.IsZero() {
			state.report.Signatures[domain.StageClaim] = result.Signature
		}
	}
	return outcome
}

func (interactor *PipelineInteractor) normalize(ctx context.Context, state *runState) domain.StageOutcome {
	result, outcome := interactor.normalizeInteractor.Unwrap(ctx, interactor.cfg.Creator)
	if result != nil {
		state.report.Unwrapped = result.Unwrapped
		if !result.Signature.IsZero() {
			state.report.Signatures[domain.StageNormalize] = result.Signature
		}
	}
	return outcome
}

func (interactor *PipelineInteractor) forward(ctx context.Context, state *runState) domain.StageOutcome {
	result, outcome := interactor.forwardInteractor.Forward(ctx, interactor.cfg.Creator, state.claim.BalanceBefore)
	if result != nil {
		state.report.BalanceAfter = result.Plan.BalanceAfter
		state.report.Collected = result.Plan.Collected
		if outcome.Kind == domain.OutcomeProceed {
			state.report.Forwarded = result.Plan.ToSend
		}
		if !result.Signature.IsZero() {
			state.report.Signatures[domain.StageForward] = result.Signature
		}
	}
	return outcome
}

func (interactor *PipelineInteractor) aggregateHolders(ctx context.Context, state *runState) domain.StageOutcome {
	holders, outcome := interactor.distributeInteractor.EligibleHolders(ctx)
	state.holders = holders
	state.report.HolderCount = len(holders)
	return outcome
}

func (interactor *PipelineInteractor) distribute(ctx context.Context, state *runState) domain.StageOutcome {
	plan, outcome := interactor.distributeInteractor.Plan(ctx, state.holders)
	if plan != nil {
		state.report.PerHolderShare = plan.PerHolderShare
	}
	if outcome.Kind != domain.OutcomeProceed {
		return outcome
	}

	result, outcome := interactor.distributeInteractor.Distribute(ctx, interactor.cfg.PoolOwner, plan)
	if outcome.Kind == domain.OutcomeProceed {
		state.report.Distributed = plan.Total()
		state.report.Signatures[domain.StageDistribute] = result.Signature
	}
	return outcome
}

// DryRunReport is what a run would act on, read without submitting anything.
type DryRunReport struct {
	Vault   solana.PublicKey
	Pending *domain.PendingFees
	Holders []domain.Holder
	Plan    *domain.DistributionPlan
	Outcome domain.StageOutcome
}

// DryRun reads the pending fees, the eligible holders and the split the vault
// would currently produce.
func (interactor *PipelineInteractor) DryRun(ctx context.Context) (*DryRunReport, error) {
	report := &DryRunReport{Vault: interactor.distributeInteractor.Vault()}

	pending, outcome := interactor.feeInteractor.ReadPending(ctx, interactor.cfg.Creator.PublicKey())
	if outcome.Kind == domain.OutcomeFatal {
		return nil, outcome.Err
	}
	report.Pending = pending
	report.Outcome = outcome

	holders, outcome := interactor.distributeInteractor.EligibleHolders(ctx)
	if outcome.Kind == domain.OutcomeFatal {
		return nil, outcome.Err
	}
	report.Holders = holders
	if outcome.Kind == domain.OutcomeSkip {
		report.Outcome = outcome
		return report, nil
	}

	plan, outcome := interactor.distributeInteractor.Plan(ctx, holders)
	if outcome.Kind == domain.OutcomeFatal {
		return nil, outcome.Err
	}
	report.Plan = plan
	if report.Outcome.Kind == domain.OutcomeProceed {
		report.Outcome = outcome
	}
	return report, nil
}
