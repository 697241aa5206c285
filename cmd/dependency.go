package cmd

import (
	"log"
	"log/slog"

	"feedriver/domain"
	"feedriver/infrastructure/dbhandler"
	"feedriver/infrastructure/distributor"
	"feedriver/infrastructure/ledger"
	"feedriver/infrastructure/logger"
	"feedriver/infrastructure/pumpfun"
	"feedriver/interface/exporter"
	"feedriver/interface/repository"
	"feedriver/usecase"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
)

func defaultDependencyInject() {
	var err error

	appLogger = logger.New(verbose)
	clock := clockwork.NewRealClock()

	rpcClient := ledger.NewRPC(domain.GetRPCURL(), domain.GetRequestsPerSecond())
	ledgerClient, err = ledger.NewClient(ledger.Config{
		RPC:            rpcClient,
		Logger:         appLogger,
		Commitment:     domain.GetCommitment(),
		ConfirmTimeout: domain.GetConfirmTimeout(),
		Clock:          clock,
	})
	if err != nil {
		log.Fatalf("Unable to create ledger client - %v\n", err.Error())
	}

	feeClient := pumpfun.NewClient(ledgerClient, appLogger)

	distributorClient, err := distributor.NewClient(distributor.Config{
		IdlPath:         domain.GetDistributorIdlPath(),
		ProgramID:       domain.GetDistributorProgramID(),
		InstructionName: domain.GetDistributeInstructionName(),
		Logger:          appLogger,
	})
	if err != nil {
		log.Fatalf("Unable to load distribution program - %v\n", err.Error())
	}
	appLogger.Info("dependency: clients ready", "distributor", distributorClient.ProgramID(),
		"vault", distributorClient.VaultAddress(), "commitment", ledgerClient.Commitment())

	var journal usecase.RunJournal
	if domain.IsJournalEnabled() {
		dbHandler, err = dbhandler.Open(domain.GetDbUri(), appLogger)
		if err != nil {
			log.Fatal(err)
		}
		if err = repository.EnsureSchema(dbHandler); err != nil {
			log.Fatalf("Unable to prepare journal tables - %v\n", err.Error())
		}

		memoRepository := repository.NewMemoRepository(dbHandler)
		runRepository = repository.NewRunRepository(dbHandler)
		memoInteractor = usecase.NewMemoInteractor(memoRepository, runRepository)
		journal = memoInteractor
	}

	exporter.Init(prometheus.DefaultRegisterer)

	holderInteractor = usecase.NewHolderInteractor(ledgerClient, appLogger)
	feeInteractor = usecase.NewFeeInteractor(feeClient, domain.GetRewardThreshold(), appLogger)
	claimInteractor := usecase.NewClaimInteractor(ledgerClient, feeClient, appLogger)
	normalizeInteractor := usecase.NewNormalizeInteractor(ledgerClient, appLogger)
	forwardInteractor := usecase.NewForwardInteractor(ledgerClient, distributorClient.VaultAddress(), domain.GetFeeBuffer(), appLogger)
	distributeInteractor := usecase.NewDistributeInteractor(ledgerClient, distributorClient, holderInteractor,
		domain.GetTokenMint(), domain.GetHolderCount(), appLogger)

	pipelineInteractor, err = usecase.NewPipelineInteractor(usecase.PipelineConfig{
		Creator:   domain.GetCreatorKey(),
		PoolOwner: domain.GetPoolOwnerKey(),
		Clock:     clock,
		Logger:    appLogger,
		Observer:  exporter.Observer{},
		Journal:   journal,
	}, feeInteractor, claimInteractor, normalizeInteractor, forwardInteractor, distributeInteractor)
	if err != nil {
		log.Fatalf("Unable to create pipeline - %v\n", err.Error())
	}
}

func closeDependencies() {
	if dbHandler != nil {
		dbHandler.Close()
	}
}

var appLogger *slog.Logger
var ledgerClient *ledger.Client
var dbHandler *dbhandler.DBHandler
var runRepository *repository.RunRepository
var memoInteractor *usecase.MemoInteractor
var holderInteractor *usecase.HolderInteractor
var feeInteractor *usecase.FeeInteractor
var pipelineInteractor *usecase.PipelineInteractor
