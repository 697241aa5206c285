package domain

import (
	"log"
	"math/big"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	DefaultRPCURL             = rpc.MainNetBeta_RPC
	DefaultFeeBufferLamports  = 5000
	DefaultHolderCount        = 20
	DefaultRunInterval        = 15 * time.Minute
	DefaultConfirmTimeout     = 90 * time.Second
	DefaultRequestsPerSecond  = 10
	DefaultDistributeIxName   = "distribute"
	DefaultCommitment         = rpc.CommitmentConfirmed
	// Every holder rides as an account key of one legacy transaction (1232 bytes).
	maxHolderCount            = 25
	lamportsPerSolDecimalExpo = 9
)

var (
	ErrorInvalidRPCURL     = errors.New("rpc_url must be an http(s) url")
	ErrorInvalidCommitment = errors.New("commitment must be 'processed', 'confirmed' or 'finalized'")

	ErrorInvalidTokenMint = errors.New("invalid token mint address")

	ErrorNoCreatorKey        = errors.New("no creator key is defined")
	ErrorCreatorKeyConflict  = errors.New("only one of creator_private_key or creator_keypair_path must be defined")
	ErrorNoPoolOwnerKey      = errors.New("no pool owner key is defined")
	ErrorPoolOwnerConflict   = errors.New("only one of pool_owner_private_key or pool_owner_keypair_path must be defined")
	ErrorReadingKeypairFile  = errors.New("error in reading keypair file")
	ErrorInvalidPrivateKey   = errors.New("invalid private key")
	ErrorInvalidFeeBuffer    = errors.New("fee_buffer_lamports must not be negative")
	ErrorInvalidThreshold    = errors.New("reward_threshold_sol must be a non-negative decimal")
	ErrorInvalidHolderCount  = errors.New("holder_count must be between 1 and 25")
	ErrorInvalidRunInterval  = errors.New("invalid time interval for run process")
	ErrorInvalidTimeout      = errors.New("invalid confirm_timeout")
	ErrorInvalidRateLimit    = errors.New("rpc_requests_per_second must not be negative")
	ErrorInvalidProgramID    = errors.New("invalid distributor_program_id")
	ErrorDistributorNotFound = errors.New("distributor_idl_path or distributor_program_id must be defined")
)

var (
	TrailingSlashRE = regexp.MustCompile("/+$")
)

var (
	dbUri       string
	metricsAddr string

	rpcURL            string
	requestsPerSecond int
	commitment        rpc.CommitmentType
	confirmTimeout    time.Duration

	tokenMint solana.PublicKey

	creatorKey   solana.PrivateKey
	poolOwnerKey solana.PrivateKey

	feeBuffer       *big.Int
	rewardThreshold *big.Int
	holderCount     int

	distributorIdlPath   string
	distributorProgramID solana.PublicKey
	distributeIxName     string

	runInterval time.Duration
)

func init() {
	viper.SetDefault("rpc_url", DefaultRPCURL)
	viper.SetDefault("rpc_requests_per_second", DefaultRequestsPerSecond)
	viper.SetDefault("commitment", string(DefaultCommitment))
	viper.SetDefault("confirm_timeout", DefaultConfirmTimeout.String())
	viper.SetDefault("fee_buffer_lamports", DefaultFeeBufferLamports)
	viper.SetDefault("reward_threshold_sol", "0")
	viper.SetDefault("holder_count", DefaultHolderCount)
	viper.SetDefault("distribute_instruction", DefaultDistributeIxName)
	viper.SetDefault("run_interval", DefaultRunInterval.String())
}

func ReadConfig(filePath string) {
	// A missing .env is the normal case outside local development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ Failed loading .env file: %v\n", err.Error())
	}

	viper.SetConfigFile(filePath)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("⚠️ Failed reading config file: %v\n", err.Error())
	}

	err := initializeVariables()
	if err != nil {
		log.Fatalf("Configuration error - %v\n", err.Error())
	}
}

// This method processes the configuration parameters and keeps the processed values
// in some variables for later accesses rapidly.
func initializeVariables() error {
	var err error

	// Database and metrics stuff
	dbUri = TrailingSlashRE.ReplaceAllString(strings.TrimSpace(viper.GetString("service_db_uri")), "")
	metricsAddr = strings.TrimSpace(viper.GetString("metrics_addr"))

	// RPC stuff
	rpcURL = TrailingSlashRE.ReplaceAllString(strings.TrimSpace(viper.GetString("rpc_url")), "")
	if !strings.HasPrefix(rpcURL, "http://") && !strings.HasPrefix(rpcURL, "https://") {
		return ErrorInvalidRPCURL
	}

	requestsPerSecond = viper.GetInt("rpc_requests_per_second")
	if requestsPerSecond < 0 {
		return ErrorInvalidRateLimit
	}

	commitment = rpc.CommitmentType(strings.ToLower(strings.TrimSpace(viper.GetString("commitment"))))
	switch commitment {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		return ErrorInvalidCommitment
	}

	confirmTimeout, err = time.ParseDuration(viper.GetString("confirm_timeout"))
	if err != nil || confirmTimeout <= 0 {
		return ErrorInvalidTimeout
	}

	// Token stuff
	tokenMint, err = solana.PublicKeyFromBase58(strings.TrimSpace(viper.GetString("token_mint")))
	if err != nil {
		return ErrorInvalidTokenMint
	}

	// Identities
	creatorKey, err = loadIdentity("creator_private_key", "creator_keypair_path", ErrorNoCreatorKey, ErrorCreatorKeyConflict)
	if err != nil {
		return err
	}

	poolOwnerKey, err = loadIdentity("pool_owner_private_key", "pool_owner_keypair_path", ErrorNoPoolOwnerKey, ErrorPoolOwnerConflict)
	if err != nil {
		return err
	}

	//---------------------------------------------------------------
	// amounts
	buffer := viper.GetInt64("fee_buffer_lamports")
	if buffer < 0 {
		return ErrorInvalidFeeBuffer
	}
	feeBuffer = big.NewInt(buffer)

	rewardThreshold, err = ParseSolAmount(viper.GetString("reward_threshold_sol"))
	if err != nil {
		return ErrorInvalidThreshold
	}

	holderCount = viper.GetInt("holder_count")
	if holderCount < 1 || holderCount > maxHolderCount {
		return ErrorInvalidHolderCount
	}

	//---------------------------------------------------------------
	// distribution program
	distributorIdlPath = strings.TrimSpace(viper.GetString("distributor_idl_path"))
	distributeIxName = strings.TrimSpace(viper.GetString("distribute_instruction"))

	distributorProgramID = solana.PublicKey{}
	if programID := strings.TrimSpace(viper.GetString("distributor_program_id")); programID != "" {
		distributorProgramID, err = solana.PublicKeyFromBase58(programID)
		if err != nil {
			return ErrorInvalidProgramID
		}
	}
	if distributorIdlPath == "" && distributorProgramID.IsZero() {
		return ErrorDistributorNotFound
	}

	//---------------------------------------------------------------
	// run interval
	runInterval, err = time.ParseDuration(viper.GetString("run_interval"))
	if err != nil || runInterval <= 0 {
		return ErrorInvalidRunInterval
	}

	return nil
}

// loadIdentity reads exactly one of an inline base58 secret key or a solana-keygen
// JSON file.
func loadIdentity(keyName, pathName string, errMissing, errConflict error) (solana.PrivateKey, error) {
	inline := strings.TrimSpace(viper.GetString(keyName))
	path := strings.TrimSpace(viper.GetString(pathName))
	if inline == "" && path == "" {
		return nil, errMissing
	}
	if inline != "" && path != "" {
		return nil, errConflict
	}

	if path != "" {
		key, err := readKeypairFile(path)
		if err != nil {
			return nil, ErrorReadingKeypairFile
		}
		return key, nil
	}

	key, err := solana.PrivateKeyFromBase58(inline)
	if err != nil || key.Validate() != nil {
		return nil, ErrorInvalidPrivateKey
	}
	return key, nil
}

func readKeypairFile(filePath string) (solana.PrivateKey, error) {

	key, err := solana.PrivateKeyFromSolanaKeygenFile(filePath)
	if err != nil {
		log.Printf("Failed to read keypair file - %v\n", err.Error())
		return nil, err
	}

	return key, nil
}

// ParseSolAmount converts a decimal SOL string into lamports, truncating
// anything below one lamport.
func ParseSolAmount(value string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return new(big.Int), nil
	}

	amount, err := decimal.NewFromString(value)
	if err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, ErrorInvalidThreshold
	}

	return amount.Shift(lamportsPerSolDecimalExpo).Truncate(0).BigInt(), nil
}

//-------------------------------------------------------------------
// Normal configuration values

func GetDbUri() string {
	return dbUri
}

func GetMetricsAddr() string {
	return metricsAddr
}

func GetRPCURL() string {
	return rpcURL
}

func GetRequestsPerSecond() int {
	return requestsPerSecond
}

func GetCommitment() rpc.CommitmentType {
	return commitment
}

func GetConfirmTimeout() time.Duration {
	return confirmTimeout
}

func GetTokenMint() solana.PublicKey {
	return tokenMint
}

func GetCreatorKey() solana.PrivateKey {
	return creatorKey
}

func GetPoolOwnerKey() solana.PrivateKey {
	return poolOwnerKey
}

func GetFeeBuffer() *big.Int {
	return new(big.Int).Set(feeBuffer)
}

func GetRewardThreshold() *big.Int {
	return new(big.Int).Set(rewardThreshold)
}

func GetHolderCount() int {
	return holderCount
}

func GetDistributorIdlPath() string {
	return distributorIdlPath
}

func GetDistributorProgramID() solana.PublicKey {
	return distributorProgramID
}

func GetDistributeInstructionName() string {
	return distributeIxName
}

func GetRunInterval() time.Duration {
	return runInterval
}

// -------------------------------------------------------------------
// Evaluating values

func IsJournalEnabled() bool {
	return dbUri != ""
}
