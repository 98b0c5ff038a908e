package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the transfer watcher configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Ethereum   EthereumConfig   `yaml:"ethereum"`
	Near       NearConfig       `yaml:"near"`
	Redis      RedisConfig      `yaml:"redis"`
	Watcher    WatcherConfig    `yaml:"watcher"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"30s"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" default:"60s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" default:"60s"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host" default:"localhost" validate:"required"`
	Port     int    `yaml:"port" default:"5432"`
	User     string `yaml:"user" default:"postgres"`
	Password string `yaml:"password"`
	Database string `yaml:"database" default:"near_eth_transfers"`
	SSLMode  string `yaml:"ssl_mode" default:"disable" validate:"oneof=disable require verify-ca verify-full"`
}

// EthereumConfig contains Ethereum client settings
type EthereumConfig struct {
	RPCURL           string `yaml:"rpc_url" validate:"required,url"`
	ChainID          int64  `yaml:"chain_id" default:"1" validate:"required"`
	CustodianAddress string `yaml:"custodian_address" validate:"required,eth_addr"`
	// PrivateKey signs lock transactions. Without it the service only tracks
	// transfers that were locked elsewhere.
	PrivateKey        string `yaml:"private_key"`
	GasLimit          uint64 `yaml:"gas_limit"`
	MaxGasPrice       string `yaml:"max_gas_price" validate:"omitempty,number"`
	SearchReorgMargin uint64 `yaml:"search_reorg_margin" default:"20" validate:"min=1"`
	// IconBaseURL serves ERC-20 logos keyed by checksum address.
	IconBaseURL string `yaml:"icon_base_url" default:"https://raw.githubusercontent.com/trustwallet/assets/master/blockchains/ethereum/assets" validate:"omitempty,url"`
}

// NearConfig contains NEAR / Aurora settings
type NearConfig struct {
	RPCURL string `yaml:"rpc_url" validate:"required,url"`
	// AccountID is the NEAR account the wallet signs mint transactions with.
	AccountID           string        `yaml:"account_id" validate:"required"`
	EvmAccount          string        `yaml:"evm_account" default:"aurora"`
	ClientAccount       string        `yaml:"client_account" default:"client-eth2.bridge.near"`
	ProofRPCURL         string        `yaml:"proof_rpc_url" validate:"required,url"`
	SyncInterval        time.Duration `yaml:"sync_interval" default:"20s"`
	RelayerMargin       int           `yaml:"relayer_margin" default:"10" validate:"min=0"`
	NeededConfirmations int           `yaml:"needed_confirmations" default:"20" validate:"min=1"`
	MintGas             uint64        `yaml:"mint_gas" default:"200000000000000"`
	MintDeposit         string        `yaml:"mint_deposit" default:"60000000000000000000000" validate:"number"`
}

// RedisConfig configures the wallet redirect channel. An empty address keeps
// the channel in memory.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key" default:"near-eth:redirect"`
}

// WatcherConfig contains polling settings
type WatcherConfig struct {
	PollInterval time.Duration `yaml:"poll_interval" default:"15s"`
	Concurrency  int           `yaml:"concurrency" default:"8" validate:"min=1"`
	BatchSize    int           `yaml:"batch_size" default:"100" validate:"min=1"`
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled bool `yaml:"enabled" default:"true"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `yaml:"level" default:"info"`
	Format     string `yaml:"format" default:"json" validate:"oneof=json console"`
	OutputPath string `yaml:"output_path" default:"stdout"`
}

// Load reads the YAML file at configPath, expands ${ENV} references, applies
// defaults and validates the result.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes configuration from raw YAML.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to set config defaults: %w", err)
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Addr returns the HTTP listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
