// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/rovshanmuradov/solana-sandbox/internal/utils/logger"
)

type Config struct {
	RPCURL           string          `mapstructure:"rpc_url"`
	Wallet           string          `mapstructure:"wallet"`
	ComputeUnitLimit uint32          `mapstructure:"compute_unit_limit"`
	ComputeUnitPrice uint64          `mapstructure:"compute_unit_price"`
	RequestTimeout   time.Duration   `mapstructure:"request_timeout"`
	Retries          int             `mapstructure:"retries"`
	RPCRateLimit     float64         `mapstructure:"rpc_rate_limit"`
	MaxStakeAccounts int             `mapstructure:"max_stake_accounts"`
	LookupTables     []string        `mapstructure:"lookup_tables"`
	Operations       Operations      `mapstructure:"operations"`
	Log              LogConfig       `mapstructure:"log"`
	Telemetry        TelemetryConfig `mapstructure:"telemetry"`
}

// Operations содержит статическую конфигурацию каждой симулируемой операции.
type Operations struct {
	SendSOL          SendSOLOperation          `mapstructure:"send_sol"`
	SendToken        SendTokenOperation        `mapstructure:"send_token"`
	CreateATAAndSend CreateATAAndSendOperation `mapstructure:"create_ata_and_send"`
	Stake            StakeOperation            `mapstructure:"stake"`
	Unstake          UnstakeOperation          `mapstructure:"unstake"`
}

type SendSOLOperation struct {
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
	Lamports uint64 `mapstructure:"lamports"`
}

type SendTokenOperation struct {
	Owner       string `mapstructure:"owner"`
	Source      string `mapstructure:"source"`
	Destination string `mapstructure:"destination"`
	Mint        string `mapstructure:"mint"`
	Amount      uint64 `mapstructure:"amount"`
	Decimals    uint8  `mapstructure:"decimals"`
}

type CreateATAAndSendOperation struct {
	Owner              string `mapstructure:"owner"`
	Source             string `mapstructure:"source"`
	Recipient          string `mapstructure:"recipient"`
	Mint               string `mapstructure:"mint"`
	Amount             uint64 `mapstructure:"amount"`
	Decimals           uint8  `mapstructure:"decimals"`
	AllowOwnerOffCurve bool   `mapstructure:"allow_owner_off_curve"`
}

type StakeOperation struct {
	Staker      string `mapstructure:"staker"`
	Withdrawer  string `mapstructure:"withdrawer"`
	VoteAccount string `mapstructure:"vote_account"`
	Seed        string `mapstructure:"seed"`
	Lamports    uint64 `mapstructure:"lamports"`
}

type UnstakeOperation struct {
	StakeAccount string `mapstructure:"stake_account"`
	Authority    string `mapstructure:"authority"`
}

type LogConfig struct {
	File        string `mapstructure:"file"`
	MaxSize     int    `mapstructure:"max_size"`
	MaxAge      int    `mapstructure:"max_age"`
	MaxBackups  int    `mapstructure:"max_backups"`
	Compress    bool   `mapstructure:"compress"`
	Development bool   `mapstructure:"development"`
}

type TelemetryConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	Insecure    bool   `mapstructure:"insecure"`
	ServiceName string `mapstructure:"service_name"`
}

const (
	DefaultRPCURL           = "https://api.mainnet-beta.solana.com"
	DefaultRequestTimeout   = 15 * time.Second
	DefaultRetries          = 0
	DefaultRPCRateLimit     = 5.0
	DefaultMaxStakeAccounts = 1000
	DefaultUSDCMint         = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	DefaultUSDCDecimals     = 6
	DefaultStakeSeed        = "stake:0"

	EnvPrefix = "SANDBOX"
)

// ErrMissingWallet возвращается, если адрес кошелька не задан ни в файле, ни в окружении.
var ErrMissingWallet = errors.New("missing wallet in configuration")

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"rpc_url":                                 DefaultRPCURL,
		"request_timeout":                         DefaultRequestTimeout,
		"retries":                                 DefaultRetries,
		"rpc_rate_limit":                          DefaultRPCRateLimit,
		"max_stake_accounts":                      DefaultMaxStakeAccounts,
		"operations.send_sol.lamports":            5_000_000,
		"operations.send_token.mint":              DefaultUSDCMint,
		"operations.send_token.amount":            50_000,
		"operations.send_token.decimals":          DefaultUSDCDecimals,
		"operations.create_ata_and_send.mint":     DefaultUSDCMint,
		"operations.create_ata_and_send.amount":   50_000,
		"operations.create_ata_and_send.decimals": DefaultUSDCDecimals,
		"operations.stake.seed":                   DefaultStakeSeed,
		"operations.stake.lamports":               5_000_000_000,
		"log.file":                                "sandbox.log",
		"log.max_size":                            100,
		"log.max_age":                             7,
		"log.max_backups":                         3,
		"log.compress":                            true,
		"telemetry.service_name":                  "solana-sandbox",
	}
}

// LoadConfig читает конфигурацию из файла (если путь задан), .env и переменных окружения.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	for key := range (&Config{}).addresses() {
		v.SetDefault(key, "")
	}
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	applyEnvironment(v, &cfg)
	applyWalletFallbacks(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvironment применяет переменные окружения, которые AutomaticEnv не подхватывает
// при Unmarshal (ключи без значения по умолчанию).
func applyEnvironment(v *viper.Viper, cfg *Config) {
	if wallet := v.GetString("wallet"); wallet != "" {
		cfg.Wallet = wallet
	}
	// WALLET без префикса, как в исходной демо-конфигурации.
	if wallet := strings.TrimSpace(os.Getenv("WALLET")); wallet != "" && cfg.Wallet == "" {
		cfg.Wallet = wallet
	}
	if rpcURL := v.GetString("rpc_url"); rpcURL != "" {
		cfg.RPCURL = rpcURL
	}
	if tables := v.GetString("lookup_tables"); tables != "" && len(cfg.LookupTables) == 0 {
		for _, table := range strings.Split(tables, ",") {
			if clean := strings.TrimSpace(table); clean != "" {
				cfg.LookupTables = append(cfg.LookupTables, clean)
			}
		}
	}
}

// applyWalletFallbacks подставляет основной кошелек туда, где адрес операции не задан.
func applyWalletFallbacks(cfg *Config) {
	wallet := cfg.Wallet
	ops := &cfg.Operations
	fill := func(field *string) {
		if *field == "" {
			*field = wallet
		}
	}
	fill(&ops.SendSOL.From)
	fill(&ops.SendSOL.To)
	fill(&ops.SendToken.Owner)
	fill(&ops.CreateATAAndSend.Owner)
	fill(&ops.Stake.Staker)
	fill(&ops.Stake.Withdrawer)
	fill(&ops.Unstake.Authority)
}

// Validate проверяет конфигурацию и возвращает все найденные ошибки разом.
func Validate(cfg *Config) error {
	var errs error
	if cfg.Wallet == "" {
		errs = multierr.Append(errs, ErrMissingWallet)
	}
	if err := validateURL(cfg.RPCURL, "http"); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("rpc_url: %w", err))
	}
	if cfg.RequestTimeout < 0 {
		errs = multierr.Append(errs, errors.New("invalid request_timeout"))
	}
	if cfg.Retries < 0 {
		errs = multierr.Append(errs, errors.New("invalid retries count"))
	}
	if cfg.RPCRateLimit < 0 {
		errs = multierr.Append(errs, errors.New("invalid rpc_rate_limit"))
	}
	if cfg.MaxStakeAccounts < 0 {
		errs = multierr.Append(errs, errors.New("invalid max_stake_accounts"))
	}
	if cfg.ComputeUnitLimit > 1_400_000 {
		errs = multierr.Append(errs, errors.New("compute_unit_limit exceeds 1400000"))
	}
	if cfg.Telemetry.Endpoint != "" {
		if err := validateURL(cfg.Telemetry.Endpoint, "http"); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("telemetry.endpoint: %w", err))
		}
	}

	for name, address := range cfg.addresses() {
		if address == "" {
			continue
		}
		if _, err := solana.PublicKeyFromBase58(address); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: invalid address %q: %w", name, address, err))
		}
	}
	for i, table := range cfg.LookupTables {
		if _, err := solana.PublicKeyFromBase58(table); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("lookup_tables[%d]: invalid address %q: %w", i, table, err))
		}
	}
	return errs
}

// addresses возвращает все адресные поля конфигурации по их ключам.
func (c *Config) addresses() map[string]string {
	ops := c.Operations
	return map[string]string{
		"wallet":                                   c.Wallet,
		"operations.send_sol.from":                 ops.SendSOL.From,
		"operations.send_sol.to":                   ops.SendSOL.To,
		"operations.send_token.owner":              ops.SendToken.Owner,
		"operations.send_token.source":             ops.SendToken.Source,
		"operations.send_token.destination":        ops.SendToken.Destination,
		"operations.send_token.mint":               ops.SendToken.Mint,
		"operations.create_ata_and_send.owner":     ops.CreateATAAndSend.Owner,
		"operations.create_ata_and_send.source":    ops.CreateATAAndSend.Source,
		"operations.create_ata_and_send.recipient": ops.CreateATAAndSend.Recipient,
		"operations.create_ata_and_send.mint":      ops.CreateATAAndSend.Mint,
		"operations.stake.staker":                  ops.Stake.Staker,
		"operations.stake.withdrawer":              ops.Stake.Withdrawer,
		"operations.stake.vote_account":            ops.Stake.VoteAccount,
		"operations.unstake.stake_account":         ops.Unstake.StakeAccount,
		"operations.unstake.authority":             ops.Unstake.Authority,
	}
}

// LoggerConfig конвертирует секцию log в конфигурацию логгера.
func (c *Config) LoggerConfig() *logger.Config {
	return &logger.Config{
		LogFile:     c.Log.File,
		MaxSize:     c.Log.MaxSize,
		MaxAge:      c.Log.MaxAge,
		MaxBackups:  c.Log.MaxBackups,
		Compress:    c.Log.Compress,
		Development: c.Log.Development,
	}
}

func validateURL(rawURL string, protocol string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	if parsed.Host == "" {
		return errors.New("missing URL host")
	}
	return nil
}
