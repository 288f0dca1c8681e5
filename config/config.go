package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const EnvPrefix = "BRC20V2"

type BitcoinConfig struct {
	Network   string `mapstructure:"network"`
	RPCURL    string `mapstructure:"rpc_url"`
	OrdBinary string `mapstructure:"ord_binary"`
	FeeRate   uint64 `mapstructure:"fee_rate"`
}

// EthereumConfig configures both the settlement relay and the calldata
// publisher. It is only validated when Enabled.
type EthereumConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	RPCURL     string `mapstructure:"rpc_url"`
	ChainID    uint64 `mapstructure:"chain_id"`
	Contract   string `mapstructure:"contract_address"`
	PrivateKey string `mapstructure:"private_key"`
	GasLimit   uint64 `mapstructure:"gas_limit"`
}

type ProtocolConfig struct {
	MaxTickerLength     int    `mapstructure:"max_ticker_length"`
	MaxDecimals         uint8  `mapstructure:"max_decimals"`
	RejectZeroAmounts   bool   `mapstructure:"reject_zero_amounts"`
	MaxInscriptionBytes int    `mapstructure:"max_inscription_bytes"`
	Publisher           string `mapstructure:"publisher"`
}

type Config struct {
	Bitcoin  BitcoinConfig  `mapstructure:"bitcoin"`
	Ethereum EthereumConfig `mapstructure:"ethereum"`
	Protocol ProtocolConfig `mapstructure:"protocol"`
	LogLevel string         `mapstructure:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("bitcoin.network", "signet")
	v.SetDefault("bitcoin.ord_binary", "ord")
	v.SetDefault("bitcoin.fee_rate", 10)
	v.SetDefault("ethereum.enabled", false)
	v.SetDefault("ethereum.gas_limit", 300000)
	v.SetDefault("protocol.max_ticker_length", 0)
	v.SetDefault("protocol.max_decimals", 0)
	v.SetDefault("protocol.reject_zero_amounts", false)
	v.SetDefault("protocol.max_inscription_bytes", 4096)
	v.SetDefault("protocol.publisher", "none")
}

// Load reads path (any format viper understands) over the defaults and
// applies BRC20V2_* environment overrides. An empty path loads defaults and
// environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Bitcoin.Network {
	case "mainnet", "testnet", "signet", "regtest":
	default:
		return errors.Errorf("unknown bitcoin network %q", c.Bitcoin.Network)
	}
	if c.Bitcoin.FeeRate == 0 {
		return errors.New("bitcoin.fee_rate must be > 0")
	}
	if c.Bitcoin.OrdBinary == "" {
		return errors.New("bitcoin.ord_binary must be set")
	}

	if c.Ethereum.Enabled {
		if !strings.HasPrefix(c.Ethereum.RPCURL, "http") && !strings.HasPrefix(c.Ethereum.RPCURL, "ws") {
			return errors.Errorf("invalid ethereum rpc url %q", c.Ethereum.RPCURL)
		}
		if len(strings.TrimPrefix(c.Ethereum.PrivateKey, "0x")) != 64 {
			return errors.New("ethereum.private_key must be 32-byte hex")
		}
		if c.Ethereum.Contract == "" {
			return errors.New("ethereum.contract_address must be set")
		}
	}

	if c.Protocol.MaxTickerLength < 0 {
		return errors.New("protocol.max_ticker_length must be >= 0")
	}
	if c.Protocol.MaxInscriptionBytes < 100 {
		return errors.New("protocol.max_inscription_bytes too small")
	}
	switch c.Protocol.Publisher {
	case "none", "ord":
	case "calldata":
		if !c.Ethereum.Enabled {
			return errors.New("protocol.publisher calldata requires ethereum.enabled")
		}
	default:
		return errors.Errorf("unknown publisher %q", c.Protocol.Publisher)
	}
	return nil
}

func (c *Config) IsMainnet() bool {
	return c.Bitcoin.Network == "mainnet"
}
