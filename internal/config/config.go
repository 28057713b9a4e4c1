package config

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Mode string

type SigningMethod string

const (
	ModeTestnet Mode = "testnet"
	ModeLive    Mode = "live"
)

const (
	SigningHMAC    SigningMethod = "hmac"
	SigningEd25519 SigningMethod = "ed25519"
)

const (
	EnvAPIKey    = "BINANCE_API_KEY"
	EnvAPISecret = "BINANCE_API_SECRET"
)

type Config struct {
	Mode     Mode           `yaml:"mode"`
	Exchange ExchangeConfig `yaml:"exchange"`
	Log      LogConfig      `yaml:"log"`
	Check    CheckConfig    `yaml:"check"`
}

type ExchangeConfig struct {
	APIKey                 string        `yaml:"api_key"`
	APISecret              string        `yaml:"api_secret"`
	RestBaseURL            string        `yaml:"rest_base_url"`
	Signing                SigningMethod `yaml:"signing"`
	Ed25519KeyPath         string        `yaml:"ed25519_private_key_path"`
	RecvWindowMs           int64         `yaml:"recv_window_ms"`
	HTTPTimeoutSec         int64         `yaml:"http_timeout_sec"`
	UserStreamKeepaliveSec int64         `yaml:"user_stream_keepalive_sec"`
}

// String masks the credentials so the config can be printed safely.
func (e ExchangeConfig) String() string {
	return fmt.Sprintf("{api_key:%s api_secret:%s rest_base_url:%s signing:%s recv_window_ms:%d}",
		mask(e.APIKey), redact(e.APISecret), e.RestBaseURL, e.Signing, e.RecvWindowMs)
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CheckConfig drives cmd/testnetcheck.
type CheckConfig struct {
	Symbol    string  `yaml:"symbol"`
	Asset     string  `yaml:"asset"`
	Price     Decimal `yaml:"price"`
	PriceTick Decimal `yaml:"price_tick"`
	Qty       Decimal `yaml:"qty"`
}

func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); err != io.EOF {
		return Config{}, fmt.Errorf("config must contain a single YAML document")
	}
	cfg.applyEnv(os.Getenv)
	cfg.normalize()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvAPIKey); v != "" {
		c.Exchange.APIKey = v
	}
	if v := getenv(EnvAPISecret); v != "" {
		c.Exchange.APISecret = v
	}
}

func (c *Config) normalize() {
	c.Mode = Mode(strings.ToLower(strings.TrimSpace(string(c.Mode))))
	c.Exchange.APIKey = strings.TrimSpace(c.Exchange.APIKey)
	c.Exchange.APISecret = strings.TrimSpace(c.Exchange.APISecret)
	c.Exchange.RestBaseURL = strings.TrimRight(strings.TrimSpace(c.Exchange.RestBaseURL), "/")
	c.Exchange.Signing = SigningMethod(strings.ToLower(strings.TrimSpace(string(c.Exchange.Signing))))
	c.Exchange.Ed25519KeyPath = strings.TrimSpace(c.Exchange.Ed25519KeyPath)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Check.Symbol = strings.ToUpper(strings.TrimSpace(c.Check.Symbol))
	c.Check.Asset = strings.ToUpper(strings.TrimSpace(c.Check.Asset))
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeTestnet
	}
	if c.Exchange.Signing == "" {
		c.Exchange.Signing = SigningHMAC
	}
	if c.Exchange.RecvWindowMs == 0 {
		c.Exchange.RecvWindowMs = 5000
	}
	if c.Exchange.HTTPTimeoutSec == 0 {
		c.Exchange.HTTPTimeoutSec = 15
	}
	if c.Exchange.UserStreamKeepaliveSec == 0 {
		c.Exchange.UserStreamKeepaliveSec = 1800
	}
	if c.Exchange.RestBaseURL == "" {
		switch c.Mode {
		case ModeTestnet:
			c.Exchange.RestBaseURL = "https://testnet.binance.vision"
		case ModeLive:
			c.Exchange.RestBaseURL = "https://api.binance.com"
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Check.Symbol == "" {
		c.Check.Symbol = "BTCUSDT"
	}
	if c.Check.Asset == "" {
		c.Check.Asset = "BTC"
	}
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModeTestnet, ModeLive:
	default:
		return fmt.Errorf("mode must be testnet or live")
	}
	if c.Exchange.APIKey == "" {
		return fmt.Errorf("exchange api_key is required (or set %s)", EnvAPIKey)
	}
	switch c.Exchange.Signing {
	case SigningHMAC:
		if c.Exchange.APISecret == "" {
			return fmt.Errorf("exchange api_secret is required for hmac signing (or set %s)", EnvAPISecret)
		}
	case SigningEd25519:
		if c.Exchange.Ed25519KeyPath == "" {
			return fmt.Errorf("exchange ed25519_private_key_path is required for ed25519 signing")
		}
	default:
		return fmt.Errorf("exchange signing must be hmac or ed25519")
	}
	if c.Exchange.RecvWindowMs < 1 || c.Exchange.RecvWindowMs > 60000 {
		return fmt.Errorf("exchange recv_window_ms must be between 1 and 60000")
	}
	if c.Exchange.HTTPTimeoutSec < 1 || c.Exchange.HTTPTimeoutSec > 120 {
		return fmt.Errorf("exchange http_timeout_sec must be between 1 and 120")
	}
	if c.Exchange.UserStreamKeepaliveSec < 60 || c.Exchange.UserStreamKeepaliveSec > 3600 {
		return fmt.Errorf("exchange user_stream_keepalive_sec must be between 60 and 3600")
	}
	if err := validateURL(c.Exchange.RestBaseURL, "http", "https"); err != nil {
		return fmt.Errorf("exchange rest_base_url %v", err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log format must be json or console")
	}
	if !isValidSymbol(c.Check.Symbol) {
		return fmt.Errorf("check symbol must match [A-Z0-9], length 5..20")
	}
	if c.Check.Price.Cmp(decimal.Zero) < 0 {
		return fmt.Errorf("check price must be >= 0")
	}
	if c.Check.PriceTick.Cmp(decimal.Zero) < 0 {
		return fmt.Errorf("check price_tick must be >= 0")
	}
	if c.Check.Qty.Cmp(decimal.Zero) < 0 {
		return fmt.Errorf("check qty must be >= 0")
	}
	return nil
}

func isValidSymbol(v string) bool {
	if len(v) < 5 || len(v) > 20 {
		return false
	}
	for _, r := range v {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			continue
		}
		return false
	}
	return true
}

func validateURL(raw string, schemes ...string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("must be a valid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("must include scheme and host")
	}
	for _, s := range schemes {
		if parsed.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("scheme must be %s", strings.Join(schemes, " or "))
}

func mask(v string) string {
	if len(v) <= 4 {
		return strings.Repeat("*", len(v))
	}
	return v[:4] + strings.Repeat("*", 4)
}

func redact(v string) string {
	if v == "" {
		return ""
	}
	return "[REDACTED]"
}
