/*
Package config contains the client configuration: the RPC node to talk to,
the logger and the transaction defaults. It's stored in a YAML file and
validated after loading.
*/
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nspcc-dev/neorpc-go/pkg/config/netmode"
	"github.com/nspcc-dev/neorpc-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neorpc-go/pkg/rpcclient"
	"github.com/nspcc-dev/neorpc-go/pkg/rpcclient/txmanager"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is the version of the client, it's set at build time.
var Version string

const (
	// DefaultDialTimeout is used when no dial timeout is configured.
	DefaultDialTimeout = 5 * time.Second
	// DefaultRequestTimeout is used when no request timeout is configured.
	DefaultRequestTimeout = 10 * time.Second
)

type (
	// Config is the top-level client configuration.
	Config struct {
		RPC RPC `yaml:"RPC"`
		// Network is the expected network magic, zero means the one reported
		// by the node is accepted.
		Network     netmode.Magic `yaml:"Network"`
		Logger      Logger        `yaml:"Logger"`
		Transaction Transaction   `yaml:"Transaction"`
		Wallet      *Wallet       `yaml:"Wallet"`
	}

	// RPC describes the connection to the node.
	RPC struct {
		Endpoint        string        `yaml:"Endpoint" validate:"required,url"`
		User            string        `yaml:"User"`
		Password        string        `yaml:"Password" validate:"required_with=User"`
		DialTimeout     time.Duration `yaml:"DialTimeout" validate:"min=0"`
		RequestTimeout  time.Duration `yaml:"RequestTimeout" validate:"min=0"`
		MaxConnsPerHost int           `yaml:"MaxConnsPerHost" validate:"min=0"`
		// WebSocket forces the WebSocket transport for http(s) endpoints.
		WebSocket bool `yaml:"WebSocket"`
	}

	// Logger contains the logging settings.
	Logger struct {
		Level    string `yaml:"Level" validate:"omitempty,oneof=debug info warn error"`
		Encoding string `yaml:"Encoding" validate:"omitempty,oneof=console json"`
		Path     string `yaml:"Path"`
	}

	// Transaction contains the settings of the transaction manager. Fee
	// limits are in GAS, zero means no limit.
	Transaction struct {
		ValidUntilHorizon uint32        `yaml:"ValidUntilHorizon" validate:"min=1"`
		MaxSystemFee      fixedn.Fixed8 `yaml:"MaxSystemFee" validate:"min=0"`
		MaxNetworkFee     fixedn.Fixed8 `yaml:"MaxNetworkFee" validate:"min=0"`
	}

	// Wallet is a wallet file with the password for it.
	Wallet struct {
		Path     string `yaml:"path" validate:"required"`
		Password string `yaml:"password"`
	}
)

// Default returns the configuration used when there is no file, it has no
// endpoint and can't be used until one is set.
func Default() Config {
	return Config{
		RPC: RPC{
			DialTimeout:    DefaultDialTimeout,
			RequestTimeout: DefaultRequestTimeout,
		},
		Logger: Logger{
			Level:    "info",
			Encoding: "console",
		},
		Transaction: Transaction{
			ValidUntilHorizon: txmanager.DefaultValidUntilHorizon,
		},
	}
}

// LoadFile loads the configuration from the given YAML file on top of the
// defaults and validates it.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes the YAML configuration on top of the defaults and validates
// it. Unknown fields are errors.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := unmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ReadWalletConfig reads a standalone wallet config (path and password).
func ReadWalletConfig(path string) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read wallet config: %w", err)
	}
	cfg := new(Wallet)
	if err := unmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet config YAML: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid wallet config: %w", err)
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s failed on '%s'", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// URL returns the endpoint to connect to. With WebSocket set http(s)
// endpoints are turned into ws(s) ones, "/ws" is used if there is no path.
func (r RPC) URL() (string, error) {
	u, err := url.Parse(r.Endpoint)
	if err != nil {
		return "", err
	}
	if !r.WebSocket {
		return u.String(), nil
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		return u.String(), nil
	default:
		return "", fmt.Errorf("unsupported scheme for WebSocket: %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// ClientOptions returns rpcclient options for the RPC section.
func (r RPC) ClientOptions(log *zap.Logger) rpcclient.Options {
	return rpcclient.Options{
		DialTimeout:     r.DialTimeout,
		RequestTimeout:  r.RequestTimeout,
		MaxConnsPerHost: r.MaxConnsPerHost,
		User:            r.User,
		Password:        r.Password,
		Logger:          log,
	}
}

// ManagerOptions returns txmanager options for the Transaction section.
func (t Transaction) ManagerOptions(log *zap.Logger) txmanager.Options {
	return txmanager.Options{
		ValidUntilHorizon: t.ValidUntilHorizon,
		MaxSystemFee:      int64(t.MaxSystemFee),
		MaxNetworkFee:     int64(t.MaxNetworkFee),
		Logger:            log,
	}
}

// Build creates a logger with these settings, debug overrides the level.
func (l Logger) Build(debug bool) (*zap.Logger, error) {
	var (
		level = zapcore.InfoLevel
		err   error
	)
	if len(l.Level) > 0 {
		level, err = zapcore.ParseLevel(l.Level)
		if err != nil {
			return nil, fmt.Errorf("log setting: %w", err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	if l.Encoding != "" {
		cc.Encoding = l.Encoding
	}
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil
	cc.OutputPaths = []string{"stderr"}
	if l.Path != "" {
		cc.OutputPaths = []string{l.Path}
	}
	return cc.Build()
}
