package binance

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"binance-trade/internal/config"
)

const DefaultRestBaseURL = "https://api.binance.com"

// Client issues authenticated REST calls. It holds no mutable state after
// construction and is safe for concurrent use.
type Client struct {
	creds      Credentials
	signer     Signer
	baseURL    string
	recvWindow time.Duration
	keepalive  time.Duration
	http       *resty.Client
	now        func() time.Time
	logger     zerolog.Logger
}

type Options struct {
	APIKey         string
	APISecret      string
	RestBaseURL    string
	RecvWindowMs   int64
	HTTPTimeoutSec int64
	// KeepaliveSec is the default KeepListenKeyAlive interval.
	KeepaliveSec int64
	// Signer overrides the HMAC signer derived from APISecret.
	Signer     Signer
	HTTPClient *http.Client
	Now        func() time.Time
	Logger     *zerolog.Logger
}

func NewClient(cfg config.ExchangeConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, configError("new client", ErrMissingAPIKey)
	}
	opts := Options{
		APIKey:         cfg.APIKey,
		APISecret:      cfg.APISecret,
		RestBaseURL:    cfg.RestBaseURL,
		RecvWindowMs:   cfg.RecvWindowMs,
		HTTPTimeoutSec: cfg.HTTPTimeoutSec,
		KeepaliveSec:   cfg.UserStreamKeepaliveSec,
	}
	switch cfg.Signing {
	case config.SigningEd25519:
		signer, err := LoadEd25519Signer(cfg.Ed25519KeyPath)
		if err != nil {
			return nil, err
		}
		opts.Signer = signer
	default:
		if cfg.APISecret == "" {
			return nil, configError("new client", ErrMissingSecret)
		}
	}
	return NewClientWithOptions(opts), nil
}

func NewClientWithOptions(opts Options) *Client {
	timeout := 15 * time.Second
	if opts.HTTPTimeoutSec > 0 {
		timeout = time.Duration(opts.HTTPTimeoutSec) * time.Second
	}
	baseURL := strings.TrimRight(opts.RestBaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultRestBaseURL
	}
	signer := opts.Signer
	if signer == nil {
		signer = NewHMACSigner(opts.APISecret)
	}
	keepalive := DefaultListenKeyKeepalive
	if opts.KeepaliveSec > 0 {
		keepalive = time.Duration(opts.KeepaliveSec) * time.Second
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := config.NewLogger("binance")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetLogger(restyLogger{logger: logger})

	return &Client{
		creds:      Credentials{APIKey: opts.APIKey, APISecret: opts.APISecret},
		signer:     signer,
		baseURL:    baseURL,
		recvWindow: time.Duration(opts.RecvWindowMs) * time.Millisecond,
		keepalive:  keepalive,
		http:       rc,
		now:        now,
		logger:     logger,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// execute sends one request for ep and decodes a successful body into out.
// Nothing is retried.
func (c *Client) execute(ctx context.Context, ep Endpoint, in args, out any) error {
	req, err := c.buildRequest(ep, in)
	if err != nil {
		return err
	}

	r := c.http.R().SetContext(ctx)
	for key := range req.Header {
		r.SetHeader(key, req.Header.Get(key))
	}
	if req.Body != "" {
		r.SetBody(req.Body)
	}

	start := time.Now()
	resp, err := r.Execute(req.Method, req.URL())
	if err != nil {
		c.logger.Debug().
			Str("op", ep.Name).
			Str("method", ep.Method).
			Dur("elapsed", time.Since(start)).
			Err(err).
			Msg("request failed")
		return &TransportError{Op: ep.Name, Err: err}
	}
	status := resp.StatusCode()
	body := resp.Body()
	c.logger.Debug().
		Str("op", ep.Name).
		Str("method", ep.Method).
		Str("path", ep.Path).
		Str("auth", ep.Auth.String()).
		Int("status", status).
		Dur("elapsed", time.Since(start)).
		Msg("request done")

	if status/100 != 2 {
		return parseAPIError(status, body)
	}
	if ep.isWAPI() {
		if err := parseWAPIFailure(status, body); err != nil {
			return err
		}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &TransportError{Op: ep.Name, Err: errors.Wrapf(err, "decode %s response", ep.Name)}
	}
	return nil
}

// restyLogger routes resty's own diagnostics into zerolog.
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), v...)
}
