package securepay

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// Sender posts a serialized message to the gateway and returns the reply body.
type Sender interface {
	Send(ctx context.Context, url string, body []byte) ([]byte, error)
}

// HTTPSender posts messages over HTTPS.
type HTTPSender struct {
	httpClient *http.Client
}

// NewHTTPSender builds a sender from the TLS settings in cfg. With
// UseTLSValidation off the gateway certificate is not verified. CertPath, when
// set, replaces the system roots. No client timeout is set; pass a configured
// client through WithHTTPClient to bound calls locally.
func NewHTTPSender(cfg *Config) (*HTTPSender, error) {
	cfg = configOrDefault(cfg)
	tlsCfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: !cfg.UseTLSValidation,
	}
	if cfg.CertPath != "" {
		pool, err := loadCertPool(cfg.CertPath)
		if err != nil {
			return nil, err
		}
		tlsCfg.RootCAs = pool
	}
	return &HTTPSender{
		httpClient: &http.Client{
			Transport: &http.Transport{TLSClientConfig: tlsCfg},
		},
	}, nil
}

// Send posts body to url. A non-2xx reply is returned as a TransportError
// carrying the status and body.
func (s *HTTPSender) Send(ctx context.Context, url string, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("create HTTP request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode, Body: respBody}
	}
	return respBody, nil
}

type clientOptions struct {
	sender     Sender
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*clientOptions)

// WithSender replaces the transport, for example with a stub in tests.
func WithSender(sender Sender) Option {
	return func(o *clientOptions) {
		o.sender = sender
	}
}

// WithHTTPClient sends through the given client instead of one built from
// the Config TLS settings.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = httpClient
	}
}

// WithLogger sets the logger. Card data and passwords are never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// Client submits requests to the SecurePay gateway. It holds no per-request
// state and is safe for concurrent use.
type Client struct {
	cfg    *Config
	sender Sender
	logger *slog.Logger
}

// NewClient validates cfg and prepares the transport.
func NewClient(cfg *Config, opts ...Option) (*Client, error) {
	cfg = configOrDefault(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	sender := o.sender
	switch {
	case sender != nil:
	case o.httpClient != nil:
		sender = &HTTPSender{httpClient: o.httpClient}
	default:
		s, err := NewHTTPSender(cfg)
		if err != nil {
			return nil, err
		}
		sender = s
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{cfg: cfg, sender: sender, logger: logger}, nil
}

// Submit serializes req, posts it to the action's endpoint and parses the
// reply. An unready request fails with IncompleteMessageError before anything
// is sent.
func (c *Client) Submit(ctx context.Context, req *Request) (*Response, error) {
	if !req.IsReadyToGenerate() {
		return nil, &IncompleteMessageError{Reason: "message is missing some elements"}
	}
	url, err := req.FullAPIURL()
	if err != nil {
		return nil, err
	}
	body, err := req.GenerateRequestMessage()
	if err != nil {
		return nil, err
	}
	return c.roundTrip(ctx, req, req.Action().RequestType(), url, body)
}

// Echo sends an Echo message to check connectivity and credentials. The
// reply status tells whether the gateway accepted them.
func (c *Client) Echo(ctx context.Context, req *Request) (*Response, error) {
	body, err := req.GenerateEchoMessage()
	if err != nil {
		return nil, err
	}
	return c.roundTrip(ctx, req, RequestTypeEcho, req.EchoURL(), body)
}

func (c *Client) roundTrip(ctx context.Context, req *Request, rt RequestType, url string, body []byte) (*Response, error) {
	c.logger.DebugContext(ctx, "securepay: submitting request",
		slog.String("request_type", string(rt)),
		slog.String("url", url),
		slog.String("merchant_id", req.MerchantID()),
		slog.Bool("test_mode", req.TestMode()),
	)

	raw, err := c.sender.Send(ctx, url, body)
	if err != nil {
		c.logger.WarnContext(ctx, "securepay: transport failure",
			slog.String("url", url),
			slog.Any("error", err),
		)
		return nil, err
	}

	resp, err := ParseResponse(c.cfg, raw)
	if err != nil {
		return nil, err
	}
	c.logger.DebugContext(ctx, "securepay: response parsed",
		slog.String("status_code", resp.StatusCode()),
		slog.Int("results", len(resp.results)),
	)
	return resp, nil
}
