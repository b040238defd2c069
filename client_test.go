package securepay

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newGatewayServer(t *testing.T, status int, reply []byte, seen func(*http.Request, []byte)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read request body: %v", err)
		}
		if seen != nil {
			seen(r, body)
		}
		w.WriteHeader(status)
		w.Write(reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) (*Client, *Config) {
	t.Helper()
	cfg := fixedConfig(testNow)
	cfg.BaseTestURL = srv.URL
	client, err := NewClient(cfg, append([]Option{WithHTTPClient(srv.Client())}, opts...)...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, cfg
}

func TestClientSubmit(t *testing.T) {
	t.Parallel()

	var path, contentType string
	var body []byte
	srv := newGatewayServer(t, http.StatusOK, paymentReplyWithCode("00"), func(r *http.Request, b []byte) {
		path, contentType, body = r.URL.Path, r.Header.Get("Content-Type"), b
	})

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client, cfg := newTestClient(t, srv, WithLogger(logger))

	req, err := NewRequest(cfg, "ABC0001", "abc123", true)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if err := req.Attach(readyStandardPayment(t)); err != nil {
		t.Fatalf("attach: %v", err)
	}

	resp, err := client.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if path != "/xmlapi/payment" {
		t.Fatalf("expected path /xmlapi/payment got %s", path)
	}
	if !strings.HasPrefix(contentType, "text/xml") {
		t.Fatalf("expected text/xml content type got %s", contentType)
	}
	if !bytes.Contains(body, []byte("<RequestType>Payment</RequestType>")) {
		t.Fatalf("expected payment message got %s", body)
	}
	if !resp.IsFirstApproved() {
		t.Fatalf("expected approved response")
	}

	out := logs.String()
	if !strings.Contains(out, "submitting request") || !strings.Contains(out, "response parsed") {
		t.Fatalf("expected debug logs got %s", out)
	}
	if strings.Contains(out, "abc123") || strings.Contains(out, "4444333322221111") {
		t.Fatalf("expected secrets to stay out of logs got %s", out)
	}
}

func TestClientSubmitNotReady(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := newGatewayServer(t, http.StatusOK, nil, func(*http.Request, []byte) { hits.Add(1) })
	client, cfg := newTestClient(t, srv)

	req, err := NewRequest(cfg, "ABC0001", "abc123", true)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	var incomplete *IncompleteMessageError
	if _, err := client.Submit(context.Background(), req); !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteMessageError got %v", err)
	}
	if _, err := req.AddRefund(); err != nil {
		t.Fatalf("add refund: %v", err)
	}
	if _, err := client.Submit(context.Background(), req); !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteMessageError got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("expected nothing sent got %d requests", hits.Load())
	}
}

func TestClientTransportError(t *testing.T) {
	t.Parallel()

	srv := newGatewayServer(t, http.StatusInternalServerError, []byte("boom"), nil)
	client, cfg := newTestClient(t, srv)

	req, err := NewRequest(cfg, "ABC0001", "abc123", true)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if err := req.Attach(readyStandardPayment(t)); err != nil {
		t.Fatalf("attach: %v", err)
	}

	_, err = client.Submit(context.Background(), req)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError got %v", err)
	}
	if te.StatusCode != http.StatusInternalServerError || string(te.Body) != "boom" {
		t.Fatalf("unexpected transport error %+v", te)
	}
}

func TestClientEcho(t *testing.T) {
	t.Parallel()

	var path string
	var body []byte
	reply := []byte(`<SecurePayMessage><RequestType>Echo</RequestType><Status><statusCode>000</statusCode><statusDescription>Normal</statusDescription></Status></SecurePayMessage>`)
	srv := newGatewayServer(t, http.StatusOK, reply, func(r *http.Request, b []byte) {
		path, body = r.URL.Path, b
	})
	client, cfg := newTestClient(t, srv)

	req, err := NewRequest(cfg, "ABC0001", "abc123", true)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := client.Echo(context.Background(), req)
	if err != nil {
		t.Fatalf("echo: %v", err)
	}
	if path != "/xmlapi/payment" {
		t.Fatalf("expected path /xmlapi/payment got %s", path)
	}
	if !bytes.Contains(body, []byte("<RequestType>Echo</RequestType>")) {
		t.Fatalf("expected echo message got %s", body)
	}
	if !resp.IsSuccessful() {
		t.Fatalf("expected successful echo")
	}
}

type stubSender struct {
	url   string
	reply []byte
	err   error
}

func (s *stubSender) Send(_ context.Context, url string, _ []byte) ([]byte, error) {
	s.url = url
	return s.reply, s.err
}

func TestClientWithSender(t *testing.T) {
	t.Parallel()

	cfg := fixedConfig(testNow)
	sender := &stubSender{reply: []byte(`<SecurePayMessage>
  <RequestType>Periodic</RequestType>
  <Status><statusCode>0</statusCode><statusDescription>Normal</statusDescription></Status>
  <Periodic><PeriodicList count="1"><PeriodicItem ID="1"><clientID>payor-1</clientID><responseCode>00</responseCode></PeriodicItem></PeriodicList></Periodic>
</SecurePayMessage>`)}
	client, err := NewClient(cfg, WithSender(sender))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	req, err := NewRequest(cfg, "ABC01", "abc123", false)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	trigger, err := req.AddTriggerPayment()
	if err != nil {
		t.Fatalf("add trigger: %v", err)
	}
	if err := trigger.SetClientID("payor-1"); err != nil {
		t.Fatalf("set client id: %v", err)
	}
	if err := trigger.SetAmount("5.00"); err != nil {
		t.Fatalf("set amount: %v", err)
	}
	trigger.SetTransactionReference("invoice-1")

	resp, err := client.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sender.url != DefaultLiveURL+"/xmlapi/periodic" {
		t.Fatalf("unexpected url %s", sender.url)
	}
	if v, _ := resp.FirstClientID(); v != "payor-1" {
		t.Fatalf("expected clientID payor-1 got %s", v)
	}

	sender.err = &TransportError{URL: sender.url, Err: context.DeadlineExceeded}
	if _, err := client.Submit(context.Background(), req); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error got %v", err)
	}
}

func TestNewClientRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.DefaultCurrency = "XYZ"
	if _, err := NewClient(cfg, WithSender(&stubSender{})); err == nil {
		t.Fatalf("expected invalid config to be rejected")
	}
}

func TestHTTPSenderIgnoresGatewayTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(1200 * time.Millisecond)
		w.Write(paymentReplyWithCode("00"))
	}))
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.TimeoutValue = 1
	sender, err := NewHTTPSender(cfg)
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}
	reply, err := sender.Send(context.Background(), srv.URL, []byte("<SecurePayMessage/>"))
	if err != nil {
		t.Fatalf("expected timeoutValue to stay a message field got %v", err)
	}
	if len(reply) == 0 {
		t.Fatalf("expected reply body")
	}
}
