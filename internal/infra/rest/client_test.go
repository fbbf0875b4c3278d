package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"clob_go/internal/domain"
	"clob_go/internal/infra"
)

type xResponse struct {
	X int `json:"x"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *infra.Metrics) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	m := &infra.Metrics{}
	return NewClient(server.URL, WithMetrics(m)), m
}

func TestGet_Success(t *testing.T) {
	client, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/thing" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"x":1}`))
	})

	got, err := Get[xResponse](context.Background(), client, "/thing", nil)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.X != 1 {
		t.Errorf("Expected x=1, got %d", got.X)
	}

	snap := m.Snapshot()
	if snap.RequestsTotal != 1 || snap.APIErrors != 0 || snap.TransportErrors != 0 {
		t.Errorf("unexpected metrics: %+v", snap)
	}
}

func TestGet_PathAppendedVerbatim(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "token_id=42" {
			t.Errorf("Expected query token_id=42, got %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"x":2}`))
	})

	got, err := Get[xResponse](context.Background(), client, "/book?token_id=42", nil)
	if err != nil || got.X != 2 {
		t.Fatalf("got %+v, %v", got, err)
	}
}

func TestGet_APIError(t *testing.T) {
	t.Run("plain text body", func(t *testing.T) {
		client, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("not found"))
		})

		_, err := Get[xResponse](context.Background(), client, "/missing", nil)

		apiErr, ok := domain.AsAPIError(err)
		if !ok {
			t.Fatalf("Expected APIError, got %T: %v", err, err)
		}
		if apiErr.Status != 404 || apiErr.Message != "not found" {
			t.Errorf("Expected {404, not found}, got {%d, %s}", apiErr.Status, apiErr.Message)
		}
		if m.Snapshot().APIErrors != 1 {
			t.Error("Expected api error to be counted")
		}
	})

	t.Run("json body kept verbatim", func(t *testing.T) {
		body := `{"error":"invalid signature"}`
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(body))
		})

		_, err := Get[xResponse](context.Background(), client, "/auth", nil)
		apiErr, ok := domain.AsAPIError(err)
		if !ok || apiErr.Status != 401 || apiErr.Message != body {
			t.Errorf("Expected verbatim 401 body, got %v", err)
		}
	})
}

func TestGet_UnreadableErrorBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Declared length exceeds what is written, so the body read fails.
		w.Header().Set("Content-Length", "100")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("short"))
	})

	_, err := Get[xResponse](context.Background(), client, "/", nil)

	apiErr, ok := domain.AsAPIError(err)
	if !ok {
		t.Fatalf("Expected APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Message != domain.UnknownErrorMessage {
		t.Errorf("Expected {502, %s}, got {%d, %s}", domain.UnknownErrorMessage, apiErr.Status, apiErr.Message)
	}
}

func TestWithTimeout_CopiesClient(t *testing.T) {
	shared := &http.Client{Timeout: 7 * time.Second}
	c := NewClient("http://localhost", WithHTTPClient(shared), WithTimeout(2*time.Second))

	if shared.Timeout != 7*time.Second {
		t.Errorf("shared client modified: timeout = %v", shared.Timeout)
	}
	if c.httpClient.Timeout != 2*time.Second {
		t.Errorf("client timeout = %v, want 2s", c.httpClient.Timeout)
	}
	if c.httpClient == shared {
		t.Error("Expected a copy of the shared client")
	}
}

func TestGet_UnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	m := &infra.Metrics{}
	client := NewClient(url, WithMetrics(m))

	_, err := Get[xResponse](context.Background(), client, "/thing", nil)
	if err == nil {
		t.Fatal("Expected error for closed server")
	}

	var te *domain.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Expected TransportError, got %T", err)
	}
	if te.Op != domain.OpSend {
		t.Errorf("Expected op send, got %s", te.Op)
	}
	if _, ok := domain.AsAPIError(err); ok {
		t.Error("Unreachable host must never be an APIError")
	}
	if m.Snapshot().TransportErrors != 1 {
		t.Error("Expected transport error to be counted")
	}
}

func TestGet_MalformedPath(t *testing.T) {
	client := NewClient("http://localhost", WithMetrics(&infra.Metrics{}))

	_, err := Get[xResponse](context.Background(), client, "/bad\x7fpath", nil)

	var te *domain.TransportError
	if !errors.As(err, &te) || te.Op != domain.OpRequest {
		t.Errorf("Expected request TransportError, got %v", err)
	}
}

func TestGet_DecodeFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`<html>gateway</html>`))
	})

	_, err := Get[xResponse](context.Background(), client, "/thing", nil)

	var te *domain.TransportError
	if !errors.As(err, &te) || te.Op != domain.OpDecode {
		t.Errorf("Expected decode TransportError, got %v", err)
	}
	if _, ok := domain.AsAPIError(err); ok {
		t.Error("Malformed success body must not be an APIError")
	}
}

func TestGet_Cancelled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"x":1}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Get[xResponse](ctx, client, "/thing", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestHeaders_DefaultsAndOverride(t *testing.T) {
	var (
		mu  sync.Mutex
		got http.Header
	)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = r.Header.Clone()
		mu.Unlock()
		w.Write([]byte(`{"x":1}`))
	})
	header := func() http.Header {
		mu.Lock()
		defer mu.Unlock()
		return got
	}

	t.Run("defaults", func(t *testing.T) {
		if _, err := Get[xResponse](context.Background(), client, "/", nil); err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if header().Get("User-Agent") != infra.DefaultUserAgent {
			t.Errorf("User-Agent = %q", header().Get("User-Agent"))
		}
		if header().Get("Accept") != "*/*" {
			t.Errorf("Accept = %q", header().Get("Accept"))
		}
		if header().Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", header().Get("Content-Type"))
		}
	})

	t.Run("connection keep-alive", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, "http://localhost/", nil)
		if err != nil {
			t.Fatalf("NewRequest failed: %v", err)
		}
		client.applyHeaders(req, nil)
		if req.Header.Get("Connection") != "keep-alive" {
			t.Errorf("Connection = %q, want keep-alive", req.Header.Get("Connection"))
		}
	})

	t.Run("override replaces default", func(t *testing.T) {
		headers := domain.Headers{
			"user-agent":   "custom-agent",
			"POLY_API_KEY": "key-1",
		}
		if _, err := Get[xResponse](context.Background(), client, "/", headers); err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if vals := header().Values("User-Agent"); len(vals) != 1 || vals[0] != "custom-agent" {
			t.Errorf("User-Agent values = %v, want [custom-agent]", vals)
		}
		if header().Get("POLY_API_KEY") != "key-1" {
			t.Errorf("POLY_API_KEY = %q", header().Get("POLY_API_KEY"))
		}
		if header().Get("Accept") != "*/*" {
			t.Error("Defaults must stay when not overridden")
		}
	})

	t.Run("override applies to one call only", func(t *testing.T) {
		if _, err := Get[xResponse](context.Background(), client, "/", nil); err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if header().Get("User-Agent") != infra.DefaultUserAgent {
			t.Errorf("User-Agent leaked from previous call: %q", header().Get("User-Agent"))
		}
	})
}

type echoBody struct {
	OrderID string `json:"orderID"`
}

func TestBodyMethods(t *testing.T) {
	type seen struct {
		method string
		body   string
	}
	var (
		mu       sync.Mutex
		received seen
	)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		received = seen{method: r.Method, body: string(b)}
		mu.Unlock()
		w.Write([]byte(`{"x":7}`))
	})
	lastSeen := func() seen {
		mu.Lock()
		defer mu.Unlock()
		return received
	}
	ctx := context.Background()

	t.Run("post", func(t *testing.T) {
		got, err := Post[xResponse](ctx, client, "/order", echoBody{OrderID: "0x1"}, nil)
		if err != nil || got.X != 7 {
			t.Fatalf("got %+v, %v", got, err)
		}
		last := lastSeen()
		if last.method != http.MethodPost || last.body != `{"orderID":"0x1"}` {
			t.Errorf("unexpected request %+v", last)
		}
	})

	t.Run("delete without body", func(t *testing.T) {
		if _, err := Delete[xResponse](ctx, client, "/cancel-all", nil); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		last := lastSeen()
		if last.method != http.MethodDelete || last.body != "" {
			t.Errorf("unexpected request %+v", last)
		}
	})

	t.Run("delete with body", func(t *testing.T) {
		if _, err := DeleteWithBody[xResponse](ctx, client, "/order", echoBody{OrderID: "0x2"}, nil); err != nil {
			t.Fatalf("DeleteWithBody failed: %v", err)
		}
		last := lastSeen()
		var decoded echoBody
		if err := json.Unmarshal([]byte(last.body), &decoded); err != nil || decoded.OrderID != "0x2" {
			t.Errorf("unexpected body %q", last.body)
		}
		if last.method != http.MethodDelete {
			t.Errorf("unexpected method %s", last.method)
		}
	})
}

func TestPost_EncodeFailure(t *testing.T) {
	var called atomic.Bool
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called.Store(true)
	})

	_, err := Post[xResponse](context.Background(), client, "/order", make(chan int), nil)

	var te *domain.TransportError
	if !errors.As(err, &te) || te.Op != domain.OpEncode {
		t.Errorf("Expected encode TransportError, got %v", err)
	}
	if called.Load() {
		t.Error("Request must not be sent when the body cannot be encoded")
	}
}

func TestClient_Concurrent(t *testing.T) {
	client, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"x":1}`))
	})

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Get[xResponse](context.Background(), client, "/", nil); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Get failed: %v", err)
	}
	snap := m.Snapshot()
	if snap.RequestsTotal != 20 {
		t.Errorf("Expected 20 requests, got %d", snap.RequestsTotal)
	}
	if snap.InFlight != 0 {
		t.Errorf("Expected 0 in flight, got %d", snap.InFlight)
	}
}
