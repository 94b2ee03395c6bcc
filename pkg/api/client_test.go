package api

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func startTestServer(t *testing.T, handler fasthttp.RequestHandler) ClientOption {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: handler}
	go func() {
		_ = server.Serve(ln)
	}()
	t.Cleanup(func() {
		_ = ln.Close()
	})

	return WithDial(func(addr string) (net.Conn, error) {
		return ln.Dial()
	})
}

func testSettings() Settings {
	return Settings{
		BaseURL:  "http://semrush.test/",
		APIKey:   "test-key",
		Database: "br",
		Timeout:  2 * time.Second,
	}
}

func TestHTTPAPIClient_SendsEncodedParameters(t *testing.T) {
	var gotPath, gotMethod string
	got := map[string]string{}

	dial := startTestServer(t, func(ctx *fasthttp.RequestCtx) {
		gotMethod = string(ctx.Method())
		gotPath = string(ctx.Path())
		ctx.QueryArgs().VisitAll(func(k, v []byte) {
			got[string(k)] = string(v)
		})
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("Keyword;Search Volume\ncimento;40500")
	})

	client := NewHTTPAPIClient(testSettings(), dial)
	query, err := Gap(testSettings().Scope(), "a.com", []string{"b.com"}, GapShared, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := client.Call(context.Background(), query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != "GET" || gotPath != "/" {
		t.Errorf("Expected GET /, got %s %s", gotMethod, gotPath)
	}
	if got["domains"] != "*|or|a.com|*|or|b.com" {
		t.Errorf("Expected decoded domains expression, got %q", got["domains"])
	}
	if got["key"] != "test-key" || got["database"] != "br" || got["type"] != "domain_domains" {
		t.Errorf("Expected key/database/type parameters, got %v", got)
	}
	if !resp.Success() || resp.Body != "Keyword;Search Volume\ncimento;40500" {
		t.Errorf("Expected body passed through unchanged, got %d %q", resp.StatusCode, resp.Body)
	}
}

func TestHTTPAPIClient_NonSuccessStatusIsNotAnError(t *testing.T) {
	for _, status := range []int{fasthttp.StatusForbidden, fasthttp.StatusInternalServerError} {
		dial := startTestServer(t, func(ctx *fasthttp.RequestCtx) {
			ctx.SetStatusCode(status)
			ctx.SetBodyString("ERROR 132 :: API UNITS BALANCE IS ZERO")
		})

		resp, err := NewHTTPAPIClient(testSettings(), dial).Call(context.Background(), PhraseKDI(testSettings().Scope(), []string{"x"}))
		if err != nil {
			t.Fatalf("status %d: unexpected error: %v", status, err)
		}
		if resp.Success() || resp.StatusCode != status {
			t.Errorf("Expected status %d and no success, got %d", status, resp.StatusCode)
		}
		if !strings.HasPrefix(resp.Body, "ERROR 132") {
			t.Errorf("Expected raw body, got %q", resp.Body)
		}
	}
}

func TestHTTPAPIClient_Timeout(t *testing.T) {
	dial := startTestServer(t, func(ctx *fasthttp.RequestCtx) {
		time.Sleep(300 * time.Millisecond)
		ctx.SetBodyString("late")
	})

	settings := testSettings()
	settings.Timeout = 50 * time.Millisecond

	_, err := NewHTTPAPIClient(settings, dial).Call(context.Background(), PhraseRelated(settings.Scope(), "x", 1))
	if err == nil {
		t.Fatal("Expected timeout error")
	}
	if kind := ClassifyError(err); kind != ErrorKindTimeout {
		t.Errorf("Expected timeout kind, got %s (%v)", kind, err)
	}
}

func TestHTTPAPIClient_ConnectionErrorPropagates(t *testing.T) {
	dial := WithDial(func(addr string) (net.Conn, error) {
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	})

	_, err := NewHTTPAPIClient(testSettings(), dial).Call(context.Background(), PhraseRelated(testScope, "x", 1))
	if err == nil {
		t.Fatal("Expected connection error")
	}
	if kind := ClassifyError(err); kind != ErrorKindConnection {
		t.Errorf("Expected connection kind, got %s (%v)", kind, err)
	}
}

func TestHTTPAPIClient_NoRetry(t *testing.T) {
	var hits int32
	dial := startTestServer(t, func(ctx *fasthttp.RequestCtx) {
		atomic.AddInt32(&hits, 1)
		ctx.SetStatusCode(fasthttp.StatusBadGateway)
	})

	resp, err := NewHTTPAPIClient(testSettings(), dial).Call(context.Background(), PhraseRelated(testScope, "x", 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fasthttp.StatusBadGateway {
		t.Errorf("Expected 502, got %d", resp.StatusCode)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("Expected exactly 1 request, got %d", n)
	}
}

func TestHTTPAPIClient_AppliesRequestDelay(t *testing.T) {
	dial := startTestServer(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString("A;B\n1;2")
	})

	settings := testSettings()
	settings.RequestDelay = 40 * time.Millisecond
	client := NewHTTPAPIClient(settings, dial)

	start := time.Now()
	for i := 0; i < 2; i++ {
		if _, err := client.Call(context.Background(), PhraseRelated(settings.Scope(), "x", 1)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("Expected two delays of 40ms, took %v", elapsed)
	}
}

func TestHTTPAPIClient_RequestURLKeepsBaseQuery(t *testing.T) {
	c := NewHTTPAPIClient(Settings{BaseURL: "https://api.semrush.com/?export_escape=1"}).(*httpAPIClient)

	got, err := c.requestURL(PhraseRelated(testScope, "x", 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "https://api.semrush.com/?export_escape=1&database=br") {
		t.Errorf("unexpected URL %s", got)
	}
}
