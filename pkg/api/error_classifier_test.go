package api

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/valyala/fasthttp"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ErrorKindUnknown},
		{"canceled", fmt.Errorf("wrapped: %w", context.Canceled), ErrorKindCanceled},
		{"deadline", context.DeadlineExceeded, ErrorKindTimeout},
		{"fasthttp timeout", fmt.Errorf("semrush request failed: %w", fasthttp.ErrTimeout), ErrorKindTimeout},
		{"dial timeout", fasthttp.ErrDialTimeout, ErrorKindTimeout},
		{"unknown authority", fmt.Errorf("wrapped: %w", x509.UnknownAuthorityError{}), ErrorKindTLS},
		{"op error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}, ErrorKindConnection},
		{"dns", &net.DNSError{Err: "no such host", Name: "api.semrush.test"}, ErrorKindConnection},
		{"message tls", errors.New("remote error: tls: handshake failure"), ErrorKindTLS},
		{"message refused", errors.New("dial tcp: connection refused"), ErrorKindConnection},
		{"other", errors.New("boom"), ErrorKindUnknown},
	}

	for _, test := range tests {
		if got := ClassifyError(test.err); got != test.want {
			t.Errorf("%s: expected %s, got %s", test.name, test.want, got)
		}
	}
}
