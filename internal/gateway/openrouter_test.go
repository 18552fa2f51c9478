package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"neuronix/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient(Options{
		APIKey:     "test-key",
		HTTPClient: &http.Client{Transport: rt},
	})
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return client
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestGenerateReturnsTrimmedContent(t *testing.T) {
	t.Parallel()
	var gotAuth string
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		gotAuth = r.Header.Get("Authorization")
		return jsonResponse(http.StatusOK, `{"choices":[{"message":{"content":"  Hello \n"}}]}`), nil
	})

	text, err := client.Generate(context.Background(), "openai/gpt-4o", "hi")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if text != "Hello" {
		t.Fatalf("Generate() = %q, want %q", text, "Hello")
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("Authorization = %q, want bearer key", gotAuth)
	}
}

func TestGenerateSurfacesUpstreamErrorMessage(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusTooManyRequests, `{"error":{"message":"rate limited"}}`), nil
	})

	_, err := client.Generate(context.Background(), "openai/gpt-4o", "hi")
	var gwErr *Error
	if !errors.As(err, &gwErr) {
		t.Fatalf("Generate() error = %v, want *Error", err)
	}
	if gwErr.Status != http.StatusTooManyRequests {
		t.Fatalf("Status = %d, want 429", gwErr.Status)
	}
	if gwErr.Error() != "rate limited" {
		t.Fatalf("Error() = %q, want verbatim upstream message", gwErr.Error())
	}
}

func TestGeneratePassesRawBodyWhenNotJSON(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, "upstream exploded"), nil
	})

	_, err := client.Generate(context.Background(), "openai/gpt-4o", "hi")
	var gwErr *Error
	if !errors.As(err, &gwErr) {
		t.Fatalf("Generate() error = %v, want *Error", err)
	}
	if gwErr.Error() != "upstream exploded" {
		t.Fatalf("Error() = %q, want raw body", gwErr.Error())
	}
}

func TestGenerateMapsTimeouts(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return nil, context.DeadlineExceeded
	})

	_, err := client.Generate(context.Background(), "openai/gpt-4o", "hi")
	if !errors.Is(err, domain.ErrGatewayTimeout) {
		t.Fatalf("Generate() error = %v, want ErrGatewayTimeout", err)
	}
}

func TestGenerateRejectsEmptyChoices(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"choices":[]}`), nil
	})

	if _, err := client.Generate(context.Background(), "openai/gpt-4o", "hi"); err == nil {
		t.Fatalf("Generate() expected error for empty choices")
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()
	if _, err := NewClient(Options{}); err == nil {
		t.Fatalf("NewClient() expected missing key error")
	}
}
