package modelpath

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"mercator-hq/callisto/pkg/upstream"
)

// stubTokens counts Bearer calls and returns a scripted token or error.
type stubTokens struct {
	token string
	err   error
	calls int
}

func (s *stubTokens) Bearer(ctx context.Context) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.token, nil
}

func newTestResolver(creds TokenSource, in Inputs) *Resolver {
	return NewResolver(creds, func() Inputs { return in }, slog.Default())
}

func TestResolveDefaultPath(t *testing.T) {
	r := newTestResolver(&stubTokens{}, Inputs{})

	cfg, err := r.Resolve(context.Background(), true)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Model != "" {
		t.Errorf("Model = %q, want empty (factory default applies)", cfg.Model)
	}
	if cfg.Provider != nil {
		t.Errorf("Provider = %+v, want nil for hosted path", cfg.Provider)
	}
	if !cfg.Streaming {
		t.Errorf("Streaming = false, want true")
	}
}

func TestResolveNamedHostedModel(t *testing.T) {
	r := newTestResolver(&stubTokens{}, Inputs{ModelName: "gpt-5-mini"})

	cfg, err := r.Resolve(context.Background(), false)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Model != "gpt-5-mini" {
		t.Errorf("Model = %q, want %q", cfg.Model, "gpt-5-mini")
	}
	if cfg.Provider != nil {
		t.Errorf("Provider = %+v, want nil for hosted path", cfg.Provider)
	}
	if cfg.Streaming {
		t.Errorf("Streaming = true, want false")
	}
}

func TestResolveAzurePath(t *testing.T) {
	tokens := &stubTokens{token: "bearer-token"}
	r := newTestResolver(tokens, Inputs{
		Provider:      "azure",
		ModelName:     "gpt-4.1",
		AzureEndpoint: "https://example.openai.azure.com",
	})

	cfg, err := r.Resolve(context.Background(), true)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Model != "gpt-4.1" {
		t.Errorf("Model = %q, want %q", cfg.Model, "gpt-4.1")
	}
	p := cfg.Provider
	if p == nil {
		t.Fatal("Provider = nil, want Azure provider config")
	}
	if p.Kind != upstream.KindAzureOpenAI {
		t.Errorf("Kind = %q, want %q", p.Kind, upstream.KindAzureOpenAI)
	}
	if p.BaseURL != "https://example.openai.azure.com" {
		t.Errorf("BaseURL = %q, want endpoint", p.BaseURL)
	}
	if p.BearerToken != "bearer-token" {
		t.Errorf("BearerToken = %q, want %q", p.BearerToken, "bearer-token")
	}
	if p.WireAPI != upstream.WireAPICompletions {
		t.Errorf("WireAPI = %q, want %q", p.WireAPI, upstream.WireAPICompletions)
	}
	if p.APIVersion != azureAPIVersion {
		t.Errorf("APIVersion = %q, want %q", p.APIVersion, azureAPIVersion)
	}
	if tokens.calls != 1 {
		t.Errorf("Bearer calls = %d, want 1", tokens.calls)
	}
}

func TestResolveAzureCaseInsensitive(t *testing.T) {
	r := newTestResolver(&stubTokens{token: "tok"}, Inputs{
		Provider:      "Azure",
		ModelName:     "gpt-4.1",
		AzureEndpoint: "https://example.openai.azure.com",
	})

	cfg, err := r.Resolve(context.Background(), true)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Provider == nil {
		t.Error("Provider = nil, want Azure provider config")
	}
}

func TestResolveAzureMissingConfig(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
	}{
		{"missing endpoint", Inputs{Provider: "azure", ModelName: "gpt-4.1"}},
		{"missing model", Inputs{Provider: "azure", AzureEndpoint: "https://example.openai.azure.com"}},
		{"missing both", Inputs{Provider: "azure"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &stubTokens{token: "tok"}
			r := newTestResolver(tokens, tt.in)

			_, err := r.Resolve(context.Background(), true)
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Resolve() error = %T, want *ConfigurationError", err)
			}
			msg := err.Error()
			for _, want := range []string{"AZURE_OPENAI_ENDPOINT", "MODEL_NAME", "required"} {
				if !strings.Contains(msg, want) {
					t.Errorf("error %q missing %q", msg, want)
				}
			}
			if tokens.calls != 0 {
				t.Errorf("Bearer calls = %d, want 0 before config validation", tokens.calls)
			}
		})
	}
}

func TestResolveUnknownProvider(t *testing.T) {
	r := newTestResolver(&stubTokens{}, Inputs{Provider: "bedrock"})

	_, err := r.Resolve(context.Background(), true)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Resolve() error = %T, want *ConfigurationError", err)
	}
	if !strings.Contains(err.Error(), "bedrock") {
		t.Errorf("error %q should name the unknown provider", err.Error())
	}
}

func TestResolveAzureCredentialFailure(t *testing.T) {
	wantErr := errors.New("no token")
	r := newTestResolver(&stubTokens{err: wantErr}, Inputs{
		Provider:      "azure",
		ModelName:     "gpt-4.1",
		AzureEndpoint: "https://example.openai.azure.com",
	})

	_, err := r.Resolve(context.Background(), true)
	if !errors.Is(err, wantErr) {
		t.Errorf("Resolve() error = %v, want %v", err, wantErr)
	}
}

func TestResolveReadsInputsPerCall(t *testing.T) {
	in := Inputs{}
	r := NewResolver(&stubTokens{token: "tok"}, func() Inputs { return in }, slog.Default())

	cfg, err := r.Resolve(context.Background(), true)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Provider != nil {
		t.Fatal("first resolve should take the hosted path")
	}

	// Environment changes take effect on the next request.
	in = Inputs{Provider: "azure", ModelName: "gpt-4.1", AzureEndpoint: "https://example.openai.azure.com"}

	cfg, err = r.Resolve(context.Background(), true)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Provider == nil {
		t.Error("second resolve should take the Azure path")
	}
}
