package modelpath

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"mercator-hq/callisto/pkg/upstream"
)

// Environment variable names consumed by the resolver. They are read once
// per request, never cached, so configuration changes take effect without a
// process restart.
const (
	// EnvProvider selects the model path: unset for the hosted default,
	// "azure" for bring-your-own-model.
	EnvProvider = "MODEL_PROVIDER"

	// EnvModelName names the model to use.
	EnvModelName = "MODEL_NAME"

	// EnvAzureEndpoint is the Azure OpenAI deployment endpoint for BYOM.
	EnvAzureEndpoint = "AZURE_OPENAI_ENDPOINT"
)

// ProviderAzure is the provider selector value for the BYOM path.
const ProviderAzure = "azure"

// azureAPIVersion is the api-version pinned for BYOM sessions.
const azureAPIVersion = "2025-04-01-preview"

// Inputs are the raw model-path configuration signals for one request.
type Inputs struct {
	Provider      string
	ModelName     string
	AzureEndpoint string
}

// TokenSource supplies the bearer token for the BYOM path. Implemented by
// credential.Cache.
type TokenSource interface {
	Bearer(ctx context.Context) (string, error)
}

// Resolver turns the per-request configuration signals into a session
// configuration.
type Resolver struct {
	creds  TokenSource
	inputs func() Inputs
	logger *slog.Logger
}

// NewResolver creates a resolver. inputs supplies the configuration signals
// for each call (production wires config.ModelPathFromEnv); creds supplies
// the BYOM bearer token.
func NewResolver(creds TokenSource, inputs func() Inputs, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{creds: creds, inputs: inputs, logger: logger}
}

// Resolve produces a fresh SessionConfig for one request, or fails with a
// ConfigurationError (incoherent selector) or a credential error (BYOM token
// fetch). BYOM takes precedence over the named-model path.
func (r *Resolver) Resolve(ctx context.Context, streaming bool) (upstream.SessionConfig, error) {
	in := r.inputs()
	provider := strings.ToLower(strings.TrimSpace(in.Provider))

	switch provider {
	case ProviderAzure:
		return r.resolveAzure(ctx, in, streaming)
	case "":
		r.warnUnsupported(in.ModelName)
		return upstream.SessionConfig{Model: in.ModelName, Streaming: streaming}, nil
	default:
		return upstream.SessionConfig{}, &ConfigurationError{
			Message: fmt.Sprintf("unknown %s %q: expected %q or unset",
				EnvProvider, in.Provider, ProviderAzure),
		}
	}
}

// resolveAzure handles the BYOM path: both the endpoint and the model name
// must be configured, and a bearer token is resolved for every request.
func (r *Resolver) resolveAzure(ctx context.Context, in Inputs, streaming bool) (upstream.SessionConfig, error) {
	if in.ModelName == "" || in.AzureEndpoint == "" {
		return upstream.SessionConfig{}, &ConfigurationError{
			Message: fmt.Sprintf("both %s and %s are required when %s=%s",
				EnvAzureEndpoint, EnvModelName, EnvProvider, ProviderAzure),
		}
	}

	token, err := r.creds.Bearer(ctx)
	if err != nil {
		return upstream.SessionConfig{}, err
	}

	r.warnUnsupported(in.ModelName)

	return upstream.SessionConfig{
		Model:     in.ModelName,
		Streaming: streaming,
		Provider: &upstream.ProviderConfig{
			Kind:        upstream.KindAzureOpenAI,
			BaseURL:     in.AzureEndpoint,
			BearerToken: token,
			WireAPI:     upstream.WireAPICompletions,
			APIVersion:  azureAPIVersion,
		},
	}, nil
}

// warnUnsupported emits a non-fatal warning when a named model falls outside
// the supported families. The request proceeds regardless; the upstream
// rejection, if it comes, is rewritten by EnhanceError.
func (r *Resolver) warnUnsupported(model string) {
	if model == "" || SupportsEncryptedContent(model) {
		return
	}
	r.logger.Warn("configured model is outside the supported families and may reject encrypted prompts",
		"model", model,
		"supported_families", strings.Join(SupportedFamilies, ", "),
	)
}
