package upstream

// Provider kind constants for SessionConfig.Provider.Kind.
const (
	// KindAzureOpenAI is the bring-your-own-model path against an Azure
	// OpenAI deployment authenticated with an AAD bearer token.
	KindAzureOpenAI = "azure-openai"
)

// Wire API constants for ProviderConfig.WireAPI.
const (
	// WireAPICompletions is the stateless chat-completions wire format.
	// The stateful "responses" format requires server-side response storage,
	// which the SDK does not enable, so BYOM sessions are pinned to this.
	WireAPICompletions = "completions"

	// WireAPIResponses is the stateful responses wire format. Not used by
	// the BYOM path; see WireAPICompletions.
	WireAPIResponses = "responses"
)

// ProviderConfig describes a caller-supplied upstream endpoint for the
// bring-your-own-model path. It is embedded in a SessionConfig and carries a
// freshly resolved bearer token.
type ProviderConfig struct {
	// Kind identifies the provider flavor (currently only KindAzureOpenAI).
	Kind string

	// BaseURL is the endpoint base URL of the deployment.
	BaseURL string

	// BearerToken is the short-lived AAD access token for the deployment.
	BearerToken string

	// WireAPI selects the wire format (always WireAPICompletions for BYOM).
	WireAPI string

	// APIVersion is the api-version query parameter sent to Azure.
	APIVersion string
}

// SessionConfig is the per-request upstream configuration produced by the
// model-path resolver. It is constructed fresh for every request and never
// mutated afterwards.
type SessionConfig struct {
	// Model is the model name to request. Empty means the upstream default.
	Model string

	// Streaming selects incremental delivery (chat) over a single terminal
	// result (summarize).
	Streaming bool

	// Provider is set only on the bring-your-own-model path.
	Provider *ProviderConfig
}
