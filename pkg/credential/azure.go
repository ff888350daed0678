package credential

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"strconv"
	"time"
)

// Resource is the token audience for Azure OpenAI.
const Resource = "https://cognitiveservices.azure.com"

// imdsEndpoint is the instance metadata service token endpoint, reachable
// only from inside Azure compute.
const imdsEndpoint = "http://169.254.169.254/metadata/identity/oauth2/token"

// ManagedIdentityFetcher obtains tokens from the IMDS endpoint using the
// compute instance's managed identity.
type ManagedIdentityFetcher struct {
	// Client is the HTTP client used for the metadata call. Defaults to a
	// short-timeout client since IMDS is link-local.
	Client *http.Client

	// Endpoint overrides the IMDS endpoint (tests only).
	Endpoint string
}

// Name implements Fetcher.
func (f *ManagedIdentityFetcher) Name() string { return "imds" }

// Fetch implements Fetcher.
func (f *ManagedIdentityFetcher) Fetch(ctx context.Context) (Token, error) {
	endpoint := f.Endpoint
	if endpoint == "" {
		endpoint = imdsEndpoint
	}
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 3 * time.Second}
	}

	q := url.Values{}
	q.Set("api-version", "2018-02-01")
	q.Set("resource", Resource)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Token{}, fmt.Errorf("build IMDS request: %w", err)
	}
	req.Header.Set("Metadata", "true")

	resp, err := client.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("IMDS request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Token{}, fmt.Errorf("read IMDS response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Token{}, newNoTokenError(fmt.Errorf("IMDS returned status %d", resp.StatusCode))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresOn   string `json:"expires_on"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Token{}, fmt.Errorf("decode IMDS response: %w", err)
	}
	if payload.AccessToken == "" {
		return Token{}, newNoTokenError(nil)
	}

	expiresOn, err := strconv.ParseInt(payload.ExpiresOn, 10, 64)
	if err != nil {
		return Token{}, fmt.Errorf("parse IMDS expires_on %q: %w", payload.ExpiresOn, err)
	}

	return Token{Value: payload.AccessToken, ExpiresAt: time.Unix(expiresOn, 0)}, nil
}

// AzureCLIFetcher obtains tokens by shelling out to the az CLI. This is the
// local-development path; it requires a prior "az login".
type AzureCLIFetcher struct {
	// Run executes the CLI and returns its stdout. Defaults to exec'ing az;
	// tests substitute a canned runner.
	Run func(ctx context.Context) ([]byte, error)
}

// Name implements Fetcher.
func (f *AzureCLIFetcher) Name() string { return "azure-cli" }

// Fetch implements Fetcher.
func (f *AzureCLIFetcher) Fetch(ctx context.Context) (Token, error) {
	run := f.Run
	if run == nil {
		run = runAzureCLI
	}

	out, err := run(ctx)
	if err != nil {
		return Token{}, newNoTokenError(err)
	}

	var payload struct {
		AccessToken string `json:"accessToken"`
		ExpiresOn   string `json:"expiresOn"`
		ExpiresUnix int64  `json:"expires_on"`
	}
	if err := json.Unmarshal(out, &payload); err != nil {
		return Token{}, fmt.Errorf("decode az CLI output: %w", err)
	}
	if payload.AccessToken == "" {
		return Token{}, newNoTokenError(nil)
	}

	expiresAt, err := parseCLIExpiry(payload.ExpiresUnix, payload.ExpiresOn)
	if err != nil {
		return Token{}, err
	}

	return Token{Value: payload.AccessToken, ExpiresAt: expiresAt}, nil
}

// runAzureCLI invokes az and captures its JSON output.
func runAzureCLI(ctx context.Context) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "az", "account", "get-access-token",
		"--resource", Resource, "--output", "json")
	return cmd.Output()
}

// parseCLIExpiry prefers the unix expires_on field emitted by recent az
// versions and falls back to the localized expiresOn timestamp.
func parseCLIExpiry(unix int64, local string) (time.Time, error) {
	if unix > 0 {
		return time.Unix(unix, 0), nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05.000000", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, local, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse az CLI expiresOn %q", local)
}

// ChainFetcher tries each fetcher in order and returns the first token.
// Mirrors the default credential chain: managed identity in Azure compute,
// CLI login on a workstation.
type ChainFetcher struct {
	Fetchers []Fetcher
}

// NewDefaultChain builds the production chain: IMDS, then az CLI.
func NewDefaultChain() *ChainFetcher {
	return &ChainFetcher{Fetchers: []Fetcher{
		&ManagedIdentityFetcher{},
		&AzureCLIFetcher{},
	}}
}

// Name implements Fetcher.
func (f *ChainFetcher) Name() string { return "chain" }

// Fetch implements Fetcher.
func (f *ChainFetcher) Fetch(ctx context.Context) (Token, error) {
	var lastErr error
	for _, fetcher := range f.Fetchers {
		tok, err := fetcher.Fetch(ctx)
		if err == nil {
			return tok, nil
		}
		lastErr = err
	}
	if credErr, ok := lastErr.(*CredentialError); ok {
		return Token{}, credErr
	}
	return Token{}, newNoTokenError(lastErr)
}
