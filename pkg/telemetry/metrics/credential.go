package metrics

import (
	"context"

	"mercator-hq/callisto/pkg/credential"
)

// instrumentedFetcher counts bearer token fetches on the relay metrics.
type instrumentedFetcher struct {
	inner   credential.Fetcher
	metrics *RelayMetrics
}

// InstrumentFetcher wraps a credential fetcher so every fetch is recorded on
// the credential refresh counter. Cache hits never reach the fetcher and are
// deliberately not counted.
func InstrumentFetcher(inner credential.Fetcher, rm *RelayMetrics) credential.Fetcher {
	return &instrumentedFetcher{inner: inner, metrics: rm}
}

// Name implements credential.Fetcher.
func (f *instrumentedFetcher) Name() string { return f.inner.Name() }

// Fetch implements credential.Fetcher.
func (f *instrumentedFetcher) Fetch(ctx context.Context) (credential.Token, error) {
	tok, err := f.inner.Fetch(ctx)
	if err != nil {
		f.metrics.RecordCredentialRefresh("error")
		return credential.Token{}, err
	}
	f.metrics.RecordCredentialRefresh("success")
	return tok, nil
}
