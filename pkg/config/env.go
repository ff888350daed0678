package config

import (
	"os"
	"strings"

	"mercator-hq/callisto/pkg/modelpath"
)

// ModelPathFromEnv reads the per-request model path signals from the
// environment. Called for every request so changes take effect without a
// restart.
func ModelPathFromEnv() modelpath.Inputs {
	return modelpath.Inputs{
		Provider:      strings.TrimSpace(os.Getenv(modelpath.EnvProvider)),
		ModelName:     strings.TrimSpace(os.Getenv(modelpath.EnvModelName)),
		AzureEndpoint: strings.TrimSpace(os.Getenv(modelpath.EnvAzureEndpoint)),
	}
}

// HostedAPIKey reads the hosted endpoint API key from the environment
// variable named by the upstream configuration.
func (c *UpstreamConfig) HostedAPIKey() string {
	return os.Getenv(c.APIKeyEnv)
}
