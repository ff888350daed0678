package modelpath

import (
	"fmt"
	"strings"
)

// encryptedContentSignature is the fixed substring the upstream returns when
// a deployment cannot decrypt SDK-encrypted prompt content.
const encryptedContentSignature = "Encrypted content is not supported"

// ModelCapabilityError replaces the raw encrypted-content rejection with a
// message that names the configured model, the root cause, and both
// remediation actions.
type ModelCapabilityError struct {
	// Model is the model name the request was resolved to.
	Model string
}

// Error implements the error interface.
func (e *ModelCapabilityError) Error() string {
	subject := "the configured model"
	if e.Model != "" {
		subject = fmt.Sprintf("model %q", e.Model)
	}
	return fmt.Sprintf(
		"%s does not support encrypted content: prompt content is encrypted before "+
			"transmission and only %s deployments can decrypt it. "+
			"Set MODEL_NAME to a supported model, or update the deployment to a supported family.",
		subject, strings.Join(SupportedFamilies, ", "))
}

// EnhanceError rewrites the distinguished encrypted-content rejection into a
// ModelCapabilityError for the given model. Every other error is returned
// unchanged, cause chain intact. The rewrite is selective and idempotent:
// an already-enhanced message no longer contains the upstream signature.
func EnhanceError(model string, err error) error {
	if err == nil {
		return nil
	}
	if !strings.Contains(err.Error(), encryptedContentSignature) {
		return err
	}
	return &ModelCapabilityError{Model: model}
}
