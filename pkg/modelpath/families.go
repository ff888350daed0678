package modelpath

import "strings"

// SupportedFamilies lists the model family identifiers whose deployments can
// decrypt SDK-encrypted prompt content. A model outside this list still gets
// relayed; the upstream rejects it with the signature EnhanceError rewrites.
var SupportedFamilies = []string{"gpt-4.1", "gpt-5", "o4-mini"}

// SupportsEncryptedContent reports whether the model name belongs to a
// supported family. Matching is case-insensitive against the family as an
// exact name or as a prefix followed by "-" or ".".
func SupportsEncryptedContent(model string) bool {
	name := strings.ToLower(model)
	for _, family := range SupportedFamilies {
		if name == family {
			return true
		}
		if strings.HasPrefix(name, family) {
			switch name[len(family)] {
			case '-', '.':
				return true
			}
		}
	}
	return false
}
