package masking

import "strings"

const maskToken = "****"

// sensitiveKeys are metadata keys whose values are masked before emission.
var sensitiveKeys = map[string]struct{}{
	"transaction_reference": {},
	"account_number":        {},
	"upi_id":                {},
}

// MaskSecret redacts a value while keeping its prefix and last four characters.
func MaskSecret(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	prefix, remainder := splitPrefix(trimmed)
	if len(remainder) <= 4 {
		return prefix + maskToken
	}
	return prefix + maskToken + remainder[len(remainder)-4:]
}

// MaskMetadata returns a copy of input with sensitive string values masked.
func MaskMetadata(input map[string]any) map[string]any {
	if len(input) == 0 {
		return nil
	}

	masked := make(map[string]any, len(input))
	for key, value := range input {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, ok := sensitiveKeys[key]; ok {
			if s, isString := value.(string); isString {
				value = MaskSecret(s)
			}
		}
		if nested, ok := value.(map[string]any); ok {
			value = MaskMetadata(nested)
		}
		masked[key] = value
	}
	if len(masked) == 0 {
		return nil
	}
	return masked
}

func splitPrefix(value string) (string, string) {
	cut := strings.LastIndexAny(value, "_-")
	if cut == -1 || cut == len(value)-1 {
		return "", value
	}
	return value[:cut+1], value[cut+1:]
}
