package geocode

import (
	"strings"

	"github.com/ohler55/ojg/oj"
)

// NormalizeAddress turns a stored address column value into display text.
// Device backends sometimes store a JSON blob instead of plain text; such
// blobs are reduced to "road, number, postcode, city". Returns "" when no
// usable address is present.
func NormalizeAddress(addr any) string {
	switch v := addr.(type) {
	case nil:
		return ""
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return ""
		}
		if strings.HasPrefix(trimmed, "{") {
			parsed, err := oj.ParseString(trimmed)
			if err != nil {
				return ""
			}
			if obj, ok := parsed.(map[string]any); ok {
				if joined := joinStoredParts(obj); joined != "" {
					return joined
				}
			}
			return ""
		}
		return trimmed
	case map[string]any:
		return joinStoredParts(v)
	default:
		return ""
	}
}

func joinStoredParts(obj map[string]any) string {
	return joinAddressParts(obj,
		[]string{"road", "street"},
		[]string{"house_number"},
		[]string{"postcode"},
		[]string{"city", "town", "village"})
}
