package decoder

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang-alpha-seek/pkg/logger"
)

// JSONDecoder decodes structured JSON out of raw model output. Generation
// responses frequently arrive wrapped in markdown code fences or with
// leading prose, so the decoder extracts the outermost JSON object before
// unmarshaling. It never substitutes a fallback value; recovery policy
// belongs to the caller.
type JSONDecoder struct {
	logger *logger.Logger
}

// NewJSONDecoder creates a new JSONDecoder.
func NewJSONDecoder(log *logger.Logger) *JSONDecoder {
	return &JSONDecoder{logger: log}
}

// Decode unmarshals raw into v, tolerating code-fence wrapping and
// surrounding prose. String values containing the two-character escape
// sequence \n are handled by the standard JSON rules and are never
// truncated.
func (d *JSONDecoder) Decode(raw string, v interface{}) error {
	cleaned := extractJSONObject(raw)
	if cleaned == "" {
		d.logger.Debug("No JSON object found in raw response", logger.StringField("raw", raw))
		return fmt.Errorf("no JSON object found in response")
	}

	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		d.logger.Debug("Failed to unmarshal response", logger.ErrorField(err), logger.StringField("raw", raw))
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// extractJSONObject returns the substring from the first '{' to the last
// '}' inclusive, which strips ```json fences and any prose around the
// payload. Returns "" when no object delimiters are present.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return ""
	}
	return raw[start : end+1]
}
