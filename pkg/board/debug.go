package board

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/versjoost/tube-timing/pkg/tfl"
)

const defaultDebugPath = "tube-timing-debug.json"

// debugCapture accumulates the raw API payloads and resolution results of a
// single invocation for a --debug dump. Credentials are redacted on write.
type debugCapture struct {
	path string
	data map[string]any
}

func newDebugCapture(path string) *debugCapture {
	if path == "" {
		return nil
	}

	log.Warn().Msg("Debug output may include sensitive data; app_key will be redacted")

	return &debugCapture{path: path, data: map[string]any{}}
}

func (d *debugCapture) add(key string, value any) {
	if d == nil {
		return
	}

	d.data[key] = value
}

func (d *debugCapture) write(client *tfl.Client) {
	if d == nil {
		return
	}

	// Round-trip through JSON so typed payloads become plain values the
	// redaction walker understands
	rawBytes, err := json.Marshal(d.data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode debug data")
		return
	}

	var plain any
	if err := json.Unmarshal(rawBytes, &plain); err != nil {
		log.Error().Err(err).Msg("Failed to decode debug data")
		return
	}

	redacted, err := json.MarshalIndent(client.RedactValue(plain), "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode debug data")
		return
	}

	if err := os.WriteFile(d.path, redacted, 0644); err != nil {
		log.Error().Err(err).Str("path", d.path).Msg("Failed to write debug file")
		return
	}

	log.Info().Str("path", d.path).Msg("Wrote debug payloads")
}
