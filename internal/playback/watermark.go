package playback

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Length of the on-screen identifier in hex characters.
const watermarkLength = 8

// Watermarker derives the short viewer identifier overlaid on playback. The
// mark is deterministic so repeated views by the same person show the same
// identifier, and non-invertible without the server secret, so a leaked
// recording can be traced without storing any id-to-viewer mapping.
type Watermarker struct {
	secret string
}

func NewWatermarker(secret string) (*Watermarker, error) {
	if secret == "" {
		return nil, fmt.Errorf("watermark secret is not configured")
	}
	return &Watermarker{secret: secret}, nil
}

// Derive maps a national ID (CPF) to an 8-character uppercase hex mark.
// Formatting characters are stripped first so "123.456.789-00" and
// "12345678900" derive the same mark. A wrong digit count is logged and
// still produces a mark: the watermark is a deterrent, and blocking
// playback over a malformed profile field is the wrong tradeoff.
func (w *Watermarker) Derive(nationalID string) (string, error) {
	normalized := normalizeDigits(nationalID)
	if normalized == "" {
		return "", fmt.Errorf("national id has no digits")
	}
	if len(normalized) != 11 {
		log.Warn().Int("digits", len(normalized)).Msg("watermark input has unexpected digit count")
	}

	mac := hmac.New(sha256.New, []byte(w.secret))
	mac.Write([]byte(normalized))
	digest := hex.EncodeToString(mac.Sum(nil))

	return strings.ToUpper(digest[:watermarkLength]), nil
}

func normalizeDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
