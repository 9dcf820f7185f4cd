// Package playback issues the short-lived credentials that gate video
// delivery: CDN embed tokens and viewer watermark identifiers. Everything
// here runs server-side only; the secrets never reach a client.
package playback

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// The CDN recomputes the token as SHA256(tokenSecret + videoID + expires)
// over the decimal unix expiry. The library ID travels in the URL path and
// is NOT part of the signed string. This field order is the CDN's
// verification contract, not a local choice; do not reorder.

// SignedURL is a playback authorization. It self-expires and cannot be
// revoked early.
type SignedURL struct {
	URL       string
	ExpiresAt int64
}

// Signer builds signed embed URLs for one Bunny Stream library.
type Signer struct {
	secret       string
	libraryID    string
	embedBaseURL string
	now          func() time.Time
}

// NewSigner fails when the token secret is absent so that a misconfigured
// deployment can never fall back to issuing unsigned URLs.
func NewSigner(secret, libraryID, embedBaseURL string) (*Signer, error) {
	if secret == "" {
		return nil, fmt.Errorf("playback token secret is not configured")
	}
	if libraryID == "" {
		return nil, fmt.Errorf("playback library id is not configured")
	}
	return &Signer{
		secret:       secret,
		libraryID:    libraryID,
		embedBaseURL: embedBaseURL,
		now:          time.Now,
	}, nil
}

// SignEmbedURL returns the embed URL for videoID, valid for ttl.
func (s *Signer) SignEmbedURL(videoID string, ttl time.Duration) (*SignedURL, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video id is required")
	}

	expires := s.now().Add(ttl).Unix()
	token := s.token(videoID, expires)

	return &SignedURL{
		URL:       fmt.Sprintf("%s/%s/%s?token=%s&expires=%d", s.embedBaseURL, s.libraryID, videoID, token, expires),
		ExpiresAt: expires,
	}, nil
}

func (s *Signer) token(videoID string, expires int64) string {
	sum := sha256.Sum256([]byte(s.secret + videoID + fmt.Sprintf("%d", expires)))
	return hex.EncodeToString(sum[:])
}
