// Package contentid generates Content-ID values for inline attachments so an
// HTML body can reference them through cid: URLs.
package contentid

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// DefaultDomain is appended to tokens when no domain is configured.
	DefaultDomain   = "spooler.local"
	tokenByteLength = 18
)

var (
	// ErrRandomSourceFailure indicates that entropy retrieval failed.
	ErrRandomSourceFailure = errors.New("contentid: random_source_failure")
	// ErrMissingRandomSource indicates that a nil entropy source was provided.
	ErrMissingRandomSource = errors.New("contentid: missing_random_source")
)

// Generator draws Content-ID tokens from an entropy source.
type Generator struct {
	randomSource io.Reader
	domain       string
}

// NewGenerator constructs a Generator using randomSource and domain. An empty
// domain falls back to DefaultDomain.
func NewGenerator(randomSource io.Reader, domain string) (*Generator, error) {
	if randomSource == nil {
		return nil, ErrMissingRandomSource
	}
	normalizedDomain := strings.Trim(strings.TrimSpace(domain), "@<>")
	if normalizedDomain == "" {
		normalizedDomain = DefaultDomain
	}
	return &Generator{randomSource: randomSource, domain: normalizedDomain}, nil
}

// NewCryptoGenerator creates a Generator backed by crypto/rand.Reader.
func NewCryptoGenerator(domain string) (*Generator, error) {
	return NewGenerator(rand.Reader, domain)
}

// NewContentID returns a value of the form token@domain without angle brackets.
func (generator *Generator) NewContentID(ctx context.Context) (string, error) {
	if generator == nil {
		return "", ErrMissingRandomSource
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("contentid: context canceled: %w", err)
	}

	buffer := make([]byte, tokenByteLength)
	if _, err := io.ReadFull(generator.randomSource, buffer); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRandomSourceFailure, err)
	}
	return base64.RawURLEncoding.EncodeToString(buffer) + "@" + generator.domain, nil
}
