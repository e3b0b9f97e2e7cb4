// Package random produces reproducible pseudo-random values for test fixtures.
// A Generator seeded with the same value always yields the same sequence, which
// keeps fixture-driven tests repeatable when a failure needs to be replayed.
package random

import (
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	alphaNumericCharacters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	timeSpread             = 365 * 24 * time.Hour
)

var words = []string{
	"invoice", "report", "summary", "agenda", "minutes", "receipt", "statement", "notice",
	"quarterly", "monthly", "draft", "final", "signed", "archive", "backup", "scan",
	"contract", "proposal", "budget", "forecast", "roster", "schedule", "memo", "policy",
}

var domains = []string{"example.com", "example.org", "example.net", "mail.test"}

// mimeExtensions pairs MIME types with the file extension a sender would use.
var mimeExtensions = []struct {
	mimeType  string
	extension string
}{
	{"application/pdf", ".pdf"},
	{"text/plain", ".txt"},
	{"text/csv", ".csv"},
	{"image/png", ".png"},
	{"image/jpeg", ".jpg"},
	{"application/zip", ".zip"},
	{"application/json", ".json"},
	{"application/octet-stream", ".bin"},
}

// Generator wraps a seeded PCG source. It is not safe for concurrent use.
type Generator struct {
	source    *rand.Rand
	reference time.Time
	seed      uint64
}

// NewGenerator returns a Generator seeded with seed. Times are spread around the
// moment of construction.
func NewGenerator(seed uint64) *Generator {
	return NewGeneratorAt(seed, time.Now().UTC())
}

// NewGeneratorAt returns a Generator whose Time values are centred on reference.
func NewGeneratorAt(seed uint64, reference time.Time) *Generator {
	return &Generator{
		source:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		reference: reference.UTC().Truncate(time.Microsecond),
		seed:      seed,
	}
}

// Seed reports the seed the generator was created with.
func (generator *Generator) Seed() uint64 {
	return generator.seed
}

// Reference reports the instant Time values are spread around.
func (generator *Generator) Reference() time.Time {
	return generator.reference
}

// Int returns a value in [min, max].
func (generator *Generator) Int(min, max int) int {
	if min > max {
		min, max = max, min
	}
	return min + int(generator.offset(uint64(max)-uint64(min)))
}

// Int64 returns a value in [min, max].
func (generator *Generator) Int64(min, max int64) int64 {
	if min > max {
		min, max = max, min
	}
	return min + int64(generator.offset(uint64(max)-uint64(min)))
}

// Uint64 returns a value in [min, max].
func (generator *Generator) Uint64(min, max uint64) uint64 {
	if min > max {
		min, max = max, min
	}
	return min + generator.offset(max-min)
}

// offset returns a value in [0, span]. Spans are computed in uint64 so that
// full-width signed ranges wrap instead of overflowing.
func (generator *Generator) offset(span uint64) uint64 {
	if span == math.MaxUint64 {
		return generator.source.Uint64()
	}
	return generator.source.Uint64N(span + 1)
}

// Float64 returns a value in [min, max).
func (generator *Generator) Float64(min, max float64) float64 {
	if min > max {
		min, max = max, min
	}
	return min + generator.source.Float64()*(max-min)
}

func (generator *Generator) Bool() bool {
	return generator.source.IntN(2) == 1
}

// String returns an alphanumeric string whose length is in [minLength, maxLength].
func (generator *Generator) String(minLength, maxLength int) string {
	length := generator.Int(max(minLength, 0), max(maxLength, 0))
	var builder strings.Builder
	builder.Grow(length)
	for range length {
		builder.WriteByte(alphaNumericCharacters[generator.source.IntN(len(alphaNumericCharacters))])
	}
	return builder.String()
}

func (generator *Generator) Word() string {
	return Pick(generator, words)
}

// Words returns count words joined by single spaces.
func (generator *Generator) Words(count int) string {
	parts := make([]string, 0, count)
	for range count {
		parts = append(parts, generator.Word())
	}
	return strings.Join(parts, " ")
}

// Sentence returns a capitalised run of 4 to 10 words ending in a full stop.
func (generator *Generator) Sentence() string {
	sentence := generator.Words(generator.Int(4, 10))
	return strings.ToUpper(sentence[:1]) + sentence[1:] + "."
}

// Email returns a syntactically valid address on a reserved test domain.
func (generator *Generator) Email() string {
	localPart := strings.ToLower(generator.String(1, 1)) + strings.ToLower(generator.String(4, 11))
	return localPart + "@" + Pick(generator, domains)
}

// MIMEType returns one of the MIME types FileNameFor knows an extension for.
func (generator *Generator) MIMEType() string {
	return mimeExtensions[generator.source.IntN(len(mimeExtensions))].mimeType
}

// FileName returns a random file name with a known extension.
func (generator *Generator) FileName() string {
	return generator.FileNameFor(generator.MIMEType())
}

// FileNameFor returns a random file name whose extension matches mimeType.
// Unknown types get a .bin extension.
func (generator *Generator) FileNameFor(mimeType string) string {
	return generator.Word() + "-" + strings.ToLower(generator.String(4, 8)) + ExtensionFor(mimeType)
}

// ExtensionFor returns the extension FileNameFor uses for mimeType.
func ExtensionFor(mimeType string) string {
	normalized := strings.ToLower(strings.TrimSpace(mimeType))
	for _, candidate := range mimeExtensions {
		if candidate.mimeType == normalized {
			return candidate.extension
		}
	}
	return ".bin"
}

// Bytes returns a random payload whose length is in [minLength, maxLength].
func (generator *Generator) Bytes(minLength, maxLength int) []byte {
	payload := make([]byte, generator.Int(max(minLength, 0), max(maxLength, 0)))
	_, _ = generator.Read(payload)
	return payload
}

// Read fills p with random bytes. It never fails, so the Generator can back
// readers such as uuid.NewRandomFromReader.
func (generator *Generator) Read(p []byte) (int, error) {
	for index := range p {
		p[index] = byte(generator.source.Uint32())
	}
	return len(p), nil
}

// UUID returns a version 4 UUID drawn from the generator.
func (generator *Generator) UUID() uuid.UUID {
	identifier, err := uuid.NewRandomFromReader(generator)
	if err != nil {
		// Read never fails.
		panic(err)
	}
	return identifier
}

// Time returns an instant within a year either side of the reference time.
func (generator *Generator) Time() time.Time {
	offset := generator.Int64(-int64(timeSpread), int64(timeSpread))
	return generator.reference.Add(time.Duration(offset)).Truncate(time.Microsecond)
}

// TimeBefore returns an instant within a year before the reference time.
func (generator *Generator) TimeBefore() time.Time {
	offset := generator.Int64(int64(time.Second), int64(timeSpread))
	return generator.reference.Add(-time.Duration(offset)).Truncate(time.Microsecond)
}

// Pick returns a random element of values. It panics on an empty slice.
func Pick[T any](generator *Generator, values []T) T {
	return values[generator.source.IntN(len(values))]
}
