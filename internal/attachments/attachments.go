package attachments

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/temirov/spooler/internal/model"
)

const specifierSeparator = "::"

// ErrLimitExceeded indicates that attachments break a count or size limit.
var ErrLimitExceeded = errors.New("attachment limit exceeded")

// Limits caps attachment count and payload sizes.
type Limits struct {
	MaxCount          int
	MaxSizeBytes      int
	MaxTotalSizeBytes int
}

// DefaultLimits allows 10 attachments of up to 5 MiB each and 25 MiB in total.
func DefaultLimits() Limits {
	return Limits{
		MaxCount:          10,
		MaxSizeBytes:      5 * 1024 * 1024,
		MaxTotalSizeBytes: 25 * 1024 * 1024,
	}
}

// ContentIDGenerator supplies Content-ID values for inline attachments.
type ContentIDGenerator interface {
	NewContentID(ctx context.Context) (string, error)
}

// Load reads each "path" or "path::mime/type" specifier into an attachment.
// Missing MIME types are sniffed from the file contents.
func Load(inputs []string) ([]model.EmailAttachment, error) {
	loaded := make([]model.EmailAttachment, 0, len(inputs))
	for _, input := range inputs {
		path, contentType := splitInput(input)
		if path == "" {
			return nil, fmt.Errorf("attachment specifier %q missing path", input)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read attachment %s: %w", path, err)
		}
		if contentType == "" {
			contentType = mimetype.Detect(data).String()
		}
		loaded = append(loaded, model.NewEmailAttachment(uuid.Nil, filepath.Base(path), contentType, data))
	}
	return loaded, nil
}

func splitInput(input string) (string, string) {
	path, contentType, _ := strings.Cut(input, specifierSeparator)
	return strings.TrimSpace(path), strings.TrimSpace(contentType)
}

// Normalize validates attachments against limits and returns cleaned copies:
// names are trimmed and stripped of control characters, MIME types defaulted,
// and inline attachments without a Content-ID receive one from contentIDs.
func Normalize(ctx context.Context, attachments []model.EmailAttachment, limits Limits, contentIDs ContentIDGenerator) ([]model.EmailAttachment, error) {
	if len(attachments) == 0 {
		return nil, nil
	}
	if limits.MaxCount > 0 && len(attachments) > limits.MaxCount {
		return nil, fmt.Errorf("%w: too many attachments, max %d", ErrLimitExceeded, limits.MaxCount)
	}

	totalSize := 0
	normalized := make([]model.EmailAttachment, 0, len(attachments))
	for index, attachment := range attachments {
		name := sanitizeFilename(attachment.Name)
		if name == "" {
			return nil, fmt.Errorf("attachment %d missing filename", index+1)
		}
		payloadSize := len(attachment.Data)
		if payloadSize == 0 {
			return nil, fmt.Errorf("attachment %q has empty data", name)
		}
		if limits.MaxSizeBytes > 0 && payloadSize > limits.MaxSizeBytes {
			return nil, fmt.Errorf("%w: attachment %q exceeds %d bytes", ErrLimitExceeded, name, limits.MaxSizeBytes)
		}
		totalSize += payloadSize

		attachment.Name = name
		attachment.Data = append([]byte(nil), attachment.Data...)
		attachment.MIMEType = strings.TrimSpace(attachment.MIMEType)
		if attachment.MIMEType == "" {
			attachment.MIMEType = model.DefaultAttachmentMIMEType
		}
		attachment.ContentID = strings.Trim(strings.TrimSpace(attachment.ContentID), "<>")
		if attachment.Inline && attachment.ContentID == "" {
			if contentIDs == nil {
				return nil, fmt.Errorf("inline attachment %q needs a content id", name)
			}
			contentID, err := contentIDs.NewContentID(ctx)
			if err != nil {
				return nil, fmt.Errorf("content id for %q: %w", name, err)
			}
			attachment.ContentID = contentID
		}
		normalized = append(normalized, attachment)
	}

	if limits.MaxTotalSizeBytes > 0 && totalSize > limits.MaxTotalSizeBytes {
		return nil, fmt.Errorf("%w: attachments exceed total limit of %d bytes", ErrLimitExceeded, limits.MaxTotalSizeBytes)
	}
	return normalized, nil
}

func sanitizeFilename(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(cleaned)
}
