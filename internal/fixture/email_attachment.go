// Package fixture binds the generic builder to the spool entities so tests and
// the seeding tool can produce realistic emails, recipients and attachments.
package fixture

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/temirov/spooler/internal/builder"
	"github.com/temirov/spooler/internal/contentid"
	"github.com/temirov/spooler/internal/model"
	"github.com/temirov/spooler/internal/random"
)

const (
	minAttachmentPayload = 32
	maxAttachmentPayload = 4096
)

// EmailAttachmentBuilder builds model.EmailAttachment values.
type EmailAttachmentBuilder = builder.Builder[model.EmailAttachment]

// NewEmailAttachmentBuilder returns a builder whose default value is an enabled,
// empty attachment and whose random values are deliverable attachments.
func NewEmailAttachmentBuilder(generator *random.Generator) *EmailAttachmentBuilder {
	return builder.New[model.EmailAttachment](generator,
		builder.WithFactory(func() model.EmailAttachment {
			return model.EmailAttachment{Enabled: true}
		}),
		builder.WithDefaultRandomizer[model.EmailAttachment](randomizeEmailAttachment),
	)
}

func randomizeEmailAttachment(attachment *model.EmailAttachment, generator *random.Generator) {
	attachment.MIMEType = generator.MIMEType()
	attachment.Name = generator.FileNameFor(attachment.MIMEType)
	attachment.Data = generator.Bytes(minAttachmentPayload, maxAttachmentPayload)
	attachment.Created = generator.TimeBefore()
	attachment.LastModified = nil
	attachment.Enabled = true
	attachment.ContentID = ""
	if attachment.Inline {
		attachment.ContentID = randomContentID(generator)
	}
}

func randomContentID(generator *random.Generator) string {
	return strings.ToLower(generator.String(16, 16)) + "@" + contentid.DefaultDomain
}

// ForEmail ties the attachment to emailID.
func ForEmail(emailID uuid.UUID) func(*model.EmailAttachment) {
	return func(attachment *model.EmailAttachment) {
		attachment.EmailID = emailID
	}
}

// AsInline marks the attachment inline with contentID.
func AsInline(contentID string) func(*model.EmailAttachment) {
	return func(attachment *model.EmailAttachment) {
		attachment.Inline = true
		attachment.ContentID = contentID
	}
}

// WithPayload sets the file name, MIME type and data together.
func WithPayload(name, mimeType string, data []byte) func(*model.EmailAttachment) {
	return func(attachment *model.EmailAttachment) {
		attachment.Name = name
		attachment.MIMEType = mimeType
		attachment.Data = append([]byte(nil), data...)
	}
}

// ModifiedAt stamps LastModified.
func ModifiedAt(at time.Time) func(*model.EmailAttachment) {
	return func(attachment *model.EmailAttachment) {
		modified := at.UTC()
		attachment.LastModified = &modified
	}
}
