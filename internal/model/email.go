package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultAttachmentMIMEType is used when an attachment arrives without a type.
const DefaultAttachmentMIMEType = "application/octet-stream"

var (
	// ErrEmailNotFound indicates that no email exists for the requested id.
	ErrEmailNotFound = errors.New("email not found")
	// ErrInvalidAttachment indicates that an attachment failed validation.
	ErrInvalidAttachment = errors.New("invalid attachment")
)

// Email is a spooled message together with its recipients and attachments.
type Email struct {
	EmailID      uuid.UUID         `json:"email_id" gorm:"type:text;primaryKey"`
	Sender       string            `json:"sender"`
	Subject      string            `json:"subject"`
	Body         string            `json:"body"`
	SendAt       time.Time         `json:"send_at" gorm:"index"`
	SendAttempts int               `json:"send_attempts"`
	Sent         bool              `json:"sent" gorm:"index"`
	LastError    string            `json:"last_error,omitempty"`
	Created      time.Time         `json:"created"`
	LastModified *time.Time        `json:"last_modified,omitempty"`
	Enabled      bool              `json:"enabled"`
	Recipients   []EmailRecipient  `json:"recipients,omitempty" gorm:"foreignKey:EmailID;references:EmailID;constraint:OnDelete:CASCADE"`
	Attachments  []EmailAttachment `json:"attachments,omitempty" gorm:"foreignKey:EmailID;references:EmailID;constraint:OnDelete:CASCADE"`
}

// EmailRecipient is one addressee of an Email.
type EmailRecipient struct {
	EmailRecipientID   uuid.UUID  `json:"email_recipient_id" gorm:"type:text;primaryKey"`
	EmailID            uuid.UUID  `json:"email_id" gorm:"type:text;index;not null"`
	Recipient          string     `json:"recipient"`
	IsPrimaryRecipient bool       `json:"is_primary_recipient"`
	IsCC               bool       `json:"is_cc"`
	IsBCC              bool       `json:"is_bcc"`
	Created            time.Time  `json:"created"`
	LastModified       *time.Time `json:"last_modified,omitempty"`
	Enabled            bool       `json:"enabled"`
}

// EmailAttachment is a file carried by an Email. Inline attachments are
// referenced from the body through their ContentID.
type EmailAttachment struct {
	EmailAttachmentID uuid.UUID  `json:"email_attachment_id" gorm:"type:text;primaryKey"`
	EmailID           uuid.UUID  `json:"email_id" gorm:"type:text;index;not null"`
	Name              string     `json:"name"`
	Inline            bool       `json:"inline"`
	ContentID         string     `json:"content_id,omitempty"`
	MIMEType          string     `json:"mime_type"`
	Data              []byte     `json:"data"`
	Created           time.Time  `json:"created"`
	LastModified      *time.Time `json:"last_modified,omitempty"`
	Enabled           bool       `json:"enabled"`
}

// NewEmailAttachment constructs an enabled attachment with a fresh id, defaulting the MIME type.
func NewEmailAttachment(emailID uuid.UUID, name, mimeType string, data []byte) EmailAttachment {
	normalizedType := strings.TrimSpace(mimeType)
	if normalizedType == "" {
		normalizedType = DefaultAttachmentMIMEType
	}
	return EmailAttachment{
		EmailAttachmentID: uuid.New(),
		EmailID:           emailID,
		Name:              strings.TrimSpace(name),
		MIMEType:          normalizedType,
		Data:              append([]byte(nil), data...),
		Created:           time.Now().UTC(),
		Enabled:           true,
	}
}

// Validate checks the attachment can be delivered.
func (attachment EmailAttachment) Validate() error {
	if strings.TrimSpace(attachment.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidAttachment)
	}
	if len(attachment.Data) == 0 {
		return fmt.Errorf("%w: %q has empty data", ErrInvalidAttachment, attachment.Name)
	}
	if attachment.Inline && strings.TrimSpace(attachment.ContentID) == "" {
		return fmt.Errorf("%w: inline attachment %q missing content id", ErrInvalidAttachment, attachment.Name)
	}
	return nil
}

// Size reports the payload length in bytes.
func (attachment EmailAttachment) Size() int {
	return len(attachment.Data)
}

// PrimaryRecipients returns the addresses on the To line.
func (email Email) PrimaryRecipients() []string {
	var addresses []string
	for _, recipient := range email.Recipients {
		if recipient.IsPrimaryRecipient {
			addresses = append(addresses, recipient.Recipient)
		}
	}
	return addresses
}

// AttachmentBytes sums the payload sizes of all attachments.
func (email Email) AttachmentBytes() int {
	total := 0
	for _, attachment := range email.Attachments {
		total += attachment.Size()
	}
	return total
}
