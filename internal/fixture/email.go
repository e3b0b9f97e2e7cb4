package fixture

import (
	"strings"
	"time"

	"github.com/temirov/spooler/internal/builder"
	"github.com/temirov/spooler/internal/model"
	"github.com/temirov/spooler/internal/random"
)

// EmailBuilder builds model.Email values.
type EmailBuilder = builder.Builder[model.Email]

// EmailRecipientBuilder builds model.EmailRecipient values.
type EmailRecipientBuilder = builder.Builder[model.EmailRecipient]

// NewEmailBuilder returns a builder for unsent, enabled emails. Random emails
// carry one primary recipient; any attachments produced by filled collections
// are made deliverable and re-parented onto the email.
func NewEmailBuilder(generator *random.Generator) *EmailBuilder {
	return builder.New[model.Email](generator,
		builder.WithFactory(func() model.Email {
			return model.Email{Enabled: true}
		}),
		builder.WithDefaultRandomizer[model.Email](randomizeEmail),
	)
}

// NewEmailRecipientBuilder returns a builder for enabled recipients.
func NewEmailRecipientBuilder(generator *random.Generator) *EmailRecipientBuilder {
	return builder.New[model.EmailRecipient](generator,
		builder.WithFactory(func() model.EmailRecipient {
			return model.EmailRecipient{Enabled: true}
		}),
		builder.WithDefaultRandomizer[model.EmailRecipient](randomizeEmailRecipient),
	)
}

func randomizeEmail(email *model.Email, generator *random.Generator) {
	subject := generator.Words(generator.Int(2, 6))
	email.Sender = generator.Email()
	email.Subject = strings.ToUpper(subject[:1]) + subject[1:]
	email.Body = generator.Sentence() + " " + generator.Sentence()
	email.Created = generator.TimeBefore()
	email.SendAt = email.Created.Add(time.Duration(generator.Int(0, 3600)) * time.Second)
	email.SendAttempts = 0
	email.Sent = false
	email.LastError = ""
	email.LastModified = nil
	email.Enabled = true

	email.Recipients = []model.EmailRecipient{
		NewEmailRecipientBuilder(generator).
			WithRandomProps().
			WithProp(AsPrimaryRecipient()).
			Build(),
	}
	for index := range email.Recipients {
		email.Recipients[index].EmailID = email.EmailID
	}
	for index := range email.Attachments {
		attachment := &email.Attachments[index]
		randomizeEmailAttachment(attachment, generator)
		attachment.EmailID = email.EmailID
	}
}

func randomizeEmailRecipient(recipient *model.EmailRecipient, generator *random.Generator) {
	recipient.Recipient = generator.Email()
	recipient.IsPrimaryRecipient, recipient.IsCC, recipient.IsBCC = false, false, false
	switch generator.Int(0, 2) {
	case 0:
		recipient.IsPrimaryRecipient = true
	case 1:
		recipient.IsCC = true
	default:
		recipient.IsBCC = true
	}
	recipient.Created = generator.TimeBefore()
	recipient.LastModified = nil
	recipient.Enabled = true
}

// AsPrimaryRecipient puts the recipient on the To line.
func AsPrimaryRecipient() func(*model.EmailRecipient) {
	return func(recipient *model.EmailRecipient) {
		recipient.IsPrimaryRecipient, recipient.IsCC, recipient.IsBCC = true, false, false
	}
}

// WithRecipients appends primary recipients for each address.
func WithRecipients(generator *random.Generator, addresses ...string) func(*model.Email) {
	return func(email *model.Email) {
		for _, address := range addresses {
			recipient := NewEmailRecipientBuilder(generator).
				WithProp(func(recipient *model.EmailRecipient) {
					recipient.EmailRecipientID = generator.UUID()
					recipient.EmailID = email.EmailID
					recipient.Recipient = address
					recipient.Created = generator.Reference()
				}).
				WithProp(AsPrimaryRecipient()).
				Build()
			email.Recipients = append(email.Recipients, recipient)
		}
	}
}

// WithRandomRecipients appends count random recipients of any kind.
func WithRandomRecipients(generator *random.Generator, count int) func(*model.Email) {
	return func(email *model.Email) {
		recipients := NewEmailRecipientBuilder(generator).
			WithRandomProps().
			WithProp(func(recipient *model.EmailRecipient) { recipient.EmailID = email.EmailID }).
			BuildMany(count)
		email.Recipients = append(email.Recipients, recipients...)
	}
}

// WithAttachments appends copies of attachments re-parented onto the email.
// The email's EmailID must already be final when this prop runs.
func WithAttachments(attachments ...model.EmailAttachment) func(*model.Email) {
	return func(email *model.Email) {
		for _, attachment := range attachments {
			attachment.EmailID = email.EmailID
			attachment.Data = append([]byte(nil), attachment.Data...)
			email.Attachments = append(email.Attachments, attachment)
		}
	}
}

// WithRandomAttachments appends count random attachments.
func WithRandomAttachments(generator *random.Generator, count int) func(*model.Email) {
	return func(email *model.Email) {
		attachments := NewEmailAttachmentBuilder(generator).
			WithRandomProps().
			WithProp(ForEmail(email.EmailID)).
			BuildMany(count)
		email.Attachments = append(email.Attachments, attachments...)
	}
}

// AsSent marks the email delivered at sentAt after attempts tries.
func AsSent(sentAt time.Time, attempts int) func(*model.Email) {
	return func(email *model.Email) {
		modified := sentAt.UTC()
		email.Sent = true
		email.SendAttempts = attempts
		email.LastModified = &modified
	}
}
