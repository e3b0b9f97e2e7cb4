// Package seed fills a spool database with generated emails for manual and
// integration testing.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/temirov/spooler/internal/fixture"
	"github.com/temirov/spooler/internal/model"
	"github.com/temirov/spooler/internal/random"
	"gorm.io/gorm"
)

// ErrInvalidPlan indicates a plan with negative counts.
var ErrInvalidPlan = errors.New("invalid seed plan")

// Plan describes what to generate.
type Plan struct {
	Emails              int
	AttachmentsPerEmail int
	RecipientsPerEmail  int
	// ExtraAttachments are copied onto every generated email.
	ExtraAttachments []model.EmailAttachment
}

// Summary reports what a Seed call stored.
type Summary struct {
	EmailIDs     []uuid.UUID
	Attachments  int
	Recipients   int
	PayloadBytes int
}

// Seeder builds random emails and stores them.
type Seeder struct {
	database  *gorm.DB
	logger    *slog.Logger
	generator *random.Generator
}

func NewSeeder(database *gorm.DB, logger *slog.Logger, generator *random.Generator) *Seeder {
	return &Seeder{database: database, logger: logger, generator: generator}
}

// Seed stores plan.Emails emails in a single transaction. Nothing is stored on failure.
func (seeder *Seeder) Seed(ctx context.Context, plan Plan) (Summary, error) {
	if plan.Emails < 0 || plan.AttachmentsPerEmail < 0 || plan.RecipientsPerEmail < 0 {
		return Summary{}, fmt.Errorf("%w: counts must not be negative", ErrInvalidPlan)
	}
	for index, attachment := range plan.ExtraAttachments {
		if err := attachment.Validate(); err != nil {
			return Summary{}, fmt.Errorf("extra attachment %d: %w", index+1, err)
		}
	}

	emails := seeder.buildEmails(plan)

	var summary Summary
	transactionError := seeder.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for index := range emails {
			if err := model.CreateEmail(ctx, tx, &emails[index]); err != nil {
				return fmt.Errorf("seed email %s: %w", emails[index].EmailID, err)
			}
			summary.EmailIDs = append(summary.EmailIDs, emails[index].EmailID)
			summary.Attachments += len(emails[index].Attachments)
			summary.Recipients += len(emails[index].Recipients)
			summary.PayloadBytes += emails[index].AttachmentBytes()
		}
		return nil
	})
	if transactionError != nil {
		seeder.logger.Error("Seeding failed", "error", transactionError)
		return Summary{}, transactionError
	}

	seeder.logger.Info(
		"emails_seeded",
		"emails", len(summary.EmailIDs),
		"attachments", summary.Attachments,
		"recipients", summary.Recipients,
		"payload_bytes", summary.PayloadBytes,
		"random_seed", seeder.generator.Seed(),
	)
	return summary, nil
}

func (seeder *Seeder) buildEmails(plan Plan) []model.Email {
	emailBuilder := fixture.NewEmailBuilder(seeder.generator).
		WithRandomProps().
		WithProp(fixture.WithRandomRecipients(seeder.generator, max(plan.RecipientsPerEmail-1, 0))).
		WithProp(fixture.WithRandomAttachments(seeder.generator, plan.AttachmentsPerEmail)).
		WithProp(func(email *model.Email) {
			for _, extra := range plan.ExtraAttachments {
				extra.EmailAttachmentID = seeder.generator.UUID()
				fixture.WithAttachments(extra)(email)
			}
		})
	return emailBuilder.BuildMany(plan.Emails)
}
