package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllModels lists every table managed by AutoMigrate.
func AllModels() []any {
	return []any{&Email{}, &EmailRecipient{}, &EmailAttachment{}}
}

func CreateEmail(ctx context.Context, db *gorm.DB, email *Email) error {
	return db.WithContext(ctx).Create(email).Error
}

func GetEmailByID(ctx context.Context, db *gorm.DB, emailID uuid.UUID) (*Email, error) {
	var email Email
	err := db.WithContext(ctx).
		Preload("Recipients").
		Preload("Attachments").
		Where("email_id = ?", emailID).
		First(&email).Error
	if err != nil {
		return nil, err
	}
	return &email, nil
}

func MustGetEmailByID(ctx context.Context, db *gorm.DB, emailID uuid.UUID) (*Email, error) {
	email, err := GetEmailByID(ctx, db, emailID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrEmailNotFound, emailID)
		}
		return nil, err
	}
	return email, nil
}

// AddAttachments stores attachments against an existing email, overwriting their EmailID.
func AddAttachments(ctx context.Context, db *gorm.DB, emailID uuid.UUID, attachments []EmailAttachment) error {
	if len(attachments) == 0 {
		return nil
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Email{}).Where("email_id = ?", emailID).Count(&count).Error; err != nil {
			return fmt.Errorf("add attachments: lookup email: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("%w: %s", ErrEmailNotFound, emailID)
		}
		for index := range attachments {
			attachments[index].EmailID = emailID
			if attachments[index].EmailAttachmentID == uuid.Nil {
				attachments[index].EmailAttachmentID = uuid.New()
			}
		}
		if err := tx.Create(&attachments).Error; err != nil {
			return fmt.Errorf("add attachments: %w", err)
		}
		return nil
	})
}

func ListAttachmentsByEmailID(ctx context.Context, db *gorm.DB, emailID uuid.UUID) ([]EmailAttachment, error) {
	var attachments []EmailAttachment
	err := db.WithContext(ctx).
		Where("email_id = ?", emailID).
		Order("created ASC").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

func CountEmails(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&Email{}).Count(&count).Error
	return count, err
}

// DeleteEmail removes an email and its child rows in one transaction.
func DeleteEmail(ctx context.Context, db *gorm.DB, emailID uuid.UUID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email_id = ?", emailID).Delete(&EmailAttachment{}).Error; err != nil {
			return fmt.Errorf("delete email: attachments: %w", err)
		}
		if err := tx.Where("email_id = ?", emailID).Delete(&EmailRecipient{}).Error; err != nil {
			return fmt.Errorf("delete email: recipients: %w", err)
		}
		result := tx.Where("email_id = ?", emailID).Delete(&Email{})
		if result.Error != nil {
			return fmt.Errorf("delete email: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrEmailNotFound, emailID)
		}
		return nil
	})
}
