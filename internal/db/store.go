package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/temirov/spooler/internal/model"
	"gorm.io/gorm"
)

// Store exposes the email lookups used by the command layer.
type Store struct {
	database *gorm.DB
}

func NewStore(database *gorm.DB) *Store {
	return &Store{database: database}
}

func (store *Store) GetEmail(ctx context.Context, emailID uuid.UUID) (*model.Email, error) {
	return model.MustGetEmailByID(ctx, store.database, emailID)
}

func (store *Store) AddAttachments(ctx context.Context, emailID uuid.UUID, attachments []model.EmailAttachment) error {
	return model.AddAttachments(ctx, store.database, emailID, attachments)
}
