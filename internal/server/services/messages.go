package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/contactform/internal/common"
	"github.com/dmitrijs2005/contactform/internal/dbx"
	"github.com/dmitrijs2005/contactform/internal/server/models"
	"github.com/dmitrijs2005/contactform/internal/server/pagination"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/sequences"
)

// Broadcaster pushes a short notice about a new message to live listeners.
// Implementations must not block.
type Broadcaster interface {
	Broadcast(name, message string)
}

// SubmitInput is a contact-form submission as received from a visitor.
type SubmitInput struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Gender  string `json:"gender"`
	Country string `json:"country"`
}

// MessageService handles submission and moderation of messages.
type MessageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	broadcaster Broadcaster
	now         func() time.Time
}

func NewMessageService(db *sql.DB, m repomanager.RepositoryManager, b Broadcaster) *MessageService {
	return &MessageService{db: db, repomanager: m, broadcaster: b, now: time.Now}
}

// Submit stores a new unread message and notifies listeners. Incomplete
// submissions are rejected before anything is written or broadcast.
func (s *MessageService) Submit(ctx context.Context, in SubmitInput) (*models.Message, error) {
	for _, v := range []string{in.Name, in.Message, in.Gender, in.Country} {
		if strings.TrimSpace(v) == "" {
			return nil, common.NewValidationError("all fields are required")
		}
	}

	msg := &models.Message{
		Name:         in.Name,
		Message:      in.Message,
		Gender:       in.Gender,
		Country:      in.Country,
		CreationDate: s.now().UTC().Truncate(time.Millisecond),
		Read:         false,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		id, err := s.repomanager.Sequences(tx).Next(ctx, sequences.KindMessage)
		if err != nil {
			return fmt.Errorf("error issuing message id: %w", err)
		}
		msg.ID = id

		if err := s.repomanager.Messages(tx).Create(ctx, msg); err != nil {
			return fmt.Errorf("error creating message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(msg.Name, msg.Message)
	}

	return msg, nil
}

func (s *MessageService) List(ctx context.Context) ([]*models.Message, error) {
	msgs, err := s.repomanager.Messages(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}
	return msgs, nil
}

func (s *MessageService) Get(ctx context.Context, id int64) (*models.Message, error) {
	return s.repomanager.Messages(s.db).GetByID(ctx, id)
}

// MarkRead flags a message as read and returns its new state.
func (s *MessageService) MarkRead(ctx context.Context, id int64) (*models.Message, error) {
	repo := s.repomanager.Messages(s.db)

	if err := repo.MarkRead(ctx, id); err != nil {
		return nil, err
	}

	return repo.GetByID(ctx, id)
}

// Delete removes a message. An unknown id is common.ErrorNotFound and no
// delete statement is issued.
func (s *MessageService) Delete(ctx context.Context, id int64) error {
	repo := s.repomanager.Messages(s.db)

	if _, err := repo.GetByID(ctx, id); err != nil {
		return err
	}

	return repo.Delete(ctx, id)
}

// Page returns one page of messages in the requested order.
func (s *MessageService) Page(ctx context.Context, sort pagination.Sort, page, perPage int) ([]*models.Message, error) {
	msgs, err := s.sorted(ctx, sort)
	if err != nil {
		return nil, err
	}
	return pagination.Page(msgs, page, perPage), nil
}

// Scroll returns up to limit messages starting at offset in the requested
// order.
func (s *MessageService) Scroll(ctx context.Context, sort pagination.Sort, offset, limit int) ([]*models.Message, error) {
	msgs, err := s.sorted(ctx, sort)
	if err != nil {
		return nil, err
	}
	return pagination.Window(msgs, offset, limit), nil
}

// sorted loads the whole collection and sorts it in memory.
func (s *MessageService) sorted(ctx context.Context, sort pagination.Sort) ([]*models.Message, error) {
	msgs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return pagination.Sorted(msgs, sort), nil
}
