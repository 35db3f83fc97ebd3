package payment

import (
	"context"
	"errors"
	"fmt"
	"time"
	"xtopay-checkout/internal/common/models"
	database "xtopay-checkout/internal/pkg/db"
)

// ErrInvalidCursor marks a pagination cursor that could not be decoded.
var ErrInvalidCursor = errors.New("invalid cursor")

type IRepository interface {
	Create(ctx context.Context, attempt *models.PaymentAttempt) error
	FindByID(ctx context.Context, id string) (*models.PaymentAttempt, error)
	ListPage(ctx context.Context, sessionID string, limit int, cursor string) ([]models.PaymentAttempt, string, error)
	UpdateStatus(ctx context.Context, id string, updates map[string]any) error
}

type Repository struct {
	db *database.Database
}

func NewRepo(db *database.Database) IRepository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, attempt *models.PaymentAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.PaymentAttempt, error) {
	var attempt models.PaymentAttempt
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// ListPage returns one page of attempts, newest first, with an opaque cursor
// for the next page. An empty cursor starts from the newest attempt; an empty
// returned cursor means the last page.
func (r *Repository) ListPage(ctx context.Context, sessionID string, limit int, cursor string) ([]models.PaymentAttempt, string, error) {
	query := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at " + database.DESC.ToString()).
		Limit(limit + 1)

	if cursor != "" {
		plain, err := r.db.DecodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrInvalidCursor, err)
		}
		before, err := time.Parse(time.RFC3339Nano, plain)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrInvalidCursor, err)
		}
		query = query.Where("created_at < ?", before)
	}

	var attempts []models.PaymentAttempt
	if err := query.Find(&attempts).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(attempts) > limit {
		attempts = attempts[:limit]
		encoded, err := r.db.EncodeCursor(attempts[limit-1].CreatedAt.Format(time.RFC3339Nano))
		if err != nil {
			return nil, "", err
		}
		next = encoded
	}

	return attempts, next, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.PaymentAttempt{}).Where("id = ?", id).Updates(updates).Error
}
