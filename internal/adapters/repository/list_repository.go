package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Yash-Thio/IETE-ToDo/internal/domain/entities"
	"github.com/Yash-Thio/IETE-ToDo/internal/ports"
)

// ListRepositoryImpl implements the ListRepository interface
type ListRepositoryImpl struct {
	db *sqlx.DB
}

// NewListRepository creates a new list repository
func NewListRepository(db *sqlx.DB) ports.ListRepository {
	return &ListRepositoryImpl{db: db}
}

func (r *ListRepositoryImpl) Create(ctx context.Context, list *entities.List) error {
	query := `
		INSERT INTO lists (id, user_id, name, created_at)
		VALUES (?, ?, ?, ?)`

	if list.ID == "" {
		list.ID = uuid.NewString()
	}
	if list.CreatedAt.IsZero() {
		list.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		list.ID, list.UserID, list.Name, list.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("create list: %w", err)
	}

	return nil
}

func (r *ListRepositoryImpl) GetByID(ctx context.Context, userID, id string) (*entities.List, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM lists
		WHERE id = ? AND user_id = ?`

	var list entities.List
	err := r.db.GetContext(ctx, &list, r.db.Rebind(query), id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrListNotFound
		}
		return nil, fmt.Errorf("get list by id: %w", err)
	}

	list.CreatedAt = list.CreatedAt.UTC()
	return &list, nil
}

func (r *ListRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]entities.List, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM lists
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC`

	lists := []entities.List{}
	if err := r.db.SelectContext(ctx, &lists, r.db.Rebind(query), userID); err != nil {
		return nil, fmt.Errorf("list user lists: %w", err)
	}

	for i := range lists {
		lists[i].CreatedAt = lists[i].CreatedAt.UTC()
	}
	return lists, nil
}
