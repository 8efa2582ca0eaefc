package services

import (
	"context"
	"strings"
	"time"

	"github.com/Yash-Thio/IETE-ToDo/internal/domain/entities"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/logger"
	"github.com/Yash-Thio/IETE-ToDo/internal/ports"
)

// ListService handles list-related operations
type ListService struct {
	listRepo ports.ListRepository
	logger   *logger.Logger
}

// NewListService creates a new list service
func NewListService(listRepo ports.ListRepository, logger *logger.Logger) *ListService {
	return &ListService{
		listRepo: listRepo,
		logger:   logger.WithComponent("lists"),
	}
}

// CreateList creates a new list owned by userID
func (s *ListService) CreateList(ctx context.Context, userID, name string) (*entities.List, error) {
	if userID == "" {
		return nil, entities.ErrNotAuthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, entities.ErrEmptyListName
	}

	list := &entities.List{
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.listRepo.Create(ctx, list); err != nil {
		s.logger.Errorw("Failed to create list", "user_id", userID, "error", err)
		return nil, entities.NewGatewayError("create list", err)
	}

	s.logger.Infow("List created successfully", "list_id", list.ID, "user_id", userID)
	return list, nil
}

// GetList retrieves one of the user's lists by ID
func (s *ListService) GetList(ctx context.Context, userID, listID string) (*entities.List, error) {
	if userID == "" {
		return nil, entities.ErrNotAuthenticated
	}
	list, err := s.listRepo.GetByID(ctx, userID, listID)
	if err != nil {
		return nil, entities.NewGatewayError("get list", err)
	}
	return list, nil
}

// ListLists returns the user's lists in creation order
func (s *ListService) ListLists(ctx context.Context, userID string) ([]entities.List, error) {
	if userID == "" {
		return []entities.List{}, entities.ErrNotAuthenticated
	}
	lists, err := s.listRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Errorw("Failed to list lists", "user_id", userID, "error", err)
		return []entities.List{}, entities.NewGatewayError("list lists", err)
	}
	if lists == nil {
		lists = []entities.List{}
	}
	return lists, nil
}
