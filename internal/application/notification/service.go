package notification

import (
	"context"
	"fmt"

	"github.com/go-office-api/internal/domain"
)

// Service is the recipient's inbox.
type Service interface {
	ListMine(ctx context.Context, userID string) ([]domain.Notification, error)
	ListUnread(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context, userID string) (int, error)
}

type notificationStore interface {
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID string) error
}

type service struct {
	repo notificationStore
}

func NewService(repo notificationStore) Service {
	return &service{repo: repo}
}

func (s *service) ListMine(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID, false)
}

func (s *service) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID, true)
}

// MarkAsRead flips the read flag. Only the recipient may do so.
func (s *service) MarkAsRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	n, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, fmt.Errorf("notification %s belongs to another user: %w", notificationID, domain.ErrForbidden)
	}
	if n.Read {
		return n, nil
	}
	if err := s.repo.MarkAsRead(ctx, notificationID); err != nil {
		return nil, err
	}
	n.Read = true
	return n, nil
}

// MarkAllAsRead returns how many notifications changed.
func (s *service) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	unread, err := s.repo.ListByUser(ctx, userID, true)
	if err != nil {
		return 0, err
	}
	marked := 0
	for _, n := range unread {
		if err := s.repo.MarkAsRead(ctx, n.NotificationID); err != nil {
			return marked, fmt.Errorf("mark %s read: %w", n.NotificationID, err)
		}
		marked++
	}
	return marked, nil
}
