package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-office-api/internal/domain"
	"github.com/go-office-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// Attribute names used in partial update maps.
const (
	fieldRole      = "role"
	fieldManagerID = "manager_id"
)

// maxChainDepth bounds the walk up a management chain when checking for cycles.
const maxChainDepth = 64

// Service administers directory records.
type Service interface {
	Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error)
	ListReports(ctx context.Context, managerID string) ([]domain.User, error)
	AssignManager(ctx context.Context, userID, managerID string) (*domain.User, error)
	SetRole(ctx context.Context, userID, role string) (*domain.User, error)
	Deactivate(ctx context.Context, userID string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, userID string) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
	ListReports(ctx context.Context, managerID string) ([]domain.User, error)
}

type sessionStore interface {
	DisableByUser(ctx context.Context, userID string) error
}

type leaveRouter interface {
	ReassignPendingManager(ctx context.Context, requesterID, managerID string) (int, error)
}

type service struct {
	repo        userStore
	sessionRepo sessionStore
	leaveRepo   leaveRouter
	log         *slog.Logger
}

type ServiceDeps struct {
	UserRepo    userStore
	SessionRepo sessionStore
	LeaveRepo   leaveRouter
	Logger      *slog.Logger
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		repo:        deps.UserRepo,
		sessionRepo: deps.SessionRepo,
		leaveRepo:   deps.LeaveRepo,
		log:         deps.Logger,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

func (s *service) Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if req.ManagerID != nil && *req.ManagerID != "" {
		if _, err := s.activeManager(ctx, *req.ManagerID); err != nil {
			return nil, err
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		Role:         role,
		DepartmentID: req.DepartmentID,
		JobTitle:     req.JobTitle,
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.ManagerID != nil && *req.ManagerID != "" {
		u.ManagerID = req.ManagerID
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}

// ListReports returns the active users whose direct manager is managerID.
func (s *service) ListReports(ctx context.Context, managerID string) ([]domain.User, error) {
	all, err := s.repo.ListReports(ctx, managerID)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, u := range all {
		if u.IsActive() {
			out = append(out, u)
		}
	}
	return out, nil
}

// AssignManager points userID at managerID and re-routes the user's
// Pending leave requests to the new manager.
func (s *service) AssignManager(ctx context.Context, userID, managerID string) (*domain.User, error) {
	if userID == managerID {
		return nil, fmt.Errorf("a user cannot manage themselves: %w", domain.ErrInvalidArgument)
	}
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.activeManager(ctx, managerID); err != nil {
		return nil, err
	}
	if err := s.checkNoCycle(ctx, userID, managerID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, userID, map[string]interface{}{fieldManagerID: managerID}); err != nil {
		return nil, err
	}
	// The link is committed. Pending requests still carrying the old stamp
	// stay visible to the new manager through the directory side of the queue.
	moved, err := s.leaveRepo.ReassignPendingManager(ctx, userID, managerID)
	if err != nil {
		s.log.WarnContext(ctx, "re-route pending leaves failed",
			"user_id", userID, "manager_id", managerID, "err", err)
	}
	s.log.InfoContext(ctx, "manager assigned", "user_id", userID, "manager_id", managerID, "pending_rerouted", moved)
	u.ManagerID = &managerID
	return u, nil
}

func (s *service) SetRole(ctx context.Context, userID, role string) (*domain.User, error) {
	r, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, userID, map[string]interface{}{fieldRole: r}); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

// Deactivate disables the account and all its sessions. Records are kept.
func (s *service) Deactivate(ctx context.Context, userID string) error {
	if err := s.repo.SoftDelete(ctx, userID); err != nil {
		return err
	}
	return s.sessionRepo.DisableByUser(ctx, userID)
}

func (s *service) activeManager(ctx context.Context, managerID string) (*domain.User, error) {
	m, err := s.repo.Get(ctx, managerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("manager %s: %w", managerID, domain.ErrNotFound)
		}
		return nil, err
	}
	if !m.IsActive() {
		return nil, fmt.Errorf("manager %s is deactivated: %w", managerID, domain.ErrInvalidState)
	}
	return m, nil
}

// checkNoCycle walks up from managerID and fails if userID is reached.
func (s *service) checkNoCycle(ctx context.Context, userID, managerID string) error {
	cur := managerID
	for depth := 0; depth < maxChainDepth; depth++ {
		u, err := s.repo.Get(ctx, cur)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if u.ManagerID == nil || *u.ManagerID == "" {
			return nil
		}
		if *u.ManagerID == userID {
			return fmt.Errorf("%s already reports to %s: %w", managerID, userID, domain.ErrInvalidArgument)
		}
		cur = *u.ManagerID
	}
	return fmt.Errorf("management chain above %s is too deep: %w", managerID, domain.ErrInvalidState)
}
