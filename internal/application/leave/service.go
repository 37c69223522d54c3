package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/go-office-api/internal/domain"
	"github.com/go-office-api/internal/pkg/dates"
	"github.com/go-office-api/internal/pkg/id"
)

// Service owns the leave request state machine. Callers pass the acting
// user's id explicitly; ownership relations are re-checked here, role
// membership for HR-stage approval is asserted by the caller.
type Service interface {
	Create(ctx context.Context, in CreateInput) (*domain.LeaveRequest, error)
	ApproveByManager(ctx context.Context, leaveID, managerID string) (*domain.LeaveRequest, error)
	ApproveByHR(ctx context.Context, leaveID, hrUserID string) (*domain.LeaveRequest, error)
	Reject(ctx context.Context, leaveID, approverID, reason string) (*domain.LeaveRequest, error)
	Cancel(ctx context.Context, leaveID, requesterID string) error
	GetByID(ctx context.Context, leaveID string) (*domain.LeaveRequest, error)
	ListByRequester(ctx context.Context, requesterID string) ([]domain.LeaveRequest, error)
	ListPendingForManager(ctx context.Context, managerID string) ([]domain.LeaveRequest, error)
	ListPendingForHR(ctx context.Context) ([]domain.LeaveRequest, error)
	ListInRange(ctx context.Context, from, to time.Time) ([]domain.LeaveRequest, error)
	CanApprove(ctx context.Context, leaveID, actorID string) (bool, error)
}

type CreateInput struct {
	RequesterID string
	StartDate   time.Time
	EndDate     time.Time
	Category    string
	Reason      *string
}

type leaveStore interface {
	Insert(ctx context.Context, l *domain.LeaveRequest) error
	Get(ctx context.Context, leaveID string) (*domain.LeaveRequest, error)
	Update(ctx context.Context, l *domain.LeaveRequest, expectedVersion int64) error
	FindByRequester(ctx context.Context, requesterID string) ([]domain.LeaveRequest, error)
	FindPendingByManager(ctx context.Context, managerID string) ([]domain.LeaveRequest, error)
	FindPendingForHR(ctx context.Context) ([]domain.LeaveRequest, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]domain.LeaveRequest, error)
}

type directory interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	ListReports(ctx context.Context, managerID string) ([]domain.User, error)
}

// Notifier fans a committed transition out to its audience.
type Notifier interface {
	Notify(ctx context.Context, event domain.LeaveEvent, l *domain.LeaveRequest, actorID string) error
}

// Publisher announces a committed transition to other systems.
type Publisher interface {
	PublishLeaveEvent(ctx context.Context, event domain.LeaveEvent, l *domain.LeaveRequest, actorID string) error
}

type service struct {
	repo      leaveStore
	directory directory
	notifier  Notifier
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// ServiceDeps wires the service. Notifier and Publisher are optional.
type ServiceDeps struct {
	LeaveRepo leaveStore
	Directory directory
	Notifier  Notifier
	Publisher Publisher
	Logger    *slog.Logger
	Now       func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		repo:      deps.LeaveRepo,
		directory: deps.Directory,
		notifier:  deps.Notifier,
		publisher: deps.Publisher,
		log:       deps.Logger,
		now:       deps.Now,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Create(ctx context.Context, in CreateInput) (*domain.LeaveRequest, error) {
	requester, err := s.lookupUser(ctx, in.RequesterID, "requester")
	if err != nil {
		return nil, err
	}
	if !requester.IsActive() {
		return nil, fmt.Errorf("requester %s is deactivated: %w", requester.UserID, domain.ErrForbidden)
	}
	if requester.ManagerID == nil || *requester.ManagerID == "" {
		return nil, fmt.Errorf("requester %s has no assigned manager: %w", requester.UserID, domain.ErrInvalidState)
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, fmt.Errorf("start and end dates are required: %w", domain.ErrInvalidArgument)
	}
	start, end := dates.Normalize(in.StartDate), dates.Normalize(in.EndDate)
	if !start.Before(end) {
		return nil, fmt.Errorf("start date must be before end date: %w", domain.ErrInvalidArgument)
	}
	category, err := domain.ParseLeaveCategory(in.Category)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	l := &domain.LeaveRequest{
		LeaveID:     id.New(),
		RequesterID: requester.UserID,
		ManagerID:   *requester.ManagerID,
		StartDate:   start,
		EndDate:     end,
		TotalDays:   dates.InclusiveDays(start, end),
		RequestedAt: now,
		Category:    category,
		Status:      domain.LeavePending,
		UpdatedAt:   now,
		Version:     1,
	}
	if in.Reason != nil {
		l.Reason = strings.TrimSpace(*in.Reason)
	}
	if err := s.repo.Insert(ctx, l); err != nil {
		return nil, fmt.Errorf("insert leave: %w", err)
	}
	s.committed(ctx, domain.EventLeaveCreated, l, requester.UserID)
	return l, nil
}

func (s *service) ApproveByManager(ctx context.Context, leaveID, managerID string) (*domain.LeaveRequest, error) {
	l, err := s.repo.Get(ctx, leaveID)
	if err != nil {
		return nil, err
	}
	requester, err := s.lookupUser(ctx, l.RequesterID, "requester")
	if err != nil {
		return nil, err
	}
	if !domain.IsDirectManager(&domain.User{UserID: managerID}, requester) {
		return nil, fmt.Errorf("%s is not the assigned manager of %s: %w", managerID, requester.UserID, domain.ErrForbidden)
	}
	if l.Status != domain.LeavePending {
		return nil, fmt.Errorf("leave %s is %s, manager approval needs Pending: %w", l.LeaveID, l.Status, domain.ErrInvalidState)
	}

	now := s.now().UTC()
	l.Status = domain.LeaveManagerApproved
	l.ManagerApprovalID = &managerID
	l.ManagerApprovalDate = &now
	if err := s.save(ctx, l, now); err != nil {
		return nil, err
	}
	s.committed(ctx, domain.EventLeaveManagerApproved, l, managerID)
	return l, nil
}

func (s *service) ApproveByHR(ctx context.Context, leaveID, hrUserID string) (*domain.LeaveRequest, error) {
	l, err := s.repo.Get(ctx, leaveID)
	if err != nil {
		return nil, err
	}
	if l.Status != domain.LeaveManagerApproved {
		return nil, fmt.Errorf("leave %s is %s, HR approval needs ManagerApproved: %w", l.LeaveID, l.Status, domain.ErrInvalidState)
	}

	now := s.now().UTC()
	l.Status = domain.LeaveApproved
	l.HRApprovalID = &hrUserID
	l.HRApprovalDate = &now
	if err := s.save(ctx, l, now); err != nil {
		return nil, err
	}
	s.committed(ctx, domain.EventLeaveApproved, l, hrUserID)
	return l, nil
}

// Reject closes a Pending or ManagerApproved request. The stage is taken
// from the status read here: Pending is a manager-stage rejection and
// needs the assigned manager, ManagerApproved is an HR-stage rejection and
// needs an HR or Admin account.
func (s *service) Reject(ctx context.Context, leaveID, approverID, reason string) (*domain.LeaveRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("rejection reason is required: %w", domain.ErrInvalidArgument)
	}
	l, err := s.repo.Get(ctx, leaveID)
	if err != nil {
		return nil, err
	}
	if l.IsTerminal() {
		return nil, fmt.Errorf("leave %s is already %s: %w", l.LeaveID, l.Status, domain.ErrInvalidState)
	}

	now := s.now().UTC()
	switch l.Status {
	case domain.LeavePending:
		requester, err := s.lookupUser(ctx, l.RequesterID, "requester")
		if err != nil {
			return nil, err
		}
		if !domain.IsDirectManager(&domain.User{UserID: approverID}, requester) {
			return nil, fmt.Errorf("%s is not the assigned manager of %s: %w", approverID, requester.UserID, domain.ErrForbidden)
		}
		l.ManagerApprovalID = &approverID
		l.ManagerApprovalDate = &now
	case domain.LeaveManagerApproved:
		approver, err := s.lookupUser(ctx, approverID, "approver")
		if err != nil {
			return nil, err
		}
		if !domain.HasAnyRole(approver, domain.RoleHR, domain.RoleAdmin) || !approver.IsActive() {
			return nil, fmt.Errorf("%s may not decide the HR stage: %w", approverID, domain.ErrForbidden)
		}
		l.HRApprovalID = &approverID
		l.HRApprovalDate = &now
	default:
		return nil, fmt.Errorf("leave %s has unknown status %q: %w", l.LeaveID, l.Status, domain.ErrInvalidState)
	}
	l.Status = domain.LeaveRejected
	l.RejectionReason = reason
	if err := s.save(ctx, l, now); err != nil {
		return nil, err
	}
	s.committed(ctx, domain.EventLeaveRejected, l, approverID)
	return l, nil
}

func (s *service) Cancel(ctx context.Context, leaveID, requesterID string) error {
	l, err := s.repo.Get(ctx, leaveID)
	if err != nil {
		return err
	}
	if l.RequesterID != requesterID {
		return fmt.Errorf("only the requester may cancel leave %s: %w", l.LeaveID, domain.ErrForbidden)
	}
	if l.Status != domain.LeavePending {
		return fmt.Errorf("leave %s is %s, only Pending requests can be cancelled: %w", l.LeaveID, l.Status, domain.ErrInvalidState)
	}

	now := s.now().UTC()
	l.Status = domain.LeaveCancelled
	if err := s.save(ctx, l, now); err != nil {
		return err
	}
	s.committed(ctx, domain.EventLeaveCancelled, l, requesterID)
	return nil
}

func (s *service) GetByID(ctx context.Context, leaveID string) (*domain.LeaveRequest, error) {
	return s.repo.Get(ctx, leaveID)
}

func (s *service) ListByRequester(ctx context.Context, requesterID string) ([]domain.LeaveRequest, error) {
	return s.repo.FindByRequester(ctx, requesterID)
}

// ListPendingForManager returns the manager's queue, oldest first. The
// manager_id stamped on each request and the directory's manager links are
// both consulted, so a request whose stamp lags a reassignment still shows
// up for whoever manages the requester now.
func (s *service) ListPendingForManager(ctx context.Context, managerID string) ([]domain.LeaveRequest, error) {
	pending, err := s.repo.FindPendingByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	reports, err := s.directory.ListReports(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("list reports of %s: %w", managerID, err)
	}

	manages := make(map[string]bool, len(reports))
	for _, u := range reports {
		manages[u.UserID] = true
	}
	seen := make(map[string]bool)
	out := make([]domain.LeaveRequest, 0, len(pending))
	for _, l := range pending {
		ok, known := manages[l.RequesterID]
		if !known {
			requester, err := s.directory.GetUser(ctx, l.RequesterID)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				ok = false
			case err != nil:
				return nil, fmt.Errorf("resolve requester %s: %w", l.RequesterID, err)
			default:
				ok = domain.IsDirectManager(&domain.User{UserID: managerID}, requester)
			}
			manages[l.RequesterID] = ok
		}
		if ok && !seen[l.LeaveID] {
			seen[l.LeaveID] = true
			out = append(out, l)
		}
	}
	for _, u := range reports {
		own, err := s.repo.FindByRequester(ctx, u.UserID)
		if err != nil {
			return nil, fmt.Errorf("list leaves of %s: %w", u.UserID, err)
		}
		for _, l := range own {
			if l.Status == domain.LeavePending && !seen[l.LeaveID] {
				seen[l.LeaveID] = true
				out = append(out, l)
			}
		}
	}
	slices.SortStableFunc(out, func(a, b domain.LeaveRequest) int {
		return a.RequestedAt.Compare(b.RequestedAt)
	})
	return out, nil
}

func (s *service) ListPendingForHR(ctx context.Context) ([]domain.LeaveRequest, error) {
	return s.repo.FindPendingForHR(ctx)
}

// ListInRange returns live requests overlapping [from, to] for the team calendar.
func (s *service) ListInRange(ctx context.Context, from, to time.Time) ([]domain.LeaveRequest, error) {
	from, to = dates.Normalize(from), dates.Normalize(to)
	if to.Before(from) {
		return nil, fmt.Errorf("range end precedes start: %w", domain.ErrInvalidArgument)
	}
	return s.repo.FindInRange(ctx, from, to)
}

// CanApprove is advisory: true when actorID is the assigned manager of a
// Pending request, or when the request awaits HR (role checked by caller).
// An unknown request is not approvable rather than an error.
func (s *service) CanApprove(ctx context.Context, leaveID, actorID string) (bool, error) {
	l, err := s.repo.Get(ctx, leaveID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch l.Status {
	case domain.LeavePending:
		requester, err := s.directory.GetUser(ctx, l.RequesterID)
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return domain.IsDirectManager(&domain.User{UserID: actorID}, requester), nil
	case domain.LeaveManagerApproved:
		return true, nil
	}
	return false, nil
}

// save writes l guarded by the version it was read at.
func (s *service) save(ctx context.Context, l *domain.LeaveRequest, now time.Time) error {
	expected := l.Version
	l.UpdatedAt = now
	if err := s.repo.Update(ctx, l, expected); err != nil {
		return fmt.Errorf("update leave %s: %w", l.LeaveID, err)
	}
	return nil
}

// committed runs the post-commit hooks. The transition is already durable,
// so hook failures are logged and never returned.
func (s *service) committed(ctx context.Context, event domain.LeaveEvent, l *domain.LeaveRequest, actorID string) {
	s.log.InfoContext(ctx, "leave transition committed",
		"leave_id", l.LeaveID, "event", event, "status", l.Status, "actor_id", actorID)

	hookCtx := context.WithoutCancel(ctx)
	snapshot := *l
	if s.notifier != nil {
		if err := s.notifier.Notify(hookCtx, event, &snapshot, actorID); err != nil {
			s.log.WarnContext(ctx, "leave notification failed",
				"leave_id", l.LeaveID, "event", event, "err", err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishLeaveEvent(hookCtx, event, &snapshot, actorID); err != nil {
			s.log.ErrorContext(ctx, "leave event publish failed",
				"leave_id", l.LeaveID, "event", event, "err", err)
		}
	}
}

func (s *service) lookupUser(ctx context.Context, userID, what string) (*domain.User, error) {
	u, err := s.directory.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%s %s: %w", what, userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("resolve %s %s: %w", what, userID, err)
	}
	return u, nil
}
