package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-office-api/internal/domain"
	"github.com/go-office-api/internal/pkg/dates"
	"github.com/go-office-api/internal/pkg/id"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

const (
	msgCreated         = "%s submitted a new leave request for %s to %s."
	msgManagerApproved = "Your leave request was approved by your manager and is awaiting HR approval."
	msgAwaitingHR      = "%s's leave request passed manager approval and is awaiting HR approval."
	msgApproved        = "Your leave request was approved by HR."
	msgRejected        = "Your leave request was rejected. Reason: %s"
	msgCancelled       = "%s cancelled their leave request for %s to %s."
)

type directory interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	FindByRole(ctx context.Context, roles ...domain.Role) ([]domain.User, error)
}

type notificationWriter interface {
	Insert(ctx context.Context, n *domain.Notification) error
}

// Dispatcher decides who hears about a leave transition and with what
// message, then writes one notification per recipient.
type Dispatcher struct {
	store       notificationWriter
	directory   directory
	log         *slog.Logger
	now         func() time.Time
	concurrency int
}

type DispatcherDeps struct {
	NotificationRepo notificationWriter
	Directory        directory
	Logger           *slog.Logger
	Now              func() time.Time
	// Concurrency bounds in-flight writes per event. Defaults to 4.
	Concurrency int
}

func NewDispatcher(deps DispatcherDeps) *Dispatcher {
	d := &Dispatcher{
		store:       deps.NotificationRepo,
		directory:   deps.Directory,
		log:         deps.Logger,
		now:         deps.Now,
		concurrency: deps.Concurrency,
	}
	if d.log == nil {
		d.log = slog.Default()
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.concurrency < 1 {
		d.concurrency = defaultConcurrency
	}
	return d
}

type delivery struct {
	recipientID string
	message     string
}

// Notify writes the notifications for event. Individual write failures
// are logged, not retried, and returned joined.
func (d *Dispatcher) Notify(ctx context.Context, event domain.LeaveEvent, l *domain.LeaveRequest, actorID string) error {
	requester, err := d.directory.GetUser(ctx, l.RequesterID)
	if errors.Is(err, domain.ErrNotFound) {
		d.log.WarnContext(ctx, "leave requester not in directory, nothing to notify",
			"leave_id", l.LeaveID, "requester_id", l.RequesterID, "event", event)
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve requester %s: %w", l.RequesterID, err)
	}

	deliveries, err := d.audience(ctx, event, l, requester)
	if err != nil {
		return err
	}
	return d.deliver(ctx, l, deliveries)
}

func (d *Dispatcher) audience(ctx context.Context, event domain.LeaveEvent, l *domain.LeaveRequest, requester *domain.User) ([]delivery, error) {
	name := requester.DisplayName()
	span := func() (string, string) {
		return l.StartDate.Format(dates.Layout), l.EndDate.Format(dates.Layout)
	}

	switch event {
	case domain.EventLeaveCreated:
		if requester.ManagerID == nil || *requester.ManagerID == "" {
			return nil, nil
		}
		from, to := span()
		return []delivery{{*requester.ManagerID, fmt.Sprintf(msgCreated, name, from, to)}}, nil

	case domain.EventLeaveManagerApproved:
		out := []delivery{{requester.UserID, msgManagerApproved}}
		staff, err := d.directory.FindByRole(ctx, domain.RoleHR, domain.RoleAdmin)
		if err != nil {
			// the requester still hears about it
			d.log.WarnContext(ctx, "resolve HR audience failed", "leave_id", l.LeaveID, "err", err)
			return out, nil
		}
		seen := make(map[string]struct{}, len(staff))
		for i := range staff {
			u := &staff[i]
			if !u.IsActive() || !domain.HasAnyRole(u, domain.RoleHR, domain.RoleAdmin) {
				continue
			}
			if _, dup := seen[u.UserID]; dup {
				continue
			}
			seen[u.UserID] = struct{}{}
			out = append(out, delivery{u.UserID, fmt.Sprintf(msgAwaitingHR, name)})
		}
		return out, nil

	case domain.EventLeaveApproved:
		return []delivery{{requester.UserID, msgApproved}}, nil

	case domain.EventLeaveRejected:
		return []delivery{{requester.UserID, fmt.Sprintf(msgRejected, l.RejectionReason)}}, nil

	case domain.EventLeaveCancelled:
		managerID := l.ManagerID
		if requester.ManagerID != nil && *requester.ManagerID != "" {
			managerID = *requester.ManagerID
		}
		if managerID == "" {
			return nil, nil
		}
		from, to := span()
		return []delivery{{managerID, fmt.Sprintf(msgCancelled, name, from, to)}}, nil
	}
	return nil, fmt.Errorf("unknown leave event %q: %w", event, domain.ErrInvalidArgument)
}

func (d *Dispatcher) deliver(ctx context.Context, l *domain.LeaveRequest, deliveries []delivery) error {
	if len(deliveries) == 0 {
		return nil
	}
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(d.concurrency)
	createdAt := d.now().UTC()
	for _, dl := range deliveries {
		n := &domain.Notification{
			NotificationID:    id.New(),
			UserID:            dl.recipientID,
			Message:           dl.message,
			RelatedEntityType: domain.RelatedEntityLeave,
			RelatedEntityID:   l.LeaveID,
			CreatedAt:         createdAt,
		}
		g.Go(func() error {
			if err := d.store.Insert(ctx, n); err != nil {
				d.log.WarnContext(ctx, "notification write failed",
					"leave_id", l.LeaveID, "recipient_id", n.UserID, "err", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("notify %s: %w", n.UserID, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
