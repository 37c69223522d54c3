package handler

import (
	"context"
	"time"

	"github.com/go-office-api/internal/application/leave"
	"github.com/go-office-api/internal/application/session"
	"github.com/go-office-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockUserSvc struct{ mock.Mock }

func (m *mockUserSvc) Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUserSvc) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUserSvc) List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error) {
	args := m.Called(ctx, limit, cursor)
	us, _ := args.Get(0).([]domain.User)
	return us, args.String(1), args.Error(2)
}

func (m *mockUserSvc) ListReports(ctx context.Context, managerID string) ([]domain.User, error) {
	args := m.Called(ctx, managerID)
	us, _ := args.Get(0).([]domain.User)
	return us, args.Error(1)
}

func (m *mockUserSvc) AssignManager(ctx context.Context, userID, managerID string) (*domain.User, error) {
	args := m.Called(ctx, userID, managerID)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUserSvc) SetRole(ctx context.Context, userID, role string) (*domain.User, error) {
	args := m.Called(ctx, userID, role)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUserSvc) Deactivate(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockLeaveSvc struct{ mock.Mock }

func (m *mockLeaveSvc) leaveResult(args mock.Arguments) (*domain.LeaveRequest, error) {
	l, _ := args.Get(0).(*domain.LeaveRequest)
	return l, args.Error(1)
}

func (m *mockLeaveSvc) listResult(args mock.Arguments) ([]domain.LeaveRequest, error) {
	ls, _ := args.Get(0).([]domain.LeaveRequest)
	return ls, args.Error(1)
}

func (m *mockLeaveSvc) Create(ctx context.Context, in leave.CreateInput) (*domain.LeaveRequest, error) {
	return m.leaveResult(m.Called(ctx, in))
}

func (m *mockLeaveSvc) ApproveByManager(ctx context.Context, leaveID, managerID string) (*domain.LeaveRequest, error) {
	return m.leaveResult(m.Called(ctx, leaveID, managerID))
}

func (m *mockLeaveSvc) ApproveByHR(ctx context.Context, leaveID, hrUserID string) (*domain.LeaveRequest, error) {
	return m.leaveResult(m.Called(ctx, leaveID, hrUserID))
}

func (m *mockLeaveSvc) Reject(ctx context.Context, leaveID, approverID, reason string) (*domain.LeaveRequest, error) {
	return m.leaveResult(m.Called(ctx, leaveID, approverID, reason))
}

func (m *mockLeaveSvc) Cancel(ctx context.Context, leaveID, requesterID string) error {
	return m.Called(ctx, leaveID, requesterID).Error(0)
}

func (m *mockLeaveSvc) GetByID(ctx context.Context, leaveID string) (*domain.LeaveRequest, error) {
	return m.leaveResult(m.Called(ctx, leaveID))
}

func (m *mockLeaveSvc) ListByRequester(ctx context.Context, requesterID string) ([]domain.LeaveRequest, error) {
	return m.listResult(m.Called(ctx, requesterID))
}

func (m *mockLeaveSvc) ListPendingForManager(ctx context.Context, managerID string) ([]domain.LeaveRequest, error) {
	return m.listResult(m.Called(ctx, managerID))
}

func (m *mockLeaveSvc) ListPendingForHR(ctx context.Context) ([]domain.LeaveRequest, error) {
	return m.listResult(m.Called(ctx))
}

func (m *mockLeaveSvc) ListInRange(ctx context.Context, from, to time.Time) ([]domain.LeaveRequest, error) {
	return m.listResult(m.Called(ctx, from, to))
}

func (m *mockLeaveSvc) CanApprove(ctx context.Context, leaveID, actorID string) (bool, error) {
	args := m.Called(ctx, leaveID, actorID)
	return args.Bool(0), args.Error(1)
}

type mockNotificationSvc struct{ mock.Mock }

func (m *mockNotificationSvc) ListMine(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	ns, _ := args.Get(0).([]domain.Notification)
	return ns, args.Error(1)
}

func (m *mockNotificationSvc) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	ns, _ := args.Get(0).([]domain.Notification)
	return ns, args.Error(1)
}

func (m *mockNotificationSvc) MarkAsRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID, userID)
	n, _ := args.Get(0).(*domain.Notification)
	return n, args.Error(1)
}

func (m *mockNotificationSvc) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type mockSessionSvc struct{ mock.Mock }

func (m *mockSessionSvc) Login(ctx context.Context, req session.LoginRequest) (*session.LoginResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*session.LoginResult)
	return res, args.Error(1)
}

func (m *mockSessionSvc) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *mockSessionSvc) GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	s, _ := args.Get(0).(*domain.Session)
	return s, args.Error(1)
}

func (m *mockSessionSvc) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}
