package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-office-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockLeaveStore struct{ mock.Mock }

func (m *mockLeaveStore) Insert(ctx context.Context, l *domain.LeaveRequest) error {
	return m.Called(ctx, l).Error(0)
}
func (m *mockLeaveStore) Get(ctx context.Context, leaveID string) (*domain.LeaveRequest, error) {
	args := m.Called(ctx, leaveID)
	if l, _ := args.Get(0).(*domain.LeaveRequest); l != nil {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockLeaveStore) Update(ctx context.Context, l *domain.LeaveRequest, expectedVersion int64) error {
	return m.Called(ctx, l, expectedVersion).Error(0)
}
func (m *mockLeaveStore) FindByRequester(ctx context.Context, requesterID string) ([]domain.LeaveRequest, error) {
	args := m.Called(ctx, requesterID)
	ls, _ := args.Get(0).([]domain.LeaveRequest)
	return ls, args.Error(1)
}
func (m *mockLeaveStore) FindPendingByManager(ctx context.Context, managerID string) ([]domain.LeaveRequest, error) {
	args := m.Called(ctx, managerID)
	ls, _ := args.Get(0).([]domain.LeaveRequest)
	return ls, args.Error(1)
}
func (m *mockLeaveStore) FindPendingForHR(ctx context.Context) ([]domain.LeaveRequest, error) {
	args := m.Called(ctx)
	ls, _ := args.Get(0).([]domain.LeaveRequest)
	return ls, args.Error(1)
}
func (m *mockLeaveStore) FindInRange(ctx context.Context, from, to time.Time) ([]domain.LeaveRequest, error) {
	args := m.Called(ctx, from, to)
	ls, _ := args.Get(0).([]domain.LeaveRequest)
	return ls, args.Error(1)
}

type mockDirectory struct{ mock.Mock }

func (m *mockDirectory) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockDirectory) ListReports(ctx context.Context, managerID string) ([]domain.User, error) {
	args := m.Called(ctx, managerID)
	us, _ := args.Get(0).([]domain.User)
	return us, args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Notify(ctx context.Context, event domain.LeaveEvent, l *domain.LeaveRequest, actorID string) error {
	return m.Called(ctx, event, l, actorID).Error(0)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishLeaveEvent(ctx context.Context, event domain.LeaveEvent, l *domain.LeaveRequest, actorID string) error {
	return m.Called(ctx, event, l, actorID).Error(0)
}

// --- helpers ---

var now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func date(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }

func employee() *domain.User {
	return &domain.User{UserID: "r", FirstName: "Ayse", LastName: "Kaya", Role: domain.RoleEmployee, ManagerID: strPtr("m"), Enable: true}
}

func pendingLeave() *domain.LeaveRequest {
	return &domain.LeaveRequest{
		LeaveID:     "l1",
		RequesterID: "r",
		ManagerID:   "m",
		StartDate:   date(10),
		EndDate:     date(12),
		Category:    domain.CategoryAnnualPaid,
		Status:      domain.LeavePending,
		Version:     1,
	}
}

type fixture struct {
	store     *mockLeaveStore
	dir       *mockDirectory
	notifier  *mockNotifier
	publisher *mockPublisher
	svc       Service
}

func newFixture() *fixture {
	f := &fixture{
		store:     &mockLeaveStore{},
		dir:       &mockDirectory{},
		notifier:  &mockNotifier{},
		publisher: &mockPublisher{},
	}
	f.svc = NewService(ServiceDeps{
		LeaveRepo: f.store,
		Directory: f.dir,
		Notifier:  f.notifier,
		Publisher: f.publisher,
		Now:       func() time.Time { return now },
	})
	return f
}

func (f *fixture) expectHooks(event domain.LeaveEvent, actorID string) {
	f.notifier.On("Notify", mock.Anything, event, mock.Anything, actorID).Return(nil).Once()
	f.publisher.On("PublishLeaveEvent", mock.Anything, event, mock.Anything, actorID).Return(nil).Once()
}

func validInput() CreateInput {
	return CreateInput{RequesterID: "r", StartDate: date(10), EndDate: date(12), Category: "YillikUcretliIzin"}
}

// --- Create ---

func TestCreate_HappyPath(t *testing.T) {
	f := newFixture()
	f.dir.On("GetUser", mock.Anything, "r").Return(employee(), nil)
	f.store.On("Insert", mock.Anything, mock.AnythingOfType("*domain.LeaveRequest")).Return(nil)
	f.expectHooks(domain.EventLeaveCreated, "r")

	in := validInput()
	in.StartDate = time.Date(2025, 3, 10, 15, 45, 0, 0, time.UTC)
	in.Reason = strPtr("  family trip ")
	l, err := f.svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.NotEmpty(t, l.LeaveID)
	assert.Equal(t, domain.LeavePending, l.Status)
	assert.Equal(t, date(10), l.StartDate)
	assert.Equal(t, "m", l.ManagerID)
	assert.Equal(t, 3, l.TotalDays)
	assert.Equal(t, now, l.RequestedAt)
	assert.Equal(t, "family trip", l.Reason)
	assert.Equal(t, int64(1), l.Version)
	assert.Nil(t, l.ManagerApprovalID)
	assert.Nil(t, l.HRApprovalID)
	f.store.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestCreate_RequesterNotFound(t *testing.T) {
	f := newFixture()
	f.dir.On("GetUser", mock.Anything, "r").Return(nil, domain.ErrNotFound)

	_, err := f.svc.Create(context.Background(), validInput())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCreate_InactiveRequester(t *testing.T) {
	f := newFixture()
	u := employee()
	u.Enable = false
	f.dir.On("GetUser", mock.Anything, "r").Return(u, nil)

	_, err := f.svc.Create(context.Background(), validInput())
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestCreate_NoManager_InvalidStateEvenWithBadInput(t *testing.T) {
	f := newFixture()
	u := employee()
	u.ManagerID = nil
	f.dir.On("GetUser", mock.Anything, "r").Return(u, nil)

	in := validInput()
	in.EndDate = in.StartDate
	in.Category = "nope"
	_, err := f.svc.Create(context.Background(), in)

	assert.True(t, errors.Is(err, domain.ErrInvalidState))
	f.store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreate_Dates(t *testing.T) {
	cases := map[string]struct {
		start, end time.Time
	}{
		"equal":           {date(10), date(10)},
		"reversed":        {date(12), date(10)},
		"same day, later": {time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)},
		"missing end":     {date(10), time.Time{}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			f.dir.On("GetUser", mock.Anything, "r").Return(employee(), nil)

			in := validInput()
			in.StartDate, in.EndDate = tc.start, tc.end
			_, err := f.svc.Create(context.Background(), in)
			assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
		})
	}
}

func TestCreate_UnknownCategory(t *testing.T) {
	f := newFixture()
	f.dir.On("GetUser", mock.Anything, "r").Return(employee(), nil)

	in := validInput()
	in.Category = "Sabbatical"
	_, err := f.svc.Create(context.Background(), in)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestCreate_HookFailuresDoNotFail(t *testing.T) {
	f := newFixture()
	f.dir.On("GetUser", mock.Anything, "r").Return(employee(), nil)
	f.store.On("Insert", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("dynamo down"))
	f.publisher.On("PublishLeaveEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("sns down"))

	l, err := f.svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, domain.LeavePending, l.Status)
}

func TestCreate_HooksSurviveCancelledRequest(t *testing.T) {
	f := newFixture()
	f.dir.On("GetUser", mock.Anything, "r").Return(employee(), nil)
	f.store.On("Insert", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("Notify", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }),
		domain.EventLeaveCreated, mock.Anything, "r").Return(nil)
	f.publisher.On("PublishLeaveEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Create(ctx, validInput())
	require.NoError(t, err)
	f.notifier.AssertExpectations(t)
}

// --- ApproveByManager ---

func TestApproveByManager_HappyPath(t *testing.T) {
	f := newFixture()
	f.store.On("Get", mock.Anything, "l1").Return(pendingLeave(), nil)
	f.dir.On("GetUser", mock.Anything, "r").Return(employee(), nil)
	f.store.On("Update", mock.Anything, mock.AnythingOfType("*domain.LeaveRequest"), int64(1)).Return(nil)
	f.expectHooks(domain.EventLeaveManagerApproved, "m")

	l, err := f.svc.ApproveByManager(context.Background(), "l1", "m")

	require.NoError(t, err)
	assert.Equal(t, domain.LeaveManagerApproved, l.Status)
	require.NotNil(t, l.ManagerApprovalID)
	assert.Equal(t, "m", *l.ManagerApprovalID)
	assert.Equal(t, now, *l.ManagerApprovalDate)
	assert.Nil(t, l.HRApprovalID)
	f.notifier.AssertExpectations(t)
}

func TestApproveByManager_NotFound(t *testing.T) {
	f := newFixture()
	f.store.On("Get", mock.Anything, "l1").Return(nil, domain.ErrNotFound)

	_, err := f.svc.ApproveByManager(context.Background(), "l1", "m")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestApproveByManager_RequesterGone(t *testing.T) {
	f := newFixture()
	f.store.On("Get", mock.Anything, "l1").Return(pendingLeave(), nil)
	f.dir.On("GetUser", mock.Anything, "r").Return(nil, domain.ErrNotFound)

	_, err := f.svc.ApproveByManager(context.Background(), "l1", "m")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestApproveByManager_NotTheManager(t *testing.T) {
	f := newFixture()
	f.store.On("Get", mock.Anything, "l1").Return(pendingLeave(), nil)
	f.dir.On("GetUser", mock.Anything, "r").Return(employee(), nil)

	_, err := f.svc.ApproveByManager(context.Background(), "l1", "m2")

	assert.True(t, errors.Is(err, domain.ErrForbidden))
	f.store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveByManager_ForbiddenBeforeState(t *testing.T) {
	f := newFixture()
	l := pendingLeave()
	l.Status = domain.LeaveApproved
	f.store.On("Get", mock.Anything, "l1").Return(l, nil)
	f.dir.On("GetUser", mock.Anything, "r").Return(employee(), nil)

	_, err := f.svc.ApproveByManager(context.Background(), "l1", "m2")
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestApproveByManager_NotPending(t *testing.T) {
	f := newFixture()
	l := pendingLeave()
	l.Status = domain.LeaveManagerApproved
	f.store.On("Get", mock.Anything, "l1").Return(l, nil)
	f.dir.On("GetUser", mock.Anything, "r").Return(employee(), nil)

	_, err := f.svc.ApproveByManager(context.Background(), "l1", "m")
	assert.True(t, errors.Is(err, domain.ErrInvalidState))
}

func TestApproveByManager_LostRace_NoHooks(t *testing.T) {
	f := newFixture()
	f.store.On("Get", mock.Anything, "l1").Return(pendingLeave(), nil)
	f.dir.On("GetUser", mock.Anything, "r").Return(employee(), nil)
	f.store.On("Update", mock.Anything, mock.Anything, int64(1)).Return(domain.ErrConflict)

	_, err := f.svc.ApproveByManager(context.Background(), "l1", "m")

	assert.True(t, errors.Is(err, domain.ErrConflict))
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishLeaveEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- ApproveByHR ---

func TestApproveByHR_StillPending(t *testing.T) {
	f := newFixture()
	f.store.On("Get", mock.Anything, "l1").Return(pendingLeave(), nil)

	_, err := f.svc.ApproveByHR(context.Background(), "l1", "h")
	assert.True(t, errors.Is(err, domain.ErrInvalidState))
}

func TestApproveByHR_HappyPath(t *testing.T) {
	f := newFixture()
	l := pendingLeave()
	l.Status = domain.LeaveManagerApproved
	l.ManagerApprovalID = strPtr("m")
	l.Version = 2
	f.store.On("Get", mock.Anything, "l1").Return(l, nil)
	f.store.On("Update", mock.Anything, mock.Anything, int64(2)).Return(nil)
	f.expectHooks(domain.EventLeaveApproved, "h")

	got, err := f.svc.ApproveByHR(context.Background(), "l1", "h")

	require.NoError(t, err)
	assert.Equal(t, domain.LeaveApproved, got.Status)
	assert.Equal(t, "h", *got.HRApprovalID)
	assert.Equal(t, now, *got.HRApprovalDate)
	assert.Equal(t, "m", *got.ManagerApprovalID)
}

// --- Reject ---

func TestReject_EmptyReason(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Reject(context.Background(), "l1", "m", "   ")

	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	f.store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestReject_ManagerStage(t *testing.T) {
	f := newFixture()
	f.store.On("Get", mock.Anything, "l1").Return(pendingLeave(), nil)
	f.dir.On("GetUser", mock.Anything, "r").Return(employee(), nil)
	f.store.On("Update", mock.Anything, mock.Anything, int64(1)).Return(nil)
	f.expectHooks(domain.EventLeaveRejected, "m")

	l, err := f.svc.Reject(context.Background(), "l1", "m", "coverage gap")

	require.NoError(t, err)
	assert.Equal(t, domain.LeaveRejected, l.Status)
	assert.Equal(t, "coverage gap", l.RejectionReason)
	assert.Equal(t, "m", *l.ManagerApprovalID)
	assert.Nil(t, l.HRApprovalID)
}

func TestReject_ManagerStage_NotTheManager(t *testing.T) {
	f := newFixture()
	f.store.On("Get", mock.Anything, "l1").Return(pendingLeave(), nil)
	f.dir.On("GetUser", mock.Anything, "r").Return(employee(), nil)

	_, err := f.svc.Reject(context.Background(), "l1", "h", "no")
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestReject_HRStage(t *testing.T) {
	f := newFixture()
	l := pendingLeave()
	l.Status = domain.LeaveManagerApproved
	l.ManagerApprovalID = strPtr("m")
	l.Version = 2
	f.store.On("Get", mock.Anything, "l1").Return(l, nil)
	f.dir.On("GetUser", mock.Anything, "h").Return(&domain.User{UserID: "h", Role: domain.RoleHR, Enable: true}, nil)
	f.store.On("Update", mock.Anything, mock.Anything, int64(2)).Return(nil)
	f.expectHooks(domain.EventLeaveRejected, "h")

	got, err := f.svc.Reject(context.Background(), "l1", "h", "quota exhausted")

	require.NoError(t, err)
	assert.Equal(t, domain.LeaveRejected, got.Status)
	assert.Equal(t, "h", *got.HRApprovalID)
	assert.Equal(t, now, *got.HRApprovalDate)
	assert.Equal(t, "m", *got.ManagerApprovalID)
}

func TestReject_HRStage_NotStaff(t *testing.T) {
	f := newFixture()
	l := pendingLeave()
	l.Status = domain.LeaveManagerApproved
	f.store.On("Get", mock.Anything, "l1").Return(l, nil)
	f.dir.On("GetUser", mock.Anything, "m").Return(&domain.User{UserID: "m", Role: domain.RoleManager, Enable: true}, nil)

	_, err := f.svc.Reject(context.Background(), "l1", "m", "no")
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestReject_Terminal(t *testing.T) {
	for _, st := range []domain.LeaveStatus{domain.LeaveApproved, domain.LeaveRejected, domain.LeaveCancelled} {
		t.Run(string(st), func(t *testing.T) {
			f := newFixture()
			l := pendingLeave()
			l.Status = st
			f.store.On("Get", mock.Anything, "l1").Return(l, nil)

			_, err := f.svc.Reject(context.Background(), "l1", "m", "no")
			assert.True(t, errors.Is(err, domain.ErrInvalidState))
		})
	}
}

// --- Cancel ---

func TestCancel_HappyPath(t *testing.T) {
	f := newFixture()
	f.store.On("Get", mock.Anything, "l1").Return(pendingLeave(), nil)
	f.store.On("Update", mock.Anything, mock.MatchedBy(func(l *domain.LeaveRequest) bool {
		return l.Status == domain.LeaveCancelled
	}), int64(1)).Return(nil)
	f.expectHooks(domain.EventLeaveCancelled, "r")

	require.NoError(t, f.svc.Cancel(context.Background(), "l1", "r"))
	f.store.AssertExpectations(t)
}

func TestCancel_NotOwner(t *testing.T) {
	f := newFixture()
	f.store.On("Get", mock.Anything, "l1").Return(pendingLeave(), nil)

	err := f.svc.Cancel(context.Background(), "l1", "m")
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestCancel_AfterManagerApproval(t *testing.T) {
	f := newFixture()
	l := pendingLeave()
	l.Status = domain.LeaveManagerApproved
	f.store.On("Get", mock.Anything, "l1").Return(l, nil)

	err := f.svc.Cancel(context.Background(), "l1", "r")
	assert.True(t, errors.Is(err, domain.ErrInvalidState))
}

// --- queries ---

func TestListPendingForManager_DropsReassignedRequesters(t *testing.T) {
	f := newFixture()
	moved := &domain.User{UserID: "x", ManagerID: strPtr("m9"), Enable: true}
	f.store.On("FindPendingByManager", mock.Anything, "m").Return([]domain.LeaveRequest{
		{LeaveID: "a", RequesterID: "r"},
		{LeaveID: "b", RequesterID: "x"},
		{LeaveID: "c", RequesterID: "r"},
		{LeaveID: "d", RequesterID: "gone"},
	}, nil)
	f.dir.On("GetUser", mock.Anything, "r").Return(employee(), nil).Once()
	f.dir.On("GetUser", mock.Anything, "x").Return(moved, nil).Once()
	f.dir.On("GetUser", mock.Anything, "gone").Return(nil, domain.ErrNotFound).Once()
	f.dir.On("ListReports", mock.Anything, "m").Return([]domain.User{}, nil)

	got, err := f.svc.ListPendingForManager(context.Background(), "m")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].LeaveID)
	assert.Equal(t, "c", got[1].LeaveID)
	f.dir.AssertExpectations(t)
}

func TestListPendingForManager_IncludesReportsWithStaleStamp(t *testing.T) {
	f := newFixture()
	moved := &domain.User{UserID: "r", ManagerID: strPtr("m2"), Enable: true}
	stale := pendingLeave()
	stale.RequestedAt = now.Add(time.Hour)
	approved := pendingLeave()
	approved.LeaveID = "l2"
	approved.Status = domain.LeaveApproved
	fresh := domain.LeaveRequest{LeaveID: "l0", RequesterID: "y", ManagerID: "m2", Status: domain.LeavePending, RequestedAt: now}

	f.store.On("FindPendingByManager", mock.Anything, "m2").Return([]domain.LeaveRequest{fresh}, nil)
	f.dir.On("ListReports", mock.Anything, "m2").Return([]domain.User{*moved, {UserID: "y", ManagerID: strPtr("m2"), Enable: true}}, nil)
	f.store.On("FindByRequester", mock.Anything, "r").Return([]domain.LeaveRequest{*approved, *stale}, nil)
	f.store.On("FindByRequester", mock.Anything, "y").Return([]domain.LeaveRequest{fresh}, nil)

	got, err := f.svc.ListPendingForManager(context.Background(), "m2")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "l0", got[0].LeaveID)
	assert.Equal(t, "l1", got[1].LeaveID)
	f.dir.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}

func TestListPendingForManager_ReportsError(t *testing.T) {
	f := newFixture()
	f.store.On("FindPendingByManager", mock.Anything, "m").Return([]domain.LeaveRequest{}, nil)
	f.dir.On("ListReports", mock.Anything, "m").Return(nil, errors.New("throttled"))

	_, err := f.svc.ListPendingForManager(context.Background(), "m")
	assert.ErrorContains(t, err, "throttled")
}

func TestListInRange_Validates(t *testing.T) {
	f := newFixture()
	_, err := f.svc.ListInRange(context.Background(), date(10), date(1))
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	f.store.On("FindInRange", mock.Anything, date(1), date(10)).Return([]domain.LeaveRequest{{LeaveID: "a"}}, nil)
	got, err := f.svc.ListInRange(context.Background(), date(1).Add(5*time.Hour), date(10))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

// --- CanApprove ---

func TestCanApprove(t *testing.T) {
	managerApproved := pendingLeave()
	managerApproved.Status = domain.LeaveManagerApproved
	approved := pendingLeave()
	approved.Status = domain.LeaveApproved

	cases := []struct {
		name  string
		leave *domain.LeaveRequest
		err   error
		actor string
		want  bool
	}{
		{"manager on pending", pendingLeave(), nil, "m", true},
		{"other manager on pending", pendingLeave(), nil, "m2", false},
		{"anyone on manager approved", managerApproved, nil, "h", true},
		{"terminal", approved, nil, "m", false},
		{"missing leave", nil, domain.ErrNotFound, "m", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.store.On("Get", mock.Anything, "l1").Return(tc.leave, tc.err)
			f.dir.On("GetUser", mock.Anything, "r").Return(employee(), nil)

			got, err := f.svc.CanApprove(context.Background(), "l1", tc.actor)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCanApprove_StoreError(t *testing.T) {
	f := newFixture()
	f.store.On("Get", mock.Anything, "l1").Return(nil, errors.New("timeout"))

	_, err := f.svc.CanApprove(context.Background(), "l1", "m")
	assert.Error(t, err)
}
