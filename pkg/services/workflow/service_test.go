package workflow

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"github.com/de-tools/finops-dashboard/pkg/services/access"
	"github.com/de-tools/finops-dashboard/pkg/services/integration"
	"github.com/de-tools/finops-dashboard/pkg/store/memory"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockConnector struct {
	mock.Mock
}

func (m *mockConnector) Connect(ctx context.Context, in domain.Integration) error {
	return m.Called(ctx, in).Error(0)
}

func (m *mockConnector) Sync(ctx context.Context, in domain.Integration) (int64, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(int64), args.Error(1)
}

type mockLog struct {
	mock.Mock
}

func (m *mockLog) Record(ctx context.Context, entry domain.Activity) {
	m.Called(ctx, entry)
}

func (m *mockLog) List(ctx context.Context, limit int) ([]domain.Activity, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Activity), args.Error(1)
}

var now = time.Date(2025, 8, 1, 10, 30, 0, 0, time.UTC)

type fixture struct {
	store     memory.Store
	connector *mockConnector
	log       *mockLog
	service   Service
	changes   atomic.Int32
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := memory.NewDefaultStore()
	require.NoError(t, err)

	f := &fixture{store: st, connector: &mockConnector{}, log: &mockLog{}}
	f.log.On("Record", mock.Anything, mock.Anything).Return()

	f.service, err = NewService(st, f.connector, f.log, clockwork.NewFakeClockAt(now))
	require.NoError(t, err)
	f.service.Subscribe(func(context.Context) { f.changes.Add(1) })
	return f
}

func withRole(role domain.Role) context.Context {
	s := access.NewSession("alice")
	s.SetRole(role)
	return access.WithSession(context.Background(), s)
}

func TestNewService_Validation(t *testing.T) {
	st, err := memory.NewDefaultStore()
	require.NoError(t, err)

	_, err = NewService(nil, &mockConnector{}, nil, nil)
	assert.Error(t, err)
	_, err = NewService(st, nil, nil, nil)
	assert.Error(t, err)
	_, err = NewService(st, &mockConnector{}, nil, nil)
	assert.NoError(t, err)
}

func TestService_CreateAnnotation(t *testing.T) {
	t.Run("squad lead", func(t *testing.T) {
		f := setupFixture(t)
		a, err := f.service.CreateAnnotation(withRole(domain.RoleSquadLead), "squad-1", "charge-1", "expected spike", "Sarah Chen")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(a.ID, "ann-"))
		assert.Equal(t, now, a.CreatedAt)
		assert.Equal(t, "Sarah Chen", a.User)
		assert.Equal(t, []domain.Annotation{a}, f.store.ListAnnotations("squad-1"))
		assert.Equal(t, int32(1), f.changes.Load())
		f.log.AssertCalled(t, "Record", mock.Anything, mock.MatchedBy(func(e domain.Activity) bool {
			return e.Type == domain.ActivityAnnotation && e.Details == "charge-1"
		}))
	})

	t.Run("free-form record id", func(t *testing.T) {
		f := setupFixture(t)
		_, err := f.service.CreateAnnotation(withRole(domain.RoleFinOps), "squad-2", "does-not-exist", "note", "")
		require.NoError(t, err)
		assert.Equal(t, "alice", f.store.ListAnnotations("squad-2")[0].User)
	})

	t.Run("viewer denied", func(t *testing.T) {
		f := setupFixture(t)
		_, err := f.service.CreateAnnotation(withRole(domain.RoleViewer), "squad-1", "charge-1", "note", "x")
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
		assert.Empty(t, f.store.ListAnnotations(""))
		assert.Equal(t, int32(0), f.changes.Load())
	})

	t.Run("unknown squad", func(t *testing.T) {
		f := setupFixture(t)
		_, err := f.service.CreateAnnotation(withRole(domain.RoleSquadLead), "squad-9", "charge-1", "note", "x")
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.Empty(t, f.store.ListAnnotations(""))
	})

	t.Run("empty text", func(t *testing.T) {
		f := setupFixture(t)
		_, err := f.service.CreateAnnotation(withRole(domain.RoleSquadLead), "squad-1", "charge-1", "  ", "x")
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func TestService_CreateChargeback(t *testing.T) {
	t.Run("created pending", func(t *testing.T) {
		f := setupFixture(t)
		cb, err := f.service.CreateChargeback(withRole(domain.RoleSquadLead), "squad-1", 12500, "reason", []string{"JIRA-1234"})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(cb.ID, "cb-"))
		assert.Equal(t, domain.ChargebackStatusPending, cb.Status)
		assert.Equal(t, now, cb.CreatedAt)

		stored := f.store.ListChargebacks("")
		require.Len(t, stored, 1)
		assert.Equal(t, cb, stored[0])
	})

	t.Run("ids are unique", func(t *testing.T) {
		f := setupFixture(t)
		a, err := f.service.CreateChargeback(withRole(domain.RoleFinOps), "squad-1", 1, "a", nil)
		require.NoError(t, err)
		b, err := f.service.CreateChargeback(withRole(domain.RoleFinOps), "squad-1", 1, "b", nil)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
		assert.Len(t, f.service.ListChargebacks(context.Background(), "squad-1"), 2)
	})

	t.Run("viewer denied", func(t *testing.T) {
		f := setupFixture(t)
		_, err := f.service.CreateChargeback(withRole(domain.RoleViewer), "squad-1", 10, "r", nil)
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
		assert.Empty(t, f.store.ListChargebacks(""))
	})

	t.Run("negative amount", func(t *testing.T) {
		f := setupFixture(t)
		_, err := f.service.CreateChargeback(withRole(domain.RoleSquadLead), "squad-1", -1, "r", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func TestService_UpdateChargeCostCenter(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := setupFixture(t)
		c, err := f.service.UpdateChargeCostCenter(withRole(domain.RoleSquadLead), "charge-1", "Shared")
		require.NoError(t, err)
		assert.Equal(t, "Shared", c.CostCenter)

		stored, err := f.store.GetCharge("charge-1")
		require.NoError(t, err)
		assert.Equal(t, "Shared", stored.CostCenter)
	})

	t.Run("unknown charge is not found regardless of role", func(t *testing.T) {
		f := setupFixture(t)
		for _, role := range []domain.Role{domain.RoleViewer, domain.RoleSquadLead, domain.RoleFinOps} {
			_, err := f.service.UpdateChargeCostCenter(withRole(role), "charge-999", "Shared")
			assert.ErrorIs(t, err, domain.ErrNotFound, role)
		}
		assert.Len(t, f.store.ListCharges(""), 10)
	})

	t.Run("viewer denied", func(t *testing.T) {
		f := setupFixture(t)
		_, err := f.service.UpdateChargeCostCenter(withRole(domain.RoleViewer), "charge-1", "Shared")
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)

		stored, err := f.store.GetCharge("charge-1")
		require.NoError(t, err)
		assert.Equal(t, "Platform-001", stored.CostCenter)
	})
}

func TestService_ConnectIntegration(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := setupFixture(t)
		f.connector.On("Connect", mock.Anything, mock.MatchedBy(func(in domain.Integration) bool { return in.ID == "int-4" })).Return(nil)

		res, err := f.service.ConnectIntegration(withRole(domain.RoleFinOps), "int-4")
		require.NoError(t, err)
		assert.Equal(t, domain.ConnectResult{Success: true, Message: integration.ConnectedMessage}, res)

		in, err := f.store.GetIntegration("int-4")
		require.NoError(t, err)
		assert.Equal(t, domain.IntegrationStatusConnected, in.Status)
		require.NotNil(t, in.LastSync)
		assert.Equal(t, domain.LastSyncJustNow, *in.LastSync)
	})

	t.Run("connector failure is a normal result", func(t *testing.T) {
		f := setupFixture(t)
		f.connector.On("Connect", mock.Anything, mock.Anything).Return(integration.ErrConnectFailed)

		res, err := f.service.ConnectIntegration(withRole(domain.RoleFinOps), "int-1")
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, integration.FailedMessage, res.Message)

		in, err := f.store.GetIntegration("int-1")
		require.NoError(t, err)
		assert.Equal(t, domain.IntegrationStatusError, in.Status)
		assert.Equal(t, "5 minutes ago", *in.LastSync)
	})

	t.Run("squad lead lacks admin", func(t *testing.T) {
		f := setupFixture(t)
		_, err := f.service.ConnectIntegration(withRole(domain.RoleSquadLead), "int-4")
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
		f.connector.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything)

		in, err := f.store.GetIntegration("int-4")
		require.NoError(t, err)
		assert.Equal(t, domain.IntegrationStatusError, in.Status)
	})

	t.Run("unknown integration", func(t *testing.T) {
		f := setupFixture(t)
		_, err := f.service.ConnectIntegration(withRole(domain.RoleViewer), "int-9")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("rate limited connect leaves state untouched", func(t *testing.T) {
		f := setupFixture(t)
		f.connector.On("Connect", mock.Anything, mock.Anything).Return(nil).Once()
		svc, err := NewService(f.store, integration.NewThrottled(f.connector, 0, 1), f.log, clockwork.NewFakeClockAt(now))
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(withRole(domain.RoleFinOps), time.Second)
		defer cancel()

		res, err := svc.ConnectIntegration(ctx, "int-1")
		require.NoError(t, err)
		assert.True(t, res.Success)

		before, err := f.store.GetIntegration("int-2")
		require.NoError(t, err)

		_, err = svc.ConnectIntegration(ctx, "int-2")
		assert.ErrorIs(t, err, domain.ErrRateLimited)

		after, err := f.store.GetIntegration("int-2")
		require.NoError(t, err)
		assert.Equal(t, before, after)
		f.connector.AssertNumberOfCalls(t, "Connect", 1)
		f.log.AssertNumberOfCalls(t, "Record", 1)
	})

	t.Run("canceled context leaves state untouched", func(t *testing.T) {
		f := setupFixture(t)
		ctx, cancel := context.WithCancel(withRole(domain.RoleFinOps))
		cancel()
		f.connector.On("Connect", mock.Anything, mock.Anything).Return(context.Canceled)

		_, err := f.service.ConnectIntegration(ctx, "int-1")
		assert.ErrorIs(t, err, context.Canceled)

		in, err := f.store.GetIntegration("int-1")
		require.NoError(t, err)
		assert.Equal(t, domain.IntegrationStatusConnected, in.Status)
	})
}

func TestService_RefreshIntegration(t *testing.T) {
	t.Run("any role may refresh", func(t *testing.T) {
		f := setupFixture(t)
		f.connector.On("Sync", mock.Anything, mock.Anything).Return(int64(42), nil)

		require.NoError(t, f.service.RefreshIntegration(withRole(domain.RoleViewer), "int-2"))

		in, err := f.store.GetIntegration("int-2")
		require.NoError(t, err)
		assert.Equal(t, domain.LastSyncJustNow, *in.LastSync)
		assert.Equal(t, int64(1247+42), *in.RecordsProcessed)
		assert.Equal(t, int32(1), f.changes.Load())
	})

	t.Run("unknown integration", func(t *testing.T) {
		f := setupFixture(t)
		assert.ErrorIs(t, f.service.RefreshIntegration(context.Background(), "int-9"), domain.ErrNotFound)
	})

	t.Run("sync failure leaves state untouched", func(t *testing.T) {
		f := setupFixture(t)
		boom := errors.New("boom")
		f.connector.On("Sync", mock.Anything, mock.Anything).Return(int64(0), boom)

		assert.ErrorIs(t, f.service.RefreshIntegration(context.Background(), "int-3"), boom)
		in, err := f.store.GetIntegration("int-3")
		require.NoError(t, err)
		assert.Equal(t, "2 hours ago", *in.LastSync)
		assert.Equal(t, int32(0), f.changes.Load())
	})
}

func TestService_RefreshAllIntegrations(t *testing.T) {
	f := setupFixture(t)
	f.connector.On("Sync", mock.Anything, mock.Anything).Return(int64(10), nil)

	require.NoError(t, f.service.RefreshAllIntegrations(context.Background()))

	for _, in := range f.store.ListIntegrations() {
		assert.Equal(t, domain.LastSyncJustNow, *in.LastSync, in.ID)
	}
	in, err := f.store.GetIntegration("int-4")
	require.NoError(t, err)
	assert.Equal(t, int64(10), *in.RecordsProcessed)
	f.connector.AssertNumberOfCalls(t, "Sync", 4)
	assert.Equal(t, int32(1), f.changes.Load())
}

func TestService_ListActivity(t *testing.T) {
	f := setupFixture(t)
	f.log.On("List", mock.Anything, 20).Return([]domain.Activity{{ID: "a"}}, nil)

	res, err := f.service.ListActivity(context.Background(), 20)
	require.NoError(t, err)
	assert.Len(t, res, 1)
}
