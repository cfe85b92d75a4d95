package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"github.com/de-tools/finops-dashboard/pkg/models/store"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Add(ctx context.Context, records ...store.Activity) error {
	args := []interface{}{ctx}
	for _, r := range records {
		args = append(args, r)
	}
	return m.Called(args...).Error(0)
}

func (m *mockStore) List(ctx context.Context, limit int) ([]store.Activity, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]store.Activity), args.Error(1)
}

func TestNewLog_NilStore(t *testing.T) {
	l, err := NewLog(nil, nil)
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestLog_RecordFillsIdAndTime(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	st := &mockStore{}
	l, err := NewLog(st, clockwork.NewFakeClockAt(now))
	require.NoError(t, err)

	st.On("Add", mock.Anything, mock.MatchedBy(func(a store.Activity) bool {
		return len(a.ID) > 4 && a.ID[:4] == "act-" && a.CreatedAt.Equal(now) && a.Type == "chargeback"
	})).Return(nil).Once()

	l.Record(context.Background(), domain.Activity{Type: domain.ActivityChargeback, Action: "Submitted chargeback"})
	st.AssertExpectations(t)
}

func TestLog_RecordSwallowsStoreErrors(t *testing.T) {
	st := &mockStore{}
	l, err := NewLog(st, clockwork.NewFakeClock())
	require.NoError(t, err)

	st.On("Add", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	assert.NotPanics(t, func() {
		l.Record(context.Background(), domain.Activity{Type: domain.ActivityAnnotation})
	})
}

func TestLog_List(t *testing.T) {
	st := &mockStore{}
	l, err := NewLog(st, clockwork.NewFakeClock())
	require.NoError(t, err)

	st.On("List", mock.Anything, 5).Return([]store.Activity{{ID: "a1", Type: "governance", Action: "Updated cost center"}}, nil)
	res, err := l.List(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, domain.ActivityGovernance, res[0].Type)
}
