package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/bazaar-gateway/internal/events"
	"github.com/ignatzorin/bazaar-gateway/internal/guard"
	"github.com/ignatzorin/bazaar-gateway/internal/models"
	"github.com/ignatzorin/bazaar-gateway/internal/pkg/apperror"
)

func newDetailFixture(fetcher *stubFetcher) *OrderDetailService {
	bus := events.NewBus()
	sessions := NewSessionStore(fetcher, bus)
	actions := NewOrderActions(new(mockNode), guard.NewActionGuard(), bus, sessions, nil)
	return NewOrderDetailService(sessions, actions)
}

func TestOpenLoadsDealAndResolvesRole(t *testing.T) {
	detail := newDetailFixture(&stubFetcher{order: newTestOrder(models.StatePending)})
	detail.SetOwnPeerID("peer-vendor")

	view, err := detail.Open(context.Background(), "order-1", false)

	assert.NoError(t, err)
	assert.Equal(t, "order-1", view.ID)
	assert.Equal(t, models.RoleVendor, view.Role)
	assert.Equal(t, []models.OrderAction{models.ActionAccept, models.ActionReject}, view.Actions)
}

func TestOpenMissingOrderID(t *testing.T) {
	detail := newDetailFixture(&stubFetcher{})

	_, err := detail.Open(context.Background(), "", false)

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrCodeMissingArgument, appErr.Code)
}

func TestOpenUnknownOrder(t *testing.T) {
	detail := newDetailFixture(&stubFetcher{})

	_, err := detail.Open(context.Background(), "order-missing", false)

	assert.ErrorIs(t, err, apperror.ErrOrderNotFound)
}

func TestCurrentRequiresOpenedDeal(t *testing.T) {
	detail := newDetailFixture(&stubFetcher{order: newTestOrder(models.StatePending)})

	_, err := detail.Current("order-1")
	assert.True(t, apperror.IsMissingData(err))

	_, err = detail.Open(context.Background(), "order-1", false)
	assert.NoError(t, err)

	view, err := detail.Current("order-1")
	assert.NoError(t, err)
	assert.Equal(t, models.StatePending, view.State)
}

func TestCloseDropsSession(t *testing.T) {
	detail := newDetailFixture(&stubFetcher{order: newTestOrder(models.StatePending)})
	_, err := detail.Open(context.Background(), "order-1", false)
	assert.NoError(t, err)

	detail.Close("order-1")

	_, err = detail.Current("order-1")
	assert.True(t, apperror.IsMissingData(err))
}

func TestRoleUnknownUntilPeerIDSet(t *testing.T) {
	detail := newDetailFixture(&stubFetcher{order: newTestOrder(models.StatePending)})

	view, err := detail.Open(context.Background(), "order-1", false)

	assert.NoError(t, err)
	assert.Empty(t, view.Role)
	assert.Empty(t, view.Actions)
}
