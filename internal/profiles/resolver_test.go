package profiles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/bazaar-gateway/internal/logger"
	"github.com/ignatzorin/bazaar-gateway/internal/models"
)

func init() {
	logger.Init("error")
}

type mockProfileFetcher struct {
	mock.Mock
}

func (m *mockProfileFetcher) GetProfile(ctx context.Context, peerID string) (*models.Profile, error) {
	args := m.Called(ctx, peerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func TestGetCachesProfile(t *testing.T) {
	fetcher := new(mockProfileFetcher)
	fetcher.On("GetProfile", mock.Anything, "peer-1").
		Return(&models.Profile{PeerID: "peer-1", Name: "Продавец"}, nil).Once()
	resolver := NewResolver(fetcher)

	first, err := resolver.Get(context.Background(), "peer-1")
	assert.NoError(t, err)
	second, err := resolver.Get(context.Background(), "peer-1")
	assert.NoError(t, err)

	assert.Same(t, first, second)
	fetcher.AssertNumberOfCalls(t, "GetProfile", 1)
}

func TestGetEmptyPeerID(t *testing.T) {
	resolver := NewResolver(new(mockProfileFetcher))

	profile, err := resolver.Get(context.Background(), "")

	assert.NoError(t, err)
	assert.Nil(t, profile)
}

func TestGetFallsBackToStaleProfileOnError(t *testing.T) {
	fetcher := new(mockProfileFetcher)
	fetcher.On("GetProfile", mock.Anything, "peer-1").
		Return(&models.Profile{PeerID: "peer-1", Name: "Продавец"}, nil).Once()
	resolver := NewResolver(fetcher)

	cached, err := resolver.Get(context.Background(), "peer-1")
	assert.NoError(t, err)

	// Протухание кэша и отказ ноды при повторной загрузке.
	resolver.mu.Lock()
	entry := resolver.cache["peer-1"]
	entry.fetchedAt = entry.fetchedAt.Add(-2 * cacheTTL)
	resolver.cache["peer-1"] = entry
	resolver.mu.Unlock()
	fetcher.On("GetProfile", mock.Anything, "peer-1").Return(nil, assert.AnError).Once()

	profile, err := resolver.Get(context.Background(), "peer-1")

	assert.NoError(t, err)
	assert.Same(t, cached, profile)
}

func TestGetErrorWithoutCache(t *testing.T) {
	fetcher := new(mockProfileFetcher)
	fetcher.On("GetProfile", mock.Anything, "peer-1").Return(nil, assert.AnError).Once()
	resolver := NewResolver(fetcher)

	_, err := resolver.Get(context.Background(), "peer-1")

	assert.ErrorIs(t, err, assert.AnError)
}

func TestResolveFetchesEachRoleByItsOwnPeerID(t *testing.T) {
	fetcher := new(mockProfileFetcher)
	fetcher.On("GetProfile", mock.Anything, "peer-buyer").
		Return(&models.Profile{PeerID: "peer-buyer", Name: "Покупатель"}, nil).Once()
	fetcher.On("GetProfile", mock.Anything, "peer-vendor").
		Return(&models.Profile{PeerID: "peer-vendor", Name: "Продавец"}, nil).Once()
	fetcher.On("GetProfile", mock.Anything, "peer-mod").
		Return(&models.Profile{PeerID: "peer-mod", Name: "Модератор", Moderator: true}, nil).Once()
	resolver := NewResolver(fetcher)

	contract := &models.Contract{
		BuyerOrder: &models.BuyerOrder{
			BuyerID: models.Party{PeerID: "peer-buyer"},
			Payment: models.PaymentTerms{Moderator: "peer-mod"},
		},
		VendorListings: []models.VendorListing{
			{VendorID: models.Party{PeerID: "peer-vendor"}},
		},
	}

	participants := resolver.Resolve(context.Background(), contract)

	assert.Equal(t, "peer-buyer", participants.Buyer.PeerID)
	assert.Equal(t, "peer-vendor", participants.Vendor.PeerID)
	assert.Equal(t, "peer-mod", participants.Moderator.PeerID)
	fetcher.AssertExpectations(t)
}

func TestResolveUnmoderatedContractSkipsModerator(t *testing.T) {
	fetcher := new(mockProfileFetcher)
	fetcher.On("GetProfile", mock.Anything, mock.Anything).
		Return(&models.Profile{}, nil)
	resolver := NewResolver(fetcher)

	contract := &models.Contract{
		BuyerOrder: &models.BuyerOrder{BuyerID: models.Party{PeerID: "peer-buyer"}},
		VendorListings: []models.VendorListing{
			{VendorID: models.Party{PeerID: "peer-vendor"}},
		},
	}

	participants := resolver.Resolve(context.Background(), contract)

	assert.Nil(t, participants.Moderator)
	fetcher.AssertNumberOfCalls(t, "GetProfile", 2)
}

func TestResolveFailedRoleDoesNotBreakOthers(t *testing.T) {
	fetcher := new(mockProfileFetcher)
	fetcher.On("GetProfile", mock.Anything, "peer-buyer").Return(nil, assert.AnError).Once()
	fetcher.On("GetProfile", mock.Anything, "peer-vendor").
		Return(&models.Profile{PeerID: "peer-vendor"}, nil).Once()
	resolver := NewResolver(fetcher)

	contract := &models.Contract{
		BuyerOrder: &models.BuyerOrder{BuyerID: models.Party{PeerID: "peer-buyer"}},
		VendorListings: []models.VendorListing{
			{VendorID: models.Party{PeerID: "peer-vendor"}},
		},
	}

	participants := resolver.Resolve(context.Background(), contract)

	assert.Nil(t, participants.Buyer)
	assert.NotNil(t, participants.Vendor)
}

func TestInvalidateDropsCache(t *testing.T) {
	fetcher := new(mockProfileFetcher)
	fetcher.On("GetProfile", mock.Anything, "peer-1").
		Return(&models.Profile{PeerID: "peer-1"}, nil).Twice()
	resolver := NewResolver(fetcher)

	_, err := resolver.Get(context.Background(), "peer-1")
	assert.NoError(t, err)
	resolver.Invalidate("peer-1")
	_, err = resolver.Get(context.Background(), "peer-1")
	assert.NoError(t, err)

	fetcher.AssertNumberOfCalls(t, "GetProfile", 2)
}
