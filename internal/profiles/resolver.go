// Package profiles — загрузка и кэширование профилей участников сделок.
package profiles

import (
	"context"
	"sync"
	"time"

	"github.com/ignatzorin/bazaar-gateway/internal/logger"
	"github.com/ignatzorin/bazaar-gateway/internal/models"
)

// Срок жизни закэшированного профиля.
const cacheTTL = 10 * time.Minute

// ProfileFetcher описывает загрузку профиля с ноды.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, peerID string) (*models.Profile, error)
}

type cachedProfile struct {
	profile   *models.Profile
	fetchedAt time.Time
}

// Resolver загружает профили участников сделки и кэширует их по peerID.
type Resolver struct {
	fetcher ProfileFetcher

	mu    sync.Mutex
	cache map[string]cachedProfile
}

// NewResolver создаёт резолвер профилей.
func NewResolver(fetcher ProfileFetcher) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		cache:   make(map[string]cachedProfile),
	}
}

// Get возвращает профиль участника, из кэша либо с ноды.
func (r *Resolver) Get(ctx context.Context, peerID string) (*models.Profile, error) {
	if peerID == "" {
		return nil, nil
	}

	r.mu.Lock()
	cached, ok := r.cache[peerID]
	r.mu.Unlock()
	if ok && time.Since(cached.fetchedAt) < cacheTTL {
		return cached.profile, nil
	}

	profile, err := r.fetcher.GetProfile(ctx, peerID)
	if err != nil {
		// Протухший профиль лучше, чем никакого.
		if ok {
			return cached.profile, nil
		}
		return nil, err
	}

	r.mu.Lock()
	r.cache[peerID] = cachedProfile{profile: profile, fetchedAt: time.Now()}
	r.mu.Unlock()
	return profile, nil
}

// Participants — профили сторон сделки по ролям. Для каждой роли профиль
// загружается по peerID именно этой роли.
type Participants struct {
	Buyer     *models.Profile `json:"buyer,omitempty"`
	Vendor    *models.Profile `json:"vendor,omitempty"`
	Moderator *models.Profile `json:"moderator,omitempty"`
}

// Resolve собирает профили участников по контракту сделки. Отсутствие
// профиля одной из сторон не срывает загрузку остальных.
func (r *Resolver) Resolve(ctx context.Context, contract *models.Contract) Participants {
	if contract == nil {
		return Participants{}
	}

	var participants Participants
	participants.Buyer = r.resolveOne(ctx, contract.BuyerID(), models.RoleBuyer)
	participants.Vendor = r.resolveOne(ctx, contract.VendorID(), models.RoleVendor)
	participants.Moderator = r.resolveOne(ctx, contract.ModeratorID(), models.RoleModerator)
	return participants
}

func (r *Resolver) resolveOne(ctx context.Context, peerID, role string) *models.Profile {
	if peerID == "" {
		return nil
	}
	profile, err := r.Get(ctx, peerID)
	if err != nil {
		logger.Log.WithError(err).WithField("role", role).WithField("peer_id", peerID).
			Debug("Не удалось загрузить профиль участника")
		return nil
	}
	return profile
}

// Invalidate сбрасывает кэш профиля.
func (r *Resolver) Invalidate(peerID string) {
	r.mu.Lock()
	delete(r.cache, peerID)
	r.mu.Unlock()
}
