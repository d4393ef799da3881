package memory

import (
	"time"

	"studynotes-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// GuestRepository stores anonymous identities. Guests never touch the
// user table; their records live here for the lifetime of the session
// token and vanish on expiry.
type GuestRepository struct {
	cache *cache.Cache
}

func NewGuestRepository(ttl time.Duration) *GuestRepository {
	return &GuestRepository{cache: cache.New(ttl, 30*time.Minute)}
}

func (r *GuestRepository) Save(guest *entity.Guest) {
	r.cache.Set(guest.Id, guest, cache.DefaultExpiration)
}

func (r *GuestRepository) Get(id string) (*entity.Guest, bool) {
	if x, found := r.cache.Get(id); found {
		return x.(*entity.Guest), true
	}
	return nil, false
}

func (r *GuestRepository) Delete(id string) {
	r.cache.Delete(id)
}
