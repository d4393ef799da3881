package memory

import (
	"sync"
	"time"

	"studynotes-be/internal/navigation"

	"github.com/patrickmn/go-cache"
)

// ViewStateRepository holds one navigation state machine per user id.
// States idle out after a day of inactivity; a fresh one is handed out
// transparently on the next access.
type ViewStateRepository struct {
	cache *cache.Cache
	mu    sync.Mutex
}

func NewViewStateRepository() *ViewStateRepository {
	c := cache.New(24*time.Hour, 30*time.Minute)
	return &ViewStateRepository{cache: c}
}

// GetOrCreate returns the user's state machine, creating a fresh one on
// the landing view when none exists. Creation is serialized so two
// concurrent requests cannot race into separate states for the same user.
func (r *ViewStateRepository) GetOrCreate(userId string) *navigation.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if x, found := r.cache.Get(userId); found {
		// refresh the idle window
		r.cache.Set(userId, x, cache.DefaultExpiration)
		return x.(*navigation.State)
	}
	state := navigation.NewState()
	r.cache.Set(userId, state, cache.DefaultExpiration)
	return state
}

func (r *ViewStateRepository) Delete(userId string) {
	r.cache.Delete(userId)
}
