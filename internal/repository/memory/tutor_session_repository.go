package memory

import (
	"time"

	"studynotes-be/pkg/tutor"

	"github.com/patrickmn/go-cache"
)

// TutorSessionRepository keeps live tutor sessions (transcript plus the
// remote conversation handle) in memory. Sessions expire after an hour
// idle; the persisted chat history outlives them.
type TutorSessionRepository struct {
	cache *cache.Cache
}

func NewTutorSessionRepository() *TutorSessionRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &TutorSessionRepository{cache: c}
}

func (r *TutorSessionRepository) Save(session *tutor.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *TutorSessionRepository) Get(sessionID string) (*tutor.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		// keep active conversations alive
		r.cache.Set(sessionID, x, cache.DefaultExpiration)
		return x.(*tutor.Session), true
	}
	return nil, false
}

func (r *TutorSessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
