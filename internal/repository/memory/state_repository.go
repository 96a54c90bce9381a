package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// StateRepository stores OAuth state nonces between the authorize redirect
// and the provider callback. Entries self-expire; a state can be consumed
// exactly once.
type StateRepository struct {
	cache *cache.Cache
}

func NewStateRepository() *StateRepository {
	// OAuth round trips finish in seconds; 10 minutes is generous.
	c := cache.New(10*time.Minute, 5*time.Minute)
	return &StateRepository{cache: c}
}

func (r *StateRepository) Save(state, provider string) {
	r.cache.Set(state, provider, cache.DefaultExpiration)
}

// Consume returns the provider the state was issued for and removes it.
func (r *StateRepository) Consume(state string) (string, bool) {
	x, found := r.cache.Get(state)
	if !found {
		return "", false
	}
	r.cache.Delete(state)
	return x.(string), true
}
