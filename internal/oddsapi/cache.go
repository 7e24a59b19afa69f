package oddsapi

import (
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/metrics"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/models"
)

const sportsCacheKey = "sports"

// responseCache keeps decoded provider responses for a limited time
type responseCache struct {
	store     *cache.Cache
	sportsTTL time.Duration
	oddsTTL   time.Duration
}

func newResponseCache(sportsTTL, oddsTTL time.Duration) *responseCache {
	cleanup := oddsTTL
	if sportsTTL > cleanup {
		cleanup = sportsTTL
	}
	return &responseCache{
		store:     cache.New(oddsTTL, cleanup*2),
		sportsTTL: sportsTTL,
		oddsTTL:   oddsTTL,
	}
}

func oddsCacheKey(sportKey string) string {
	return "odds:" + sportKey
}

func (c *responseCache) sports() ([]models.ProviderSport, bool) {
	if c.sportsTTL <= 0 {
		return nil, false
	}
	v, found := c.store.Get(sportsCacheKey)
	metrics.RecordProviderCache(found)
	if !found {
		return nil, false
	}
	sports, ok := v.([]models.ProviderSport)
	return sports, ok
}

func (c *responseCache) setSports(sports []models.ProviderSport) {
	if c.sportsTTL > 0 {
		c.store.Set(sportsCacheKey, sports, c.sportsTTL)
	}
}

func (c *responseCache) events(sportKey string) ([]models.Event, bool) {
	if c.oddsTTL <= 0 {
		return nil, false
	}
	v, found := c.store.Get(oddsCacheKey(sportKey))
	metrics.RecordProviderCache(found)
	if !found {
		return nil, false
	}
	events, ok := v.([]models.Event)
	return events, ok
}

func (c *responseCache) setEvents(sportKey string, events []models.Event) {
	if c.oddsTTL > 0 {
		c.store.Set(oddsCacheKey(sportKey), events, c.oddsTTL)
	}
}

func (c *responseCache) flush() {
	c.store.Flush()
}

func (c *responseCache) len() int {
	return c.store.ItemCount()
}
