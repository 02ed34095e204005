package ticketwatch

import (
	"railwatch/lib/scrapers/railway"
	"time"

	"github.com/PuerkitoBio/purell"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

type resultCache struct {
	cache *expirable.LRU[string, []railway.TrainInfo]
}

func newResultCache(ttl time.Duration) resultCache {
	return resultCache{
		cache: expirable.NewLRU[string, []railway.TrainInfo](256, nil, ttl),
	}
}

func (c resultCache) key(searchUrl string, target Target) string {
	normalized, err := purell.NormalizeURLString(
		searchUrl,
		purell.FlagsSafe|
			purell.FlagsUsuallySafeNonGreedy|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery,
	)
	if err != nil {
		normalized = searchUrl
	}
	return target.TrainPrefix + ":" + target.SeatClass + ":" + target.Receiver + ":" + normalized
}

func (c resultCache) get(key string) ([]railway.TrainInfo, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(key)
}

func (c resultCache) add(key string, trips []railway.TrainInfo) {
	if c.cache == nil {
		return
	}
	c.cache.Add(key, trips)
}
