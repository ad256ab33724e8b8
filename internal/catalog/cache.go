package catalog

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const exerciseCacheTTLSeconds = 3600

type exerciseGetter interface {
	GetExercise(ctx context.Context, id int) (*Exercise, error)
}

// CachedExercises is a cache-aside wrapper around exercise lookups. The
// catalog is read-only, so entries never have to be invalidated, only expire.
type CachedExercises struct {
	inner exerciseGetter
	cache *freecache.Cache
}

func NewCachedExercises(inner exerciseGetter, cacheSizeBytes int) *CachedExercises {
	return &CachedExercises{
		inner: inner,
		cache: freecache.NewCache(cacheSizeBytes),
	}
}

func (c *CachedExercises) GetExercise(ctx context.Context, id int) (*Exercise, error) {
	key := []byte("exercise:" + strconv.Itoa(id))
	if cached, err := c.cache.Get(key); err == nil {
		var exercise Exercise
		if err := json.Unmarshal(cached, &exercise); err == nil {
			return &exercise, nil
		}
		log.Warnf("failed to unmarshal cached exercise %d, falling back to db", id)
	}

	exercise, err := c.inner.GetExercise(ctx, id)
	if err != nil {
		return nil, err
	}

	exerciseJson, err := json.Marshal(exercise)
	if err != nil {
		log.Warnf("failed to marshal exercise %d for cache: %s", id, err)
		return exercise, nil
	}
	if err := c.cache.Set(key, exerciseJson, exerciseCacheTTLSeconds); err != nil {
		log.Warnf("failed to cache exercise %d: %s", id, err)
	}

	return exercise, nil
}
