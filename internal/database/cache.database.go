package database

import (
	"context"
	"fmt"

	"aotd/config"

	"github.com/valkey-io/valkey-go"
)

// Valkey database index organization. Each index provides logical separation
// for a cache category.
const (
	// GENERAL_CACHE_INDEX (DB 0) - miscellaneous caching (ratings, stats)
	GENERAL_CACHE_INDEX = iota

	// SESSION_CACHE_INDEX (DB 1) - session tokens and auth state
	SESSION_CACHE_INDEX

	// AOTD_CACHE_INDEX (DB 2) - the active album of the day and recent history
	AOTD_CACHE_INDEX

	// EVENTS_CACHE_INDEX (DB 3) - pub/sub event bus
	EVENTS_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	newClient := func(index int) (valkey.Client, error) {
		return valkey.NewClient(
			valkey.ClientOption{
				InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
				SelectDB:    index,
			},
		)
	}

	var cacheDB Cache
	var err error

	cacheDB.General, err = newClient(GENERAL_CACHE_INDEX)
	if err != nil {
		return log.Err("failed to create general valkey client", err)
	}

	cacheDB.Session, err = newClient(SESSION_CACHE_INDEX)
	if err != nil {
		return log.Err("failed to create session valkey client", err)
	}

	cacheDB.Aotd, err = newClient(AOTD_CACHE_INDEX)
	if err != nil {
		return log.Err("failed to create aotd valkey client", err)
	}

	cacheDB.Events, err = newClient(EVENTS_CACHE_INDEX)
	if err != nil {
		return log.Err("failed to create events valkey client", err)
	}

	s.Cache = cacheDB
	log.Info("cache database initialized")
	return nil
}

// FlushAllCaches empties every cache DB. Used when reseeding so stale entries
// cannot outlive the data they describe.
func (s *DB) FlushAllCaches() error {
	log := s.log.Function("FlushAllCaches")

	clients := map[string]valkey.Client{
		"general": s.Cache.General,
		"session": s.Cache.Session,
		"aotd":    s.Cache.Aotd,
		"events":  s.Cache.Events,
	}

	for name, client := range clients {
		if client == nil {
			continue
		}
		ctx := context.Background()
		if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
			return log.Err("failed to flush cache database", err, "cache", name)
		}
	}

	log.Info("all cache databases flushed")
	return nil
}
