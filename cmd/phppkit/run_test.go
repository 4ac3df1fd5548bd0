package main

import (
	"testing"

	"github.com/ChicagoDave/phppkit/internal/config"
	"github.com/ChicagoDave/phppkit/pkg/metadata"
)

func TestStoreDefaultsToMemory(t *testing.T) {
	a := &app{cfg: &config.Config{}}
	store, closeStore := a.store()
	if _, ok := store.(*metadata.MemoryStore); !ok {
		t.Errorf("store = %T, want *metadata.MemoryStore", store)
	}
	if err := closeStore(); err != nil {
		t.Errorf("close = %v", err)
	}
}

func TestStoreClosesRedisClient(t *testing.T) {
	a := &app{cfg: &config.Config{Redis: config.RedisConfig{Addr: "127.0.0.1:0"}}}
	store, closeStore := a.store()
	if _, ok := store.(*metadata.RedisStore); !ok {
		t.Errorf("store = %T, want *metadata.RedisStore", store)
	}
	if err := closeStore(); err != nil {
		t.Errorf("first close = %v", err)
	}
	if err := closeStore(); err == nil {
		t.Error("second close should report the client is already closed")
	}
}
