package store

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestFactorySelectsMemory(t *testing.T) {
	s, err := New(Config{Driver: DriverMemory, TTL: time.Hour})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close(context.Background())
	})
	if _, ok := s.(*memoryStore); !ok {
		t.Fatalf("expected memory store, got %T", s)
	}
}

func TestFactorySelectsRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	s, err := New(Config{Driver: DriverRedis, Redis: &RedisConfig{Addr: mr.Addr()}})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close(context.Background())
	})
	if _, ok := s.(*redisStore); !ok {
		t.Fatalf("expected redis store, got %T", s)
	}
}

func TestFactoryRejectsUnknownDriver(t *testing.T) {
	if _, err := New(Config{Driver: "postgres"}); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
}
