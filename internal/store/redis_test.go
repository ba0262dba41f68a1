package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/workspace-sessions/internal/catalog"
)

func newRedisKV(t *testing.T) (*RedisKV, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	kv := NewRedisKV(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
	t.Cleanup(func() { kv.Close() })
	return kv, mr
}

func TestRedisKVApplyAndGet(t *testing.T) {
	ctx := context.Background()
	kv, mr := newRedisKV(t)

	if _, err := kv.Get(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
	}
	if err := kv.Apply(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}, nil); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !mr.Exists("test:a") || !mr.Exists("test:b") {
		t.Fatalf("keys = %v, want prefixed a and b", mr.Keys())
	}
	if err := kv.Apply(ctx, map[string][]byte{"a": []byte("3")}, []string{"b"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got, err := kv.Get(ctx, "a")
	if err != nil || string(got) != "3" {
		t.Fatalf("Get(a) = %q, %v; want 3", got, err)
	}
	if mr.Exists("test:b") {
		t.Fatal("b was not deleted")
	}
}

func TestRedisStateStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv, mr := newRedisKV(t)
	s := NewStateStore(kv, catalog.SeedVersion(), catalog.Seed)

	in := sampleState()
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Current == nil || out.Current.ID != in.Current.ID {
		t.Fatalf("Current = %+v", out.Current)
	}

	in.Current = nil
	s.Save(ctx, in)
	if mr.Exists("test:" + KeyCurrentSession) {
		t.Fatal("currentSession kept after idle save")
	}
}

func TestRedisKVSurfacesBackendErrors(t *testing.T) {
	ctx := context.Background()
	kv, mr := newRedisKV(t)
	mr.Close()
	if _, err := kv.Get(ctx, "a"); err == nil || err == ErrNotFound {
		t.Fatalf("Get on closed server err = %v, want a backend error", err)
	}
	s := NewStateStore(kv, catalog.SeedVersion(), catalog.Seed)
	if _, err := s.Load(ctx); err == nil {
		t.Fatal("Load on closed server succeeded")
	}
}
