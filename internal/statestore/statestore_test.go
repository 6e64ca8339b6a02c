package statestore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := New(Options{Addr: mr.Addr()})
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestPing(t *testing.T) {
	store, _ := newTestStore(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}

func TestGetSet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, found, err := store.Get(ctx, "session:abc")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Get() found = true for missing key")
	}

	if err := store.Set(ctx, "session:abc", "payload", 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	val, found, err := store.Get(ctx, "session:abc")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("Get() found = false after Set")
	}
	if val != "payload" {
		t.Errorf("Get() = %q, want %q", val, "payload")
	}
}

func TestSetWithTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "session:ttl", "v", 30*time.Second); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	mr.FastForward(time.Minute)

	_, found, err := store.Get(ctx, "session:ttl")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("key survived past its TTL")
	}
}

func TestDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "k1", "v1", 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Delete(ctx, "k1", "missing"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, found, _ := store.Get(ctx, "k1"); found {
		t.Error("key still present after Delete")
	}

	if err := store.Delete(ctx); err != nil {
		t.Errorf("Delete() with no keys error = %v", err)
	}
}

func TestHashAccessors(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.HSet(ctx, "session:meta", map[string]string{
		"server": "demo",
		"tools":  "3",
	}); err != nil {
		t.Fatalf("HSet() error = %v", err)
	}

	val, found, err := store.HGet(ctx, "session:meta", "server")
	if err != nil {
		t.Fatalf("HGet() error = %v", err)
	}
	if !found || val != "demo" {
		t.Errorf("HGet() = (%q, %v), want (%q, true)", val, found, "demo")
	}

	_, found, err = store.HGet(ctx, "session:meta", "absent")
	if err != nil {
		t.Fatalf("HGet() error = %v", err)
	}
	if found {
		t.Error("HGet() found = true for missing field")
	}
}

func TestPingerUsesResolvedAddr(t *testing.T) {
	mr := miniredis.RunT(t)

	pinger := &Pinger{AddrFor: func(serviceName, namespace string) string {
		if serviceName != "redis-master" || namespace != "default" {
			t.Errorf("AddrFor called with (%q, %q)", serviceName, namespace)
		}
		return mr.Addr()
	}}

	if err := pinger.PingService(context.Background(), "redis-master", "default"); err != nil {
		t.Fatalf("PingService() error = %v", err)
	}
}

func TestServiceAddr(t *testing.T) {
	got := ServiceAddr("redis-master", "mcp-system")
	want := "redis-master.mcp-system.svc.cluster.local:6379"
	if got != want {
		t.Errorf("ServiceAddr() = %q, want %q", got, want)
	}
}
