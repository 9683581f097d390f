package kv

import (
	"context"
	"testing"
	"time"
)

func TestMemStore_LockRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	ok, err := s.TryAcquireLock(ctx, "lock:1", "holder-a", 30*time.Second)
	if err != nil || !ok {
		t.Fatalf("expected first acquire to succeed, got ok=%v err=%v", ok, err)
	}

	ok, err = s.TryAcquireLock(ctx, "lock:1", "holder-b", 30*time.Second)
	if err != nil || ok {
		t.Fatalf("expected second acquire to fail while held, got ok=%v err=%v", ok, err)
	}

	// A late/crashed holder releasing with the wrong token must not drop
	// the current owner's lock.
	if err := s.ReleaseLock(ctx, "lock:1", "holder-b"); err != nil {
		t.Fatalf("release with wrong token errored: %v", err)
	}
	ok, err = s.TryAcquireLock(ctx, "lock:1", "holder-c", 30*time.Second)
	if err != nil || ok {
		t.Fatalf("lock should still be held by holder-a, got ok=%v err=%v", ok, err)
	}

	if err := s.ReleaseLock(ctx, "lock:1", "holder-a"); err != nil {
		t.Fatalf("release with correct token errored: %v", err)
	}
	ok, err = s.TryAcquireLock(ctx, "lock:1", "holder-c", 30*time.Second)
	if err != nil || !ok {
		t.Fatalf("expected lock to be reacquirable after proper release, got ok=%v err=%v", ok, err)
	}
}

func TestMemStore_CASUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	ok, err := s.CASUpdate(ctx, "k", nil, []byte("v1"), time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected CAS-on-absent to succeed, got ok=%v err=%v", ok, err)
	}

	ok, err = s.CASUpdate(ctx, "k", []byte("wrong"), []byte("v2"), time.Minute)
	if err != nil || ok {
		t.Fatalf("expected CAS with wrong expected to fail, got ok=%v err=%v", ok, err)
	}

	ok, err = s.CASUpdate(ctx, "k", []byte("v1"), []byte("v2"), time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected CAS with correct expected to succeed, got ok=%v err=%v", ok, err)
	}

	got, found, err := s.Get(ctx, "k")
	if err != nil || !found || string(got) != "v2" {
		t.Fatalf("expected v2, got %q found=%v err=%v", got, found, err)
	}
}

func TestMemStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	fixed := time.Now()
	s.now = func() time.Time { return fixed }

	if err := s.SetEx(ctx, "k", time.Second, []byte("v")); err != nil {
		t.Fatalf("setex: %v", err)
	}
	if _, found, _ := s.Get(ctx, "k"); !found {
		t.Fatal("expected key present before TTL elapses")
	}

	s.now = func() time.Time { return fixed.Add(2 * time.Second) }
	if _, found, _ := s.Get(ctx, "k"); found {
		t.Fatal("expected key expired after TTL elapses")
	}
}
