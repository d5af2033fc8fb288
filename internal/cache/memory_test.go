package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemory_SetGetExists(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewMemory(ctx, 0)

	ok, err := m.Exists(ctx, "song/1")
	if err != nil || ok {
		t.Fatalf("Exists on empty cache = %v, %v", ok, err)
	}

	if _, err := m.Get(ctx, "song/1"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	value := []byte(`{"id":1}`)
	if err := m.Set(ctx, "song/1", value); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	value[0] = 'X'

	got, err := m.Get(ctx, "song/1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(got) != `{"id":1}` {
		t.Errorf("stored value was aliased: %s", got)
	}

	ok, err = m.Exists(ctx, "song/1")
	if err != nil || !ok {
		t.Fatalf("Exists after Set = %v, %v", ok, err)
	}
}

func TestMemory_Expire(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewMemory(ctx, 0)

	if err := m.Expire(ctx, "missing", time.Second); err != nil {
		t.Fatalf("Expire on missing key should be a no-op, got %v", err)
	}

	if err := m.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := m.Expire(ctx, "k", 20*time.Millisecond); err != nil {
		t.Fatalf("Expire() error: %v", err)
	}

	if ok, _ := m.Exists(ctx, "k"); !ok {
		t.Fatal("key should exist before expiry")
	}

	time.Sleep(40 * time.Millisecond)

	if ok, _ := m.Exists(ctx, "k"); ok {
		t.Error("key should be gone after expiry")
	}
	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound after expiry, got %v", err)
	}

	if err := m.Set(ctx, "k2", []byte("v")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := m.Expire(ctx, "k2", 0); err != nil {
		t.Fatalf("Expire(0) error: %v", err)
	}
	if ok, _ := m.Exists(ctx, "k2"); ok {
		t.Error("Expire(0) should delete the key")
	}
}

func TestMemory_SetClearsExpiry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewMemory(ctx, 0)
	_ = m.Set(ctx, "k", []byte("v1"))
	_ = m.Expire(ctx, "k", 20*time.Millisecond)
	_ = m.Set(ctx, "k", []byte("v2"))

	time.Sleep(40 * time.Millisecond)

	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("overwritten key should not inherit the old expiry: %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("got %q", got)
	}
}

func TestMemory_Bounded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewMemory(ctx, 2)
	for _, k := range []string{"a", "b", "c", "d"} {
		if err := m.Set(ctx, k, []byte(k)); err != nil {
			t.Fatalf("Set(%s) error: %v", k, err)
		}
	}

	if m.Len() > 2 {
		t.Errorf("expected at most 2 entries, got %d", m.Len())
	}
	if ok, _ := m.Exists(ctx, "d"); !ok {
		t.Error("most recent key must be kept")
	}
}

func TestMemory_CancelledContext(t *testing.T) {
	m := NewMemory(context.Background(), 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Exists(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if err := m.Set(ctx, "k", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
