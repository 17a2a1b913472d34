package attributes

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	attrs := map[string]any{"history": []any{map[string]any{"role": "user", "content": "hi"}}}
	if err := store.Save(ctx, "user-1", attrs); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, err := store.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, ok := got["history"]; !ok {
		t.Errorf("Expected history attribute, got %+v", got)
	}
}

func TestMemoryStoreLoadMissing(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Load(context.Background(), "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, "user-1", map[string]any{"a": "b"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := store.Delete(ctx, "user-1"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := store.Load(ctx, "user-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "user-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for second delete, got %v", err)
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := store.Save(ctx, key, map[string]any{"k": key}); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	records, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Key != "c" || records[1].Key != "b" {
		t.Errorf("Expected newest first [c b], got [%s %s]", records[0].Key, records[1].Key)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, "user-1", map[string]any{"count": 1}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	got, err := store.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	got["count"] = 99

	again, err := store.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if again["count"] != 1 {
		t.Errorf("Expected stored value unchanged, got %v", again["count"])
	}
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		wantNil bool
		wantErr bool
	}{
		{name: "none disables persistence", driver: "none", wantNil: true},
		{name: "empty disables persistence", driver: "", wantNil: true},
		{name: "memory", driver: "memory"},
		{name: "redis without client fails", driver: "redis", wantErr: true},
		{name: "postgres without pool fails", driver: "postgres", wantErr: true},
		{name: "unknown driver fails", driver: "dynamodb", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(tt.driver, nil, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if tt.wantNil && store != nil {
				t.Errorf("Expected nil store for driver %q", tt.driver)
			}
			if !tt.wantNil && store == nil {
				t.Errorf("Expected store for driver %q, got nil", tt.driver)
			}
		})
	}
}
