package store

import (
	"context"
	"os"
	"testing"
)

func testKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	if _, found, err := kv.Get(ctx, "missing"); err != nil || found {
		t.Fatalf("get missing: found=%v err=%v", found, err)
	}

	if err := kv.Set(ctx, "a", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "a", "2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, found, err := kv.Get(ctx, "a")
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if v != "2" {
		t.Errorf("value = %q, want %q", v, "2")
	}

	if err := kv.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := kv.Get(ctx, "a"); found {
		t.Error("key still present after delete")
	}
	if err := kv.Delete(ctx, "a"); err != nil {
		t.Errorf("delete is not idempotent: %v", err)
	}
}

func TestSQLiteKV(t *testing.T) {
	testKV(t, openTestStore(t).KV())
}

func TestMemoryKV(t *testing.T) {
	testKV(t, NewMemoryKV())
}

func TestDialRedis_BadURL(t *testing.T) {
	if _, err := DialRedis(context.Background(), "not-a-url"); err == nil {
		t.Fatal("expected error for invalid url")
	}
}

func TestRedisKV(t *testing.T) {
	url := os.Getenv("ARCHETYPE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("ARCHETYPE_TEST_REDIS_URL not set")
	}
	client, err := DialRedis(context.Background(), url)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()
	testKV(t, NewRedisKV(client, 0))
}
