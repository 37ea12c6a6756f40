package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/deweycatalog/catalog/shared/config"
	"github.com/sirupsen/logrus"
)

type testView struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

func TestNilViewCacheIsAlwaysMissing(t *testing.T) {
	var cache *ViewCache[testView]
	ctx := context.Background()

	cache.Set(ctx, "k", &testView{Code: "629"})
	if _, ok := cache.Get(ctx, "k"); ok {
		t.Fatal("expected miss from nil cache")
	}
	if n, err := cache.DeletePrefix(ctx, "k"); n != 0 || err != nil {
		t.Fatalf("expected no-op, got %d %v", n, err)
	}
}

func TestViewCacheIntegration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping redis integration test")
	}
	client, err := NewClient(context.Background(), config.RedisConfig{Addr: addr}, "cache-test")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	cache := NewViewCache[testView](client.Client, time.Minute, logrus.NewEntry(logrus.New()))
	prefix := "test:view:" + time.Now().Format("150405.000") + ":"

	cache.Set(ctx, prefix+"a", &testView{Code: "629", Title: "Other branches of engineering"})
	cache.Set(ctx, prefix+"b", &testView{Code: "630"})

	got, ok := cache.Get(ctx, prefix+"a")
	if !ok || got.Code != "629" {
		t.Fatalf("expected cached view, got %+v %v", got, ok)
	}

	n, err := cache.DeletePrefix(ctx, prefix)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 deletions, got %d %v", n, err)
	}
	if _, ok := cache.Get(ctx, prefix+"b"); ok {
		t.Fatal("expected miss after prefix delete")
	}
}
