//go:build integration

package layout

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// Integration tests run against live services:
//
//	ROOMEDITOR_REDIS_ADDR=localhost:6379 \
//	ROOMEDITOR_MONGO_URI=mongodb://localhost:27017 \
//	go test -tags integration ./pkg/layout/

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("ROOMEDITOR_REDIS_ADDR")
	if addr == "" {
		t.Skip("ROOMEDITOR_REDIS_ADDR not set")
	}
	runStoreContract(t, func(t *testing.T) Store {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s, err := NewRedisStore(ctx, RedisConfig{Addr: addr, Prefix: "roomeditor-test:" + uuid.NewString() + ":"})
		if err != nil {
			t.Fatalf("NewRedisStore: %v", err)
		}
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("ROOMEDITOR_MONGO_URI")
	if uri == "" {
		t.Skip("ROOMEDITOR_MONGO_URI not set")
	}
	runStoreContract(t, func(t *testing.T) Store {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s, err := NewMongoStore(ctx, MongoConfig{
			URI:        uri,
			Database:   "roomeditor_test",
			Collection: "layouts_" + uuid.NewString()[:8],
		})
		if err != nil {
			t.Fatalf("NewMongoStore: %v", err)
		}
		t.Cleanup(func() {
			_ = s.coll.Drop(context.Background())
			s.Close()
		})
		return s
	})
}
