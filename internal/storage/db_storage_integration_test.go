//go:build integration

package storage_test

import (
	"context"
	"testing"

	"github.com/ferdiebergado/hbnb/internal/platform/db"
	"github.com/ferdiebergado/hbnb/internal/storage"
)

func newPostgresStorage(t *testing.T) storage.Engine {
	t.Helper()

	ctx := context.Background()
	conn, _ := db.SetupPostgres(t)
	s := storage.NewDBStorage(conn, true)
	if err := s.Reload(ctx); err != nil {
		t.Fatalf("s.Reload() = %v", err)
	}

	t.Cleanup(func() {
		if err := s.DropSchema(ctx); err != nil {
			t.Logf("failed to drop schema: %v", err)
		}
		if err := s.Close(); err != nil {
			t.Logf("failed to close storage: %v", err)
		}
	})
	return s
}

// The subtests share one database, so they run one after another.
func TestIntegrationDBStorage(t *testing.T) {
	engineContract(t, newPostgresStorage)
}

func TestIntegrationDBStorage_AllReturnsMap(t *testing.T) {
	ctx := context.Background()
	s := newPostgresStorage(t)
	sc := newScenario()
	for _, e := range sc.entities() {
		s.New(e)
	}
	if err := s.Save(ctx); err != nil {
		t.Fatalf("s.Save() = %v", err)
	}

	objects, err := s.All(ctx, "")
	if err != nil {
		t.Fatalf("s.All() = %v", err)
	}
	assertSameEntities(t, objects, sc.entities())
}
