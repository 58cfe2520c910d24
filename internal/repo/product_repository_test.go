package repo_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rogerio-castellano/inventory-cli/internal/db"
	"github.com/rogerio-castellano/inventory-cli/internal/models"
	"github.com/rogerio-castellano/inventory-cli/internal/repo"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newSQLiteRepo(t *testing.T) *repo.SQLiteProductRepository {
	t.Helper()
	ctx := context.Background()
	database, err := db.ConnectSQLite(ctx, db.MemoryDSN)
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	if err := db.EnsureSchema(ctx, database, db.DriverSQLite); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return repo.NewSQLiteProductRepository(database)
}

func newPostgresRepo(t *testing.T) *repo.PostgresProductRepository {
	t.Helper()
	dbUrl := os.Getenv("DATABASE_URL")
	if dbUrl == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	database, err := db.ConnectPostgres(ctx, dbUrl)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	if err := db.EnsureSchema(ctx, database, db.DriverPostgres); err != nil {
		t.Fatalf("schema: %v", err)
	}
	truncate := func(database *sql.DB) {
		_, _ = database.Exec(`TRUNCATE products RESTART IDENTITY`)
	}
	truncate(database)
	t.Cleanup(func() {
		truncate(database)
		_ = database.Close()
	})
	return repo.NewPostgresProductRepository(database)
}

func TestProductRepositories(t *testing.T) {
	backends := map[string]func(t *testing.T) repo.ProductRepository{
		"memory":   func(t *testing.T) repo.ProductRepository { return repo.NewInMemoryProductRepository() },
		"sqlite":   func(t *testing.T) repo.ProductRepository { return newSQLiteRepo(t) },
		"postgres": func(t *testing.T) repo.ProductRepository { return newPostgresRepo(t) },
	}

	for name, newRepo := range backends {
		t.Run(name, func(t *testing.T) {
			testProductRepository(t, newRepo(t))
		})
	}
}

func testProductRepository(t *testing.T, r repo.ProductRepository) {
	ctx := context.Background()

	widget, inserted, err := r.Insert(ctx, models.Product{Name: "widget", Quantity: 10, Price: 325, UpdatedAt: date(2024, 1, 15)})
	if err != nil || !inserted {
		t.Fatalf("insert widget: inserted=%v err=%v", inserted, err)
	}
	if widget.ID == 0 {
		t.Fatal("expected assigned id")
	}

	gadget, inserted, err := r.Insert(ctx, models.Product{Name: "gadget", Quantity: 1, Price: 99, UpdatedAt: date(2024, 2, 1)})
	if err != nil || !inserted {
		t.Fatalf("insert gadget: inserted=%v err=%v", inserted, err)
	}

	t.Run("duplicate name is reported, not failed", func(t *testing.T) {
		_, inserted, err := r.Insert(ctx, models.Product{Name: "widget", Quantity: 99, Price: 1, UpdatedAt: date(2025, 1, 1)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if inserted {
			t.Fatal("expected conflict on duplicate name")
		}
		got, err := r.GetByName(ctx, "widget")
		if err != nil {
			t.Fatalf("get by name: %v", err)
		}
		if got.Quantity != 10 || got.Price != 325 {
			t.Fatalf("stored record changed on conflict: %+v", got)
		}
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := r.GetByID(ctx, widget.ID)
		if err != nil {
			t.Fatalf("get by id: %v", err)
		}
		want := models.Product{ID: widget.ID, Name: "widget", Quantity: 10, Price: 325, UpdatedAt: date(2024, 1, 15)}
		if got != want {
			t.Fatalf("got %+v, want %+v", got, want)
		}
		if _, err := r.GetByID(ctx, 9999); !errors.Is(err, repo.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})

	t.Run("update", func(t *testing.T) {
		updated, err := r.Update(ctx, models.Product{ID: gadget.ID, Name: "ignored", Quantity: 7, Price: 150, UpdatedAt: date(2024, 3, 1)})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Name != "gadget" || updated.Quantity != 7 || updated.Price != 150 || !updated.UpdatedAt.Equal(date(2024, 3, 1)) {
			t.Fatalf("unexpected updated product: %+v", updated)
		}
		if _, err := r.Update(ctx, models.Product{ID: 9999}); !errors.Is(err, repo.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})

	t.Run("get all in id order", func(t *testing.T) {
		all, err := r.GetAll(ctx)
		if err != nil {
			t.Fatalf("get all: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected 2 products, got %d", len(all))
		}
		if all[0].Name != "widget" || all[1].Name != "gadget" {
			t.Fatalf("unexpected order: %+v", all)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		if _, err := r.GetByName(ctx, "nope"); !errors.Is(err, repo.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})
}
