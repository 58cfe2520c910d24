package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rogerio-castellano/inventory-cli/internal/inventory"
	"github.com/rogerio-castellano/inventory-cli/internal/models"
	"github.com/rogerio-castellano/inventory-cli/internal/repo"
)

func today() time.Time {
	return time.Date(2024, time.June, 1, 9, 30, 0, 0, time.UTC)
}

type harness struct {
	products *repo.InMemoryProductRepository
	svc      *inventory.Service
	out      *bytes.Buffer
	backup   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	products := repo.NewInMemoryProductRepository()
	return &harness{
		products: products,
		svc:      inventory.NewService(products, nil, inventory.WithClock(today)),
		out:      &bytes.Buffer{},
		backup:   filepath.Join(t.TempDir(), "backup.csv"),
	}
}

func (h *harness) run(t *testing.T, input string) error {
	t.Helper()
	sh := New(h.svc, strings.NewReader(input), h.out, Config{BackupPath: h.backup, ClearScreen: true}, nil)
	return sh.Run(context.Background())
}

func (h *harness) seed(t *testing.T, p models.Product) models.Product {
	t.Helper()
	stored, _, err := h.products.Insert(context.Background(), p)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return stored
}

func TestRun_MenuAndQuit(t *testing.T) {
	h := newHarness(t)
	if err := h.run(t, " Q \n"); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := h.out.String()
	for _, want := range []string{"Enter 'q' to quit", "v) View detail of a single product", "a) Add a new product", "b) Back up", "Goodbye"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, clearSequence) {
		t.Error("screen must not be cleared when output is not a terminal")
	}
}

func TestRun_UnknownKeyStaysInMenu(t *testing.T) {
	h := newHarness(t)
	if err := h.run(t, "x\nq\n"); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := h.out.String()
	if !strings.Contains(out, `"x" is not a valid action`) {
		t.Fatalf("expected unknown action error:\n%s", out)
	}
	if strings.Count(out, "Enter 'q' to quit") != 2 {
		t.Fatalf("expected the menu to be shown twice:\n%s", out)
	}
}

func TestRun_EOFTerminates(t *testing.T) {
	h := newHarness(t)
	if err := h.run(t, ""); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(h.out.String(), "Goodbye") {
		t.Fatal("expected farewell banner on end of input")
	}
}

func TestViewDetails(t *testing.T) {
	h := newHarness(t)
	h.seed(t, models.Product{Name: "widget", Quantity: 10, Price: 325, UpdatedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)})

	if err := h.run(t, "v\nabc\n99\n1\n\nq\n"); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := h.out.String()

	if !strings.Contains(out, `invalid entry "abc"`) {
		t.Errorf("expected invalid entry error:\n%s", out)
	}
	if !strings.Contains(out, "no product found with id 99") {
		t.Errorf("expected not found error:\n%s", out)
	}
	if strings.Count(out, "Enter the product id: ") != 3 {
		t.Errorf("expected three id prompts:\n%s", out)
	}
	for _, want := range []string{"widget", "10", "$3.25", "01/15/2024", "Press Enter"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAddProduct(t *testing.T) {
	t.Run("creates a product stamped today", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run(t, "a\nwidget\n10\n$3.25\n\nq\n"); err != nil {
			t.Fatalf("run: %v", err)
		}
		got, err := h.products.GetByName(context.Background(), "widget")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		want := models.Product{ID: got.ID, Name: "widget", Quantity: 10, Price: 325, UpdatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
		if got != want {
			t.Fatalf("got %+v, want %+v", got, want)
		}
		if !strings.Contains(h.out.String(), `Product "widget" added`) {
			t.Fatalf("expected confirmation:\n%s", h.out.String())
		}
	})

	t.Run("rejects a negative quantity and re-prompts", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run(t, "a\nwidget\n-5\n4\n2.50\n\nq\n"); err != nil {
			t.Fatalf("run: %v", err)
		}
		out := h.out.String()
		if !strings.Contains(out, "the quantity cannot be negative") {
			t.Fatalf("expected negative quantity error:\n%s", out)
		}
		if strings.Count(out, "Quantity: ") != 2 {
			t.Fatalf("expected quantity to be asked twice:\n%s", out)
		}
		got, _ := h.products.GetByName(context.Background(), "widget")
		if got.Quantity != 4 || got.Price != 250 {
			t.Fatalf("unexpected product %+v", got)
		}
	})

	t.Run("negative quantity alone never creates a record", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run(t, "a\nwidget\n-5\n"); err != nil {
			t.Fatalf("run: %v", err)
		}
		all, _ := h.products.GetAll(context.Background())
		if len(all) != 0 {
			t.Fatalf("expected no products, got %+v", all)
		}
	})

	t.Run("validates name and price", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run(t, "a\n   \nwidget\n1\nfree\n-$1\n$-1\n$1.00\n\nq\n"); err != nil {
			t.Fatalf("run: %v", err)
		}
		out := h.out.String()
		for _, want := range []string{"the product name cannot be empty", `"free" is not a valid dollar amount`, "the price cannot be negative"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
		got, _ := h.products.GetByName(context.Background(), "widget")
		if got.Price != 100 {
			t.Fatalf("unexpected product %+v", got)
		}
	})

	t.Run("existing name is reconciled", func(t *testing.T) {
		h := newHarness(t)
		h.seed(t, models.Product{Name: "widget", Quantity: 1, Price: 1, UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
		if err := h.run(t, "a\nwidget\n8\n$2\n\nq\n"); err != nil {
			t.Fatalf("run: %v", err)
		}
		all, _ := h.products.GetAll(context.Background())
		if len(all) != 1 || all[0].Quantity != 8 || all[0].Price != 200 {
			t.Fatalf("unexpected products %+v", all)
		}
		if !strings.Contains(h.out.String(), "already existed and was updated") {
			t.Fatalf("expected update notice:\n%s", h.out.String())
		}
	})
}

func TestBackupAction(t *testing.T) {
	h := newHarness(t)
	h.seed(t, models.Product{Name: "widget", Quantity: 10, Price: 325, UpdatedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)})

	if err := h.run(t, "b\n\nq\n"); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(h.backup)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	want := "product_id,product_name,product_quantity,product_price,date_updated\n1,widget,10,$3.25,01/15/2024\n"
	if string(data) != want {
		t.Fatalf("backup = %q, want %q", data, want)
	}
	if !strings.Contains(h.out.String(), "Backed up 1 products") {
		t.Fatalf("expected confirmation:\n%s", h.out.String())
	}
}

type failingInventory struct {
	*inventory.Service
}

func (failingInventory) Product(context.Context, int) (models.Product, error) {
	return models.Product{}, errors.New("database is gone")
}

func TestRun_StoreFailureIsReturned(t *testing.T) {
	h := newHarness(t)
	sh := New(failingInventory{Service: h.svc}, strings.NewReader("v\n1\n"), h.out, Config{BackupPath: h.backup}, nil)
	err := sh.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "database is gone") {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestMenuLookup(t *testing.T) {
	m := DefaultMenu()
	cases := map[string]Action{"v": ActionView, "a": ActionAdd, "b": ActionBackup, "q": ActionQuit}
	for key, want := range cases {
		got, ok := m.Lookup(key)
		if !ok || got != want {
			t.Errorf("Lookup(%q) = %v, %v", key, got, ok)
		}
	}
	if _, ok := m.Lookup("z"); ok {
		t.Error("unexpected match for z")
	}
}
