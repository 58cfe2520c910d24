package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/inventory-cli/internal/coerce"
	"github.com/rogerio-castellano/inventory-cli/internal/inventory"
	"github.com/rogerio-castellano/inventory-cli/internal/models"
	"github.com/rogerio-castellano/inventory-cli/internal/repo"
)

// viewDetails asks for a product id until one matches, then shows that product.
func (s *Shell) viewDetails(ctx context.Context) error {
	for {
		raw, err := s.prompt("Enter the product id: ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		id, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			s.errorLine(fmt.Sprintf("invalid entry %q, the product id must be a whole number.", strings.TrimSpace(raw)))
			continue
		}

		p, err := s.inv.Product(ctx, id)
		if errors.Is(err, repo.ErrProductNotFound) {
			s.errorLine(fmt.Sprintf("no product found with id %d.", id))
			continue
		}
		if err != nil {
			return err
		}

		s.renderProduct(p)
		return s.pause()
	}
}

func (s *Shell) renderProduct(p models.Product) {
	row := func(label, value string) {
		fmt.Fprintf(s.out, "%s %s\n", s.styles.label.Render(fmt.Sprintf("%-10s", label+":")), value)
	}
	fmt.Fprintln(s.out)
	row("ID", strconv.Itoa(p.ID))
	row("Name", p.Name)
	row("Quantity", strconv.Itoa(p.Quantity))
	row("Price", coerce.FormatCents(p.Price))
	row("Updated", coerce.FormatDate(p.UpdatedAt))
}

// addProduct collects name, quantity and price, each re-prompted until valid,
// and reconciles the result stamped with today's date.
func (s *Shell) addProduct(ctx context.Context) error {
	name, err := askUntilValid(s, "Product name: ", func(raw string) (string, error) {
		name := strings.TrimSpace(raw)
		if name == "" {
			return "", errors.New("the product name cannot be empty")
		}
		return name, nil
	})
	if err != nil {
		return ignoreEOF(err)
	}

	quantity, err := askUntilValid(s, "Quantity: ", func(raw string) (int, error) {
		q, err := coerce.ParseQuantity(raw)
		switch {
		case errors.Is(err, coerce.ErrNegative):
			return 0, errors.New("the quantity cannot be negative")
		case err != nil:
			return 0, fmt.Errorf("%q is not a whole number", strings.TrimSpace(raw))
		}
		return q, nil
	})
	if err != nil {
		return ignoreEOF(err)
	}

	price, err := askUntilValid(s, "Price (e.g. $3.25): ", func(raw string) (int64, error) {
		cents, err := coerce.ParseDollars(raw)
		switch {
		case errors.Is(err, coerce.ErrNegative):
			return 0, errors.New("the price cannot be negative")
		case err != nil:
			return 0, fmt.Errorf("%q is not a valid dollar amount", strings.TrimSpace(raw))
		}
		return cents, nil
	})
	if err != nil {
		return ignoreEOF(err)
	}

	p := models.Product{Name: name, Quantity: quantity, Price: price, UpdatedAt: s.inv.Today()}
	outcome, err := s.inv.Reconcile(ctx, p)
	if err != nil {
		return err
	}
	switch outcome {
	case inventory.OutcomeInserted:
		s.successLine(fmt.Sprintf("\nProduct %q added.", name))
	case inventory.OutcomeUpdated:
		s.successLine(fmt.Sprintf("\nProduct %q already existed and was updated.", name))
	case inventory.OutcomeSkipped:
		s.errorLine(fmt.Sprintf("product %q has a more recent record, nothing was changed.", name))
	}
	return s.pause()
}

func (s *Shell) backup(ctx context.Context) error {
	n, err := s.inv.BackupFile(ctx, s.cfg.BackupPath)
	if err != nil {
		return err
	}
	s.successLine(fmt.Sprintf("Backed up %d products to %s.", n, s.cfg.BackupPath))
	return s.pause()
}

// askUntilValid keeps prompting until parse accepts the input. It only fails when input ends.
func askUntilValid[T any](s *Shell, label string, parse func(string) (T, error)) (T, error) {
	for {
		raw, err := s.prompt(label)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(raw)
		if err != nil {
			s.errorLine(err.Error())
			continue
		}
		return v, nil
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
