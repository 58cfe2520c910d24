package inventory

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rogerio-castellano/inventory-cli/internal/coerce"
	"github.com/rogerio-castellano/inventory-cli/internal/models"
	"go.uber.org/zap"
)

var backupHeader = []string{ColumnID, ColumnName, ColumnQuantity, ColumnPrice, ColumnDate}

// Backup writes every stored product to w as CSV and returns the number of data rows.
// Prices and dates use the input format so a backup can be loaded again.
func (s *Service) Backup(ctx context.Context, w io.Writer) (int, error) {
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("read products: %w", err)
	}
	return writeBackup(w, products)
}

// BackupFile truncates path and writes a full snapshot into it.
// The store is read first so a failed read leaves the previous file in place.
func (s *Service) BackupFile(ctx context.Context, path string) (int, error) {
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("read products: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create backup file: %w", err)
	}
	n, err := writeBackup(f, products)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("write backup %s: %w", path, err)
	}
	s.log.Info("backup written", zap.String("path", path), zap.Int("products", n))
	return n, nil
}

func writeBackup(w io.Writer, products []models.Product) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(backupHeader); err != nil {
		return 0, err
	}
	for _, p := range products {
		row := []string{
			strconv.Itoa(p.ID),
			p.Name,
			strconv.Itoa(p.Quantity),
			coerce.FormatCents(p.Price),
			coerce.FormatDate(p.UpdatedAt),
		}
		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}
	return len(products), nil
}
