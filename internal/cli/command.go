// Package cli wires configuration, storage and the console shell into cobra commands.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rogerio-castellano/inventory-cli/internal/shell"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	configPath string
}

// NewRootCommand builds the inventory command. Running it without a
// subcommand loads the CSV and opens the interactive menu.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "inventory",
		Short:         "Store inventory manager",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(ctx context.Context, a *app) error {
				if _, err := a.service.LoadFile(ctx, a.cfg.CSVPath); err != nil {
					return err
				}
				sh := shell.New(a.service, in, out, shell.Config{
					Menu:        shell.DefaultMenu(),
					BackupPath:  a.cfg.BackupPath,
					ClearScreen: a.cfg.Shell.ClearScreen,
				}, a.log)
				return sh.Run(ctx)
			})
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (default ./inventory.yaml if present)")

	cmd.AddCommand(
		newLoadCommand(opts, out),
		newBackupCommand(opts, out),
	)
	return cmd
}

func newLoadCommand(opts *options, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Reconcile the inventory CSV into the store and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(ctx context.Context, a *app) error {
				report, err := a.service.LoadFile(ctx, a.cfg.CSVPath)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %d rows, %d inserted, %d updated, %d kept, %d with defaults, %d without name\n",
					a.cfg.CSVPath, report.Rows, report.Inserted, report.Updated, report.Skipped, report.Coerced, report.Unnamed)
				return nil
			})
		},
	}
}

func newBackupCommand(opts *options, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write every stored product to the backup CSV and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(ctx context.Context, a *app) error {
				n, err := a.service.BackupFile(ctx, a.cfg.BackupPath)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "backed up %d products to %s\n", n, a.cfg.BackupPath)
				return nil
			})
		},
	}
}

func withApp(ctx context.Context, opts *options, fn func(context.Context, *app) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, opts.configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			a.log.Warn("closing resources", zap.Error(err))
		}
	}()

	if err := fn(ctx, a); err != nil {
		a.log.Error("inventory stopped", zap.Error(err))
		return err
	}
	return nil
}
