// Command storefrontctl обслуживает хранилище витрины без запуска сервера:
// переносит устаревшие заказы, выводит и подтверждает заказы, сбрасывает пароль
// администратора.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/levenuts/storefront/internal/admin"
	"github.com/levenuts/storefront/internal/config"
	"github.com/levenuts/storefront/internal/model"
	"github.com/levenuts/storefront/internal/order"
	"github.com/levenuts/storefront/internal/storage"
)

var errNoDatabase = errors.New("database URI is required (--database-uri or DATABASE_URI)")

type app struct {
	databaseURI string
	timeout     time.Duration
}

func (a *app) open(ctx context.Context) (storage.Backend, error) {
	if a.databaseURI == "" {
		return nil, errNoDatabase
	}
	return storage.Open(ctx, a.databaseURI)
}

// withStore открывает хранилище на время выполнения команды.
func (a *app) withStore(cmd *cobra.Command, fn func(ctx context.Context, s storage.Store) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
	defer cancel()

	s, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(ctx, s)
}

func newRootCmd() *cobra.Command {
	a := &app{}
	if cfg, err := config.ParseEnv(); err == nil {
		a.databaseURI = cfg.DatabaseURI
	}

	root := &cobra.Command{
		Use:           "storefrontctl",
		Short:         "Maintenance commands for the Levenuts storefront store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&a.databaseURI, "database-uri", "d", a.databaseURI, "store URI (postgres:// or sqlite file path)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 30*time.Second, "operation timeout")

	root.AddCommand(newMigrateCmd(a), newOrdersCmd(a), newAdminCmd(a))
	return root
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and move legacy orders under the canonical key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(ctx context.Context, s storage.Store) error {
				n, err := storage.MigrateLegacyOrders(ctx, s)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migrated %d legacy orders\n", n)
				return nil
			})
		},
	}
}

func newOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect and confirm orders",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(ctx context.Context, s storage.Store) error {
				orders, err := order.NewRepository(s).List(ctx)
				if err != nil {
					return err
				}
				return printOrders(cmd.OutOrStdout(), orders)
			})
		},
	}

	markPaid := &cobra.Command{
		Use:   "mark-paid <id>",
		Short: "Mark a pending order as paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, s storage.Store) error {
				o, err := order.NewRepository(s).MarkPaid(ctx, args[0])
				if err != nil {
					return fmt.Errorf("mark order %s paid: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "order %s is %s\n", o.ID, o.Status)
				return nil
			})
		},
	}

	cmd.AddCommand(list, markPaid)
	return cmd
}

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage the admin password",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Remove the admin password so the next visit asks to create one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(ctx context.Context, s storage.Store) error {
				if err := admin.NewGate(s, order.NewRepository(s), nil).Reset(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "admin password removed")
				return nil
			})
		},
	})

	return cmd
}

func printOrders(w io.Writer, orders []model.Order) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tBUYER\tMETHOD\tSTATUS\tTOTAL")
	for _, o := range orders {
		created := "-"
		if !o.CreatedAt.IsZero() {
			created = o.CreatedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.2f\n",
			o.ID, created, o.Buyer.Name, o.PaymentMethod, o.Status, o.Total)
	}
	return tw.Flush()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
