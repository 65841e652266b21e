package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"pilates-studio/internal/repositories"
	"pilates-studio/internal/server"

	"github.com/spf13/cobra"
)

func ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect recorded orders",
	}

	cmd.AddCommand(ordersRecentCmd())

	return cmd
}

func ordersRecentCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the most recently recorded orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDatabaseConfig()
			if err != nil {
				return err
			}

			db, err := server.OpenDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			records, err := repositories.NewOrderRepository(db.DB).Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			return printOrders(cmd.OutOrStdout(), records)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of orders")

	return cmd
}

func printOrders(out io.Writer, records []*repositories.OrderRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "No orders recorded yet")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tSTATUS\tEMAIL\tTOTAL")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rec.StripeSessionID, rec.Status, rec.CustomerEmail, rec.TotalAmount.StringFixed(2))
	}
	return tw.Flush()
}
