package cli

import (
	"fmt"
	"os"

	intdb "swiftlink/internal/db"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	Long:  `Create every table and index for the configured driver. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, conn, dialect, err := open(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := intdb.Migrate(ctx, conn, dialect); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "schema ready (%s)\n", dialect)
		return nil
	},
}
