// Package cli holds the swiftlink command tree.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"swiftlink/internal/config"
	intdb "swiftlink/internal/db"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "swiftlink",
	Short: "SwiftLink air cargo backend",
	Long: `SwiftLink matches senders with carriers that have spare luggage
capacity on scheduled flights, tracks parcels and pays carriers out on
delivery.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			return os.Setenv("CONFIG_FILE", path)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a TOML config file (overrides CONFIG_FILE)")
}

// Execute runs the command tree. It defaults to serve when no subcommand
// is given.
func Execute() error {
	if len(os.Args) == 1 {
		rootCmd.SetArgs([]string{"serve"})
	}
	return rootCmd.ExecuteContext(context.Background())
}

// open loads config and connects to the database.
func open(ctx context.Context) (config.Env, *sql.DB, intdb.Dialect, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return env, nil, "", fmt.Errorf("load config: %w", err)
	}
	conn, dialect, err := config.ConnectDB(ctx, env)
	if err != nil {
		return env, nil, "", err
	}
	return env, conn, dialect, nil
}
