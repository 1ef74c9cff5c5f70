package cli

import (
	"fmt"
	"os"

	"swiftlink/internal/repositories"
	"swiftlink/internal/services"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().String("email", "", "Account email")
	seedCmd.Flags().String("password", "", "Account password")
	seedCmd.Flags().String("name", "SwiftLink Agent", "Full name")
	seedCmd.Flags().String("phone", "", "Phone number")
	seedCmd.Flags().String("national-id", "", "National ID number")
	seedCmd.Flags().String("role", "agent", "Role: agent or admin")
	_ = seedCmd.MarkFlagRequired("email")
	_ = seedCmd.MarkFlagRequired("password")
	_ = seedCmd.MarkFlagRequired("phone")
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a verified agent or admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, conn, _, err := open(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		flag := func(name string) string {
			v, _ := cmd.Flags().GetString(name)
			return v
		}
		svc := services.AuthService{Users: repositories.UserRepository{DB: conn}}
		p, err := svc.SeedAccount(ctx, services.RegisterInput{
			FullName:   flag("name"),
			Email:      flag("email"),
			Password:   flag("password"),
			Phone:      flag("phone"),
			NationalID: flag("national-id"),
			Role:       flag("role"),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "created %s account %s (id %d)\n", p.Role, p.Email, p.ID)
		return nil
	},
}
