package main

import (
	"errors"
	"os"

	identityapp "github.com/ramenshop/backend/internal/application/identity"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/ramenshop/backend/internal/infrastructure/auth"
	"github.com/ramenshop/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const adminPasswordEnv = "RAMEN_ADMIN_PASSWORD"

func newCreateAdminCommand(a *app) *cobra.Command {
	var input identityapp.CreateStaffInput

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Long:  "Create an admin account. The password is read from --password or " + adminPasswordEnv + ".",
		Example: `  RAMEN_ADMIN_PASSWORD=... ramenctl create-admin --email owner@ramenshop.example.com --name "Shop Owner"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input.Password == "" {
				input.Password = os.Getenv(adminPasswordEnv)
			}
			if len(input.Password) < 8 {
				return errors.New("password must be at least 8 characters; pass --password or set " + adminPasswordEnv)
			}
			input.Role = shared.RoleAdmin

			_, db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			users := identityapp.NewUserService(
				persistence.NewGormUserRepository(db.DB),
				persistence.NewGormEmployeeRepository(db.DB),
				auth.NewInMemoryTokenBlacklist(),
				nil,
				a.log,
			)
			ctx := shared.WithActor(cmd.Context(), shared.ServiceActor())
			user, err := users.CreateStaff(ctx, input)
			if err != nil {
				return err
			}
			a.log.Info("Admin created", zap.String("id", user.ID.String()), zap.String("email", user.Email))
			return nil
		},
	}
	cmd.Flags().StringVar(&input.Email, "email", "", "Login email")
	cmd.Flags().StringVar(&input.FullName, "name", "", "Full name")
	cmd.Flags().StringVar(&input.Password, "password", "", "Password (prefer "+adminPasswordEnv+")")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
