package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/vibast-solutions/ms-go-tasks/app/repository"
	"github.com/vibast-solutions/ms-go-tasks/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Administer user accounts",
}

var userVerifyCmd = &cobra.Command{
	Use:   "verify <username>",
	Short: "Mark a user's email as verified",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		repo, db, err := newUserRepositoryForAdminCommands()
		if err != nil {
			return err
		}
		defer db.Close()

		user, err := repo.FindByUsername(context.Background(), args[0])
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("user %q not found", args[0])
		}

		if user.IsVerified {
			fmt.Printf("user %q is already verified\n", user.Username)
			return nil
		}

		user.IsVerified = true
		if err := repo.Update(context.Background(), user); err != nil {
			return err
		}

		fmt.Printf("user %q verified\n", user.Username)
		return nil
	},
}

var userTwoFactorCmd = &cobra.Command{
	Use:   "twofactor <username> <true|false>",
	Short: "Enable or disable two-factor login for a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		enabled, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("invalid value %q: expected true or false", args[1])
		}

		repo, db, err := newUserRepositoryForAdminCommands()
		if err != nil {
			return err
		}
		defer db.Close()

		user, err := repo.FindByUsername(context.Background(), args[0])
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("user %q not found", args[0])
		}

		user.IsTwoFactorEnabled = enabled
		if err := repo.Update(context.Background(), user); err != nil {
			return err
		}

		fmt.Printf("user %q two-factor login set to %v\n", user.Username, enabled)
		return nil
	},
}

func init() {
	userCmd.AddCommand(userVerifyCmd)
	userCmd.AddCommand(userTwoFactorCmd)
	rootCmd.AddCommand(userCmd)
}

func newUserRepositoryForAdminCommands() (*repository.UserRepository, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, err
	}

	return repository.NewUserRepository(db), db, nil
}
