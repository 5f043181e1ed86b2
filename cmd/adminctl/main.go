// adminctl is the out-of-band provisioning tool for admin accounts. It is
// the only path that can create the first account: the web setup endpoint
// is permanently disabled, so bootstrap happens here, locally, against the
// database directly.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/halcyonlabs/portfolio-api/internal/config"
	"github.com/halcyonlabs/portfolio-api/internal/database"
	"github.com/halcyonlabs/portfolio-api/internal/models"
	"github.com/halcyonlabs/portfolio-api/internal/repository"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adminctl",
		Short: "Manage portfolio admin accounts",
		Long:  "Create and list admin accounts for the portfolio back office, directly against the database.",
	}

	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

// ---------- create ----------

func newCreateCmd() *cobra.Command {
	var (
		username string
		email    string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new admin account",
		Example: `  adminctl create --username ana --email ana@example.com
  adminctl create --username ana --email ana@example.com --role super_admin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(username, email, role)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&role, "role", "admin", "Role: admin or super_admin")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")

	return cmd
}

func runCreate(username, email, role string) error {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if l := len(username); l < 3 || l > 50 {
		return fmt.Errorf("username must be between 3 and 50 characters")
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %q", email)
	}
	if !models.Role(role).Valid() {
		return fmt.Errorf("invalid role %q: must be admin or super_admin", role)
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer database.Shutdown()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.AdminUser{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.Role(role),
		IsActive:     true,
	}
	if err := repo.Create(user); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	fmt.Printf("Created admin account %q (%s) with role %s\n", username, email, role)
	return nil
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()

	fmt.Print("Confirm password: ")
	confirmBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}
	fmt.Println()

	if string(pwBytes) != string(confirmBytes) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(pwBytes), nil
}

// ---------- list ----------

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all admin accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}
	return cmd
}

func runList() error {
	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer database.Shutdown()

	users, err := repo.List()
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	if len(users) == 0 {
		fmt.Println("No admin accounts exist. Use 'adminctl create' to create one.")
		return nil
	}

	fmt.Printf("%-20s %-30s %-12s %-8s %s\n", "USERNAME", "EMAIL", "ROLE", "ACTIVE", "LAST LOGIN")
	for _, u := range users {
		active := "yes"
		if !u.IsActive {
			active = "no"
		}
		lastLogin := "never"
		if u.LastLogin != nil {
			lastLogin = u.LastLogin.Format("2006-01-02 15:04")
		}
		fmt.Printf("%-20s %-30s %-12s %-8s %s\n", u.Username, u.Email, u.Role, active, lastLogin)
	}
	return nil
}

func openRepo() (*repository.AdminUserRepository, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := database.Handle(&cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return repository.NewAdminUserRepository(db), nil
}
