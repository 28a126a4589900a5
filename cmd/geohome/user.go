package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/geohome/geohome/internal/db"
	"github.com/geohome/geohome/internal/domain"
	"github.com/geohome/geohome/internal/identity/local"
	"github.com/geohome/geohome/internal/logging"
	"github.com/geohome/geohome/internal/service"
	"github.com/geohome/geohome/internal/store"
)

var (
	userEmail string
	userName  string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage local accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a local account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.AuthProvider != "local" {
			return fmt.Errorf("accounts are managed by %s, not locally", cfg.AuthProvider)
		}

		password, err := readPassword(cmd)
		if err != nil {
			return err
		}

		database, err := db.Open(cfg.DBDriver, cfg.DSN())
		if err != nil {
			return err
		}
		defer func() { _ = database.Close() }()

		provider := local.New(store.NewUserStore(database), store.NewRevokedTokenStore(database), cfg.JWTSecret, cfg.JWTTTL)
		auth := service.NewAuthService(provider, logging.Discard())

		sess, err := auth.Register(context.Background(), &domain.RegisterInput{
			Email:    userEmail,
			Password: password,
			Name:     userName,
		})
		if err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				for _, fe := range verr.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", fe.Field, fe.Message)
				}
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", sess.User.Email, sess.User.ID)
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "account email")
	userAddCmd.Flags().StringVar(&userName, "name", "", "display name")
	_ = userAddCmd.MarkFlagRequired("email")
	_ = userAddCmd.MarkFlagRequired("name")
}

// readPassword prompts on a terminal and reads a line from piped stdin
// otherwise.
func readPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}
