package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halocare/halocare-admin/internal/auth"
	"github.com/halocare/halocare-admin/internal/platform/db"
)

// UserCreator is satisfied by *auth.Service.
type UserCreator interface {
	CreateUser(ctx context.Context, in auth.NewUser) (*auth.User, error)
}

// ReadPassword takes the first line of r.
func ReadPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password must be provided on stdin")
	}
	return password, nil
}

// CreateUser reads the password from in and stores the account.
func CreateUser(ctx context.Context, svc UserCreator, in io.Reader, email, name, role string) (*auth.User, error) {
	password, err := ReadPassword(in)
	if err != nil {
		return nil, err
	}
	return svc.CreateUser(ctx, auth.NewUser{Email: email, Name: name, Role: role, Password: password})
}

func newUsersCommand() *cobra.Command {
	var email, name, role string
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage dashboard manager accounts",
	}
	create := &cobra.Command{
		Use:     "create",
		Short:   "Create a manager account; the password is read from stdin",
		Example: `  printf '%s\n' "$PASSWORD" | halocarectl users create --email ops@halocare.id --name Ops --role manager`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			pool, err := db.New(cmd.Context(), db.Options{DSN: cfg.PGDSN, MaxConns: 2})
			if err != nil {
				return err
			}
			defer pool.Close()
			user, err := CreateUser(cmd.Context(), auth.NewService(auth.NewRepository(pool)), cmd.InOrStdin(), email, name, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %d <%s> with role %s\n", user.ID, user.Email, user.Role)
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "login email")
	create.Flags().StringVar(&name, "name", "", "display name")
	create.Flags().StringVar(&role, "role", "viewer", "admin, manager, finance or viewer")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("name")
	cmd.AddCommand(create)
	return cmd
}
