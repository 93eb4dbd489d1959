package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"backoffice-console/models"
	"backoffice-console/session"
	"backoffice-console/utils"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := bufio.NewReader(cmd.InOrStdin())
		email := strings.TrimSpace(loginEmail)
		if email == "" {
			email = prompt(in, "Email: ")
		}
		password := loginPassword
		if password == "" {
			password = os.Getenv("BACKOFFICE_PASSWORD")
		}
		if password == "" {
			password = prompt(in, "Password: ")
		}

		resp, err := cli.Queries().Login(cli.ctx(cmd), models.LoginRequest{Email: email, Password: password})
		if err != nil {
			return err
		}
		role := "-"
		if resp.Admin.IsSuperAdmin {
			role = "super admin"
		} else if resp.Admin.Role != nil {
			role = resp.Admin.Role.Name
		}
		fmt.Fprintf(cli.out, "Signed in as %s (%s, %s)\n", resp.Admin.FullName(), resp.Admin.Email, role)
		cli.log.WithField("session_file", cli.store.Path()).Debug("session stored")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the token and forget the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cli.ctx(cmd)
		if _, err := cli.store.Get(ctx); errors.Is(err, session.ErrNoSession) {
			fmt.Fprintln(cli.out, "Not signed in.")
			return nil
		}
		if err := cli.Queries().Logout(ctx); err != nil {
			fmt.Fprintln(cli.errw, "Backend logout failed, local session cleared anyway.")
			cli.log.WithError(err).Debug("logout")
		}
		fmt.Fprintln(cli.out, "Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cli.ctx(cmd)
		s, err := cli.store.Get(ctx)
		if errors.Is(err, session.ErrNoSession) {
			fmt.Fprintln(cli.out, "Not signed in. Run `backoffice login`.")
			return nil
		}
		if err != nil {
			return err
		}
		admin, err := cli.Queries().Profile(ctx)
		if err != nil {
			return err
		}
		expires := "-"
		if !s.ExpiresAt.IsZero() {
			expires = utils.FormatDateTime(s.ExpiresAt)
		}
		role := "-"
		if admin.Role != nil {
			role = admin.Role.Name
		}
		return cli.fields(admin,
			"Name", admin.FullName(),
			"Email", admin.Email,
			"Role", role,
			"Super admin", yesNo(admin.IsSuperAdmin),
			"Permissions", strings.Join(admin.Permissions, ", "),
			"Token", utils.MaskToken(s.Token),
			"Expires", expires,
		)
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "admin email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (or BACKOFFICE_PASSWORD)")
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Fprint(cli.errw, label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}
