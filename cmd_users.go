package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"backoffice-console/models"
	"backoffice-console/utils"
)

// listFlags binds the shared paging and filter flags of list commands.
type listFlags struct {
	page    int
	perPage int
	search  string
	status  string
	from    string
	to      string
	filters map[string]string
}

func (l *listFlags) bind(fs *pflag.FlagSet) {
	fs.IntVar(&l.page, "page", models.DefaultPage, "page number")
	fs.IntVar(&l.perPage, "per-page", models.DefaultPerPage, "rows per page")
	fs.StringVar(&l.search, "search", "", "free text search")
	fs.StringVar(&l.status, "status", "", "status filter")
	fs.StringVar(&l.from, "from", "", "start date (YYYY-MM-DD)")
	fs.StringVar(&l.to, "to", "", "end date (YYYY-MM-DD)")
	fs.StringToStringVar(&l.filters, "filter", nil, "extra backend filters, key=value")
}

func (l *listFlags) params() models.ListParams {
	return models.ListParams{
		Page:    l.page,
		PerPage: l.perPage,
		Search:  l.search,
		Status:  l.status,
		From:    l.from,
		To:      l.to,
		Filters: l.filters,
	}.Normalized()
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, &utils.ValidationError{Fields: map[string]string{"id": fmt.Sprintf("invalid id %q", arg)}}
	}
	return id, nil
}

var (
	userList       listFlags
	userExport     listFlags
	userExportFile string
	userReason     string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Platform customers",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := cli.Queries().Users(cli.ctx(cmd), userList.params())
		if err != nil {
			return err
		}
		return listTable(cli, page, []string{"ID", "NAME", "EMAIL", "PHONE", "STATUS", "KYC", "JOINED"}, func(u models.User) []string {
			return []string{strconv.Itoa(u.ID), u.FullName(), u.Email, u.Phone, string(u.Status), yesNo(u.KYCVerified), dateTime(u.CreatedAt)}
		})
	},
}

var usersShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		u, err := cli.Queries().User(cli.ctx(cmd), id)
		if err != nil {
			return err
		}
		wallet, balance := "-", "-"
		if u.Wallet != nil {
			wallet = u.Wallet.AccountNumber + " " + u.Wallet.BankName
			balance = naira(u.Wallet.Balance)
		}
		return cli.fields(u,
			"ID", strconv.Itoa(u.ID),
			"Name", u.FullName(),
			"Email", u.Email,
			"Phone", u.Phone,
			"Status", string(u.Status),
			"KYC verified", yesNo(u.KYCVerified),
			"KYB verified", yesNo(u.KYBVerified),
			"Wallet", wallet,
			"Balance", balance,
			"Joined", dateTime(u.CreatedAt),
		)
	},
}

var usersStatusCmd = &cobra.Command{
	Use:   "status <id> <NEW|ACTIVE|SUSPENDED|INACTIVE>",
	Short: "Change a user's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		_, err = cli.Queries().UpdateUserStatus(cli.ctx(cmd), models.UpdateUserStatusRequest{
			ID:     id,
			Status: models.UserStatus(args[1]),
			Reason: userReason,
		})
		return err
	},
}

var usersStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "User counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.Queries().UserStats(cli.ctx(cmd))
		if err != nil {
			return err
		}
		return cli.fields(s,
			"Total", strconv.Itoa(s.TotalUsers),
			"Active", strconv.Itoa(s.ActiveUsers),
			"New", strconv.Itoa(s.NewUsers),
			"Suspended", strconv.Itoa(s.SuspendedUsers),
			"Inactive", strconv.Itoa(s.InactiveUsers),
			"Verified", strconv.Itoa(s.VerifiedUsers),
		)
	},
}

var usersExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export matching users to CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := cli.Queries().ExportUsers(cli.ctx(cmd), userExport.params())
		if err != nil {
			return err
		}
		return writeExport(userExportFile, "users", result)
	},
}

// writeExport writes rows to path, or to a dated file named after subject.
func writeExport[Row any](path, subject string, result models.Export[Row]) error {
	if path == "" {
		path = utils.ExportFilename(subject)
	}
	written, err := utils.WriteCSVFile(path, result.Rows)
	if err != nil {
		return err
	}
	if !written {
		fmt.Fprintln(cli.out, "Nothing to export.")
		return nil
	}
	fmt.Fprintf(cli.out, "Exported %d %s to %s\n", len(result.Rows), subject, path)
	if result.Truncated {
		fmt.Fprintf(cli.errw, "Export stopped after %d of %d %s, narrow the filters to get the rest.\n", len(result.Rows), result.Total, subject)
	}
	return nil
}

func init() {
	userList.bind(usersListCmd.Flags())
	userExport.bind(usersExportCmd.Flags())
	usersExportCmd.Flags().StringVarP(&userExportFile, "output", "o", "", "CSV file (default <subject>-<date>.csv)")
	usersStatusCmd.Flags().StringVar(&userReason, "reason", "", "reason recorded with the change")
	usersCmd.AddCommand(usersListCmd, usersShowCmd, usersStatusCmd, usersStatsCmd, usersExportCmd)
}
