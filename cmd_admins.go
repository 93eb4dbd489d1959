package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"backoffice-console/models"
)

var (
	adminList   listFlags
	adminCreate models.CreateAdminRequest
	avatarPath  string

	newsletterList   listFlags
	notificationList listFlags
)

var adminsCmd = &cobra.Command{
	Use:   "admins",
	Short: "Back-office administrators",
}

func roleName(a models.Admin) string {
	switch {
	case a.IsSuperAdmin:
		return "super admin"
	case a.Role != nil:
		return a.Role.Name
	}
	return "-"
}

var adminsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List admins",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := cli.Queries().Admins(cli.ctx(cmd), adminList.params())
		if err != nil {
			return err
		}
		return listTable(cli, page, []string{"ID", "NAME", "EMAIL", "ROLE", "STATUS", "LAST LOGIN"}, func(a models.Admin) []string {
			return []string{strconv.Itoa(a.ID), a.FullName(), a.Email, roleName(a), a.Status, optionalTime(a.LastLoginAt)}
		})
	},
}

var adminsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := adminCreate
		if avatarPath != "" {
			f, err := os.Open(avatarPath)
			if err != nil {
				return fmt.Errorf("error opening avatar: %w", err)
			}
			defer f.Close()
			req.Avatar = &models.Upload{Filename: filepath.Base(avatarPath), Reader: f}
		}
		env, err := cli.Queries().CreateAdmin(cli.ctx(cmd), req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Created admin %d (%s)\n", env.Data.ID, env.Data.Email)
		return nil
	},
}

var adminsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an admin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		_, err = cli.Queries().DeleteAdmin(cli.ctx(cmd), id)
		return err
	},
}

var adminsToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Activate or deactivate an admin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		_, err = cli.Queries().ToggleAdminStatus(cli.ctx(cmd), id)
		return err
	},
}

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Admin roles and permissions",
}

var rolesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List roles with their permissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		roles, err := cli.Queries().Roles(cli.ctx(cmd))
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(roles))
		for _, r := range roles {
			rows = append(rows, []string{strconv.Itoa(r.ID), r.Name, strconv.Itoa(r.AdminsCount), strings.Join(r.Permissions, ", ")})
		}
		return cli.table(roles, []string{"ID", "NAME", "ADMINS", "PERMISSIONS"}, rows)
	},
}

var rolesPermissionsCmd = &cobra.Command{
	Use:   "permissions",
	Short: "List the permission catalogue",
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := cli.Queries().Permissions(cli.ctx(cmd))
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(groups))
		for _, g := range groups {
			rows = append(rows, []string{g.Module, strings.Join(g.Permissions, ", ")})
		}
		return cli.table(groups, []string{"MODULE", "PERMISSIONS"}, rows)
	},
}

var newslettersCmd = &cobra.Command{
	Use:   "newsletters",
	Short: "Customer newsletters",
}

var newslettersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List newsletters",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := cli.Queries().Newsletters(cli.ctx(cmd), newsletterList.params())
		if err != nil {
			return err
		}
		return listTable(cli, page, []string{"ID", "TITLE", "MEDIUM", "ACTIVE", "SCHEDULED", "SENT"}, func(n models.Newsletter) []string {
			scheduled := "-"
			if n.ScheduledDate != nil {
				scheduled = *n.ScheduledDate
				if n.ScheduledTime != nil {
					scheduled += " " + *n.ScheduledTime
				}
			}
			return []string{strconv.Itoa(n.ID), n.Title, string(n.Medium), yesNo(n.IsActive), scheduled, optionalTime(n.SentAt)}
		})
	},
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Admin notifications",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := cli.Queries().Notifications(cli.ctx(cmd), notificationList.params())
		if err != nil {
			return err
		}
		return listTable(cli, page, []string{"ID", "", "TITLE", "MESSAGE", "DATE"}, func(n models.Notification) []string {
			mark := " "
			if n.IsUnread() {
				mark = "*"
			}
			return []string{n.ID, mark, n.Title, n.Message, dateTime(n.CreatedAt)}
		})
	},
}

var notificationsUnreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "Print the unread count",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := cli.Queries().UnreadCount(cli.ctx(cmd))
		if err != nil {
			return err
		}
		if cli.jsonOutput {
			return cli.printJSON(models.UnreadCount{Count: n})
		}
		fmt.Fprintln(cli.out, n)
		return nil
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark one notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cli.Queries().MarkNotificationRead(cli.ctx(cmd), args[0])
		return err
	},
}

var notificationsReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification as read",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cli.Queries().MarkAllNotificationsRead(cli.ctx(cmd))
		return err
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Headline numbers",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.Queries().DashboardStats(cli.ctx(cmd))
		if err != nil {
			return err
		}
		if err := cli.fields(s,
			"Users", strconv.Itoa(s.Users.TotalUsers),
			"Active users", strconv.Itoa(s.Users.ActiveUsers),
			"Transactions", strconv.Itoa(s.Transactions.TotalTransactions),
			"Volume", naira(s.Transactions.TotalVolume),
			"Revenue", naira(s.Revenue),
		); err != nil || cli.jsonOutput {
			return err
		}
		rows := make([][]string, 0, len(s.Services))
		for _, svc := range s.Services {
			rows = append(rows, []string{string(svc.Service), strconv.Itoa(svc.TotalTransactions), naira(svc.TotalVolume)})
		}
		if len(rows) == 0 {
			return nil
		}
		fmt.Fprintln(cli.out)
		return cli.table(nil, []string{"SERVICE", "COUNT", "VOLUME"}, rows)
	},
}

func init() {
	adminList.bind(adminsListCmd.Flags())
	f := adminsCreateCmd.Flags()
	f.StringVar(&adminCreate.FirstName, "first-name", "", "first name")
	f.StringVar(&adminCreate.LastName, "last-name", "", "last name")
	f.StringVar(&adminCreate.Email, "email", "", "email")
	f.StringVar(&adminCreate.Phone, "phone", "", "phone")
	f.StringVar(&adminCreate.Password, "password", "", "initial password")
	f.IntVar(&adminCreate.RoleID, "role", 0, "role id")
	f.StringSliceVar(&adminCreate.Permissions, "permission", nil, "extra permission tags")
	f.BoolVar(&adminCreate.IsSuperAdmin, "super-admin", false, "grant every permission")
	f.StringVar(&avatarPath, "avatar", "", "avatar image file")
	adminsCmd.AddCommand(adminsListCmd, adminsCreateCmd, adminsDeleteCmd, adminsToggleCmd)

	rolesCmd.AddCommand(rolesListCmd, rolesPermissionsCmd)

	newsletterList.bind(newslettersListCmd.Flags())
	newslettersCmd.AddCommand(newslettersListCmd)

	notificationList.bind(notificationsListCmd.Flags())
	notificationsCmd.AddCommand(notificationsListCmd, notificationsUnreadCmd, notificationsReadCmd, notificationsReadAllCmd)
}
