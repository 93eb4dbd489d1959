package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"backoffice-console/models"
)

var (
	txList       listFlags
	txExport     listFlags
	txStats      listFlags
	txExportFile string
	serviceList  listFlags
	planNetwork  string
)

var transactionsCmd = &cobra.Command{
	Use:     "transactions",
	Aliases: []string{"tx"},
	Short:   "Wallet transactions",
}

func partyName(p *models.Party) string {
	if p == nil || p.Name == "" {
		return "-"
	}
	return p.Name
}

var transactionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := cli.Queries().Transactions(cli.ctx(cmd), txList.params())
		if err != nil {
			return err
		}
		return listTable(cli, page, []string{"ID", "REFERENCE", "TYPE", "AMOUNT", "STATUS", "SENDER", "RECIPIENT", "DATE"}, func(t models.Transaction) []string {
			return []string{strconv.Itoa(t.ID), t.Reference, t.Type, naira(t.Amount), string(t.Status), partyName(t.Sender), partyName(t.Recipient), dateTime(t.CreatedAt)}
		})
	},
}

var transactionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := cli.Queries().Transaction(cli.ctx(cmd), args[0])
		if err != nil {
			return err
		}
		return cli.fields(t,
			"ID", strconv.Itoa(t.ID),
			"Reference", t.Reference,
			"Type", t.Type,
			"Amount", naira(t.Amount),
			"Fee", naira(t.Fee),
			"Status", string(t.Status),
			"Sender", partyName(t.Sender),
			"Recipient", partyName(t.Recipient),
			"Description", t.Description,
			"Date", dateTime(t.CreatedAt),
		)
	},
}

var transactionsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Transaction totals, optionally for a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.Queries().TransactionStats(cli.ctx(cmd), txStats.params())
		if err != nil {
			return err
		}
		return cli.fields(s,
			"Transactions", strconv.Itoa(s.TotalTransactions),
			"Volume", naira(s.TotalVolume),
			"Successful", strconv.Itoa(s.Successful),
			"Pending", strconv.Itoa(s.Pending),
			"Failed", strconv.Itoa(s.Failed),
			"Today", naira(s.TodayVolume),
		)
	},
}

var transactionsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export matching transactions to CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := cli.Queries().ExportTransactions(cli.ctx(cmd), txExport.params())
		if err != nil {
			return err
		}
		return writeExport(txExportFile, "transactions", result)
	},
}

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "Airtime, data, electricity and TV purchases",
}

var servicesTransactionsCmd = &cobra.Command{
	Use:       "transactions <airtime|data|electricity|tv>",
	Short:     "List purchases of one service",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"airtime", "data", "electricity", "tv"},
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := cli.Queries().ServiceTransactions(cli.ctx(cmd), models.ServiceKind(args[0]), serviceList.params())
		if err != nil {
			return err
		}
		return listTable(cli, page, []string{"ID", "REFERENCE", "AMOUNT", "STATUS", "USER", "DATE"}, func(t models.ServiceTransaction) []string {
			user := "-"
			if t.User != nil {
				user = t.User.FullName()
			}
			return []string{strconv.Itoa(t.ID), t.Reference, naira(t.Amount), string(t.Status), user, dateTime(t.CreatedAt)}
		})
	},
}

var servicesStatsCmd = &cobra.Command{
	Use:   "stats [service]",
	Short: "Totals per service",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds := models.ServiceKinds()
		if len(args) == 1 {
			kinds = []models.ServiceKind{models.ServiceKind(args[0])}
		}
		var all []models.ServiceStats
		rows := make([][]string, 0, len(kinds))
		for _, kind := range kinds {
			s, err := cli.Queries().ServiceStats(cli.ctx(cmd), kind)
			if err != nil {
				return err
			}
			all = append(all, s)
			rows = append(rows, []string{string(kind), strconv.Itoa(s.TotalTransactions), naira(s.TotalVolume), strconv.Itoa(s.Successful), strconv.Itoa(s.Pending), strconv.Itoa(s.Failed)})
		}
		return cli.table(all, []string{"SERVICE", "COUNT", "VOLUME", "OK", "PENDING", "FAILED"}, rows)
	},
}

var servicesNetworksCmd = &cobra.Command{
	Use:   "networks",
	Short: "Mobile networks for airtime and data",
	RunE: func(cmd *cobra.Command, args []string) error {
		networks, err := cli.Queries().Networks(cli.ctx(cmd))
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(networks))
		for _, n := range networks {
			rows = append(rows, []string{strconv.Itoa(n.ID), n.Name, n.Code, yesNo(n.IsActive)})
		}
		return cli.table(networks, []string{"ID", "NAME", "CODE", "ACTIVE"}, rows)
	},
}

var servicesPlansCmd = &cobra.Command{
	Use:   "data-plans",
	Short: "Data plans, optionally for one network",
	RunE: func(cmd *cobra.Command, args []string) error {
		plans, err := cli.Queries().DataPlans(cli.ctx(cmd), planNetwork)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(plans))
		for _, p := range plans {
			rows = append(rows, []string{p.Network, p.Name, p.Code, naira(p.Amount), p.Validity})
		}
		return cli.table(plans, []string{"NETWORK", "PLAN", "CODE", "PRICE", "VALIDITY"}, rows)
	},
}

var servicesProvidersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Electricity distribution companies and TV providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cli.ctx(cmd)
		discos, err := cli.Queries().Discos(ctx)
		if err != nil {
			return err
		}
		tv, err := cli.Queries().TVProviders(ctx)
		if err != nil {
			return err
		}
		var rows [][]string
		for _, d := range discos {
			rows = append(rows, []string{"electricity", d.Name, d.Code})
		}
		for _, p := range tv {
			rows = append(rows, []string{"tv", p.Name, p.Code})
		}
		raw := map[string]any{"discos": discos, "tv_providers": tv}
		return cli.table(raw, []string{"SERVICE", "NAME", "CODE"}, rows)
	},
}

func init() {
	txList.bind(transactionsListCmd.Flags())
	txExport.bind(transactionsExportCmd.Flags())
	txStats.bind(transactionsStatsCmd.Flags())
	transactionsExportCmd.Flags().StringVarP(&txExportFile, "output", "o", "", "CSV file (default <subject>-<date>.csv)")
	transactionsCmd.AddCommand(transactionsListCmd, transactionsShowCmd, transactionsStatsCmd, transactionsExportCmd)

	serviceList.bind(servicesTransactionsCmd.Flags())
	servicesPlansCmd.Flags().StringVar(&planNetwork, "network", "", "network code")
	servicesCmd.AddCommand(servicesTransactionsCmd, servicesStatsCmd, servicesNetworksCmd, servicesPlansCmd, servicesProvidersCmd)
}
