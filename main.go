package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"backoffice-console/api"
	"backoffice-console/config"
	"backoffice-console/logger"
	"backoffice-console/queries"
	"backoffice-console/query"
	"backoffice-console/session"
)

// app is what every command runs against: one signed-in operator, one
// session file, one query cache for the life of the process.
type app struct {
	cfg   *config.Config
	log   *logrus.Logger
	store *session.FileStore
	out   io.Writer
	errw  io.Writer

	jsonOutput bool

	once    sync.Once
	queries *queries.Queries
}

var cli = &app{out: os.Stdout, errw: os.Stderr}

var rootCmd = &cobra.Command{
	Use:           "backoffice",
	Short:         "Back-office console for the payments admin API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cli.cfg = cfg
		cli.log = logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
		for _, w := range cfg.Warnings {
			cli.log.Warn(w)
		}
		cli.store = session.NewFileStore(cfg.Session.File)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cli.jsonOutput, "json", false, "print raw JSON instead of tables")
	rootCmd.AddCommand(
		loginCmd, logoutCmd, whoamiCmd,
		usersCmd, transactionsCmd, servicesCmd,
		adminsCmd, rolesCmd, newslettersCmd, notificationsCmd,
		dashboardCmd, serveCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", api.Message(err))
		if cli.log != nil {
			cli.log.WithError(err).Debug("command failed")
		}
		os.Exit(1)
	}
}

// Queries builds the client and cache on first use. A 401 clears the session
// file and prints the sign-in hint once.
func (a *app) Queries() *queries.Queries {
	a.once.Do(func() {
		client := api.NewClient(api.Options{
			BaseURL: a.cfg.API.BaseURL,
			Timeout: a.cfg.API.Timeout,
			Store:   a.store,
			Navigator: api.NavigatorFunc(func() {
				fmt.Fprintln(a.errw, "Session expired, run `backoffice login` to sign in again.")
			}),
			Logger: a.log,
		})
		cache := query.NewCache(query.Options{GCTime: a.cfg.Cache.GCTime, Logger: a.log})
		a.queries = queries.New(client, cache, queries.Options{
			Stale:    staleTimes(a.cfg),
			Session:  a.store,
			Notifier: printNotifier{w: a.errw},
			Logger:   a.log,
		})
	})
	return a.queries
}

func staleTimes(cfg *config.Config) queries.StaleTimes {
	return queries.StaleTimes{
		Default:   cfg.Cache.StaleTime,
		Stats:     cfg.Cache.StatsStaleTime,
		Reference: cfg.Cache.ReferenceStaleTime,
		Unread:    cfg.Cache.UnreadInterval,
	}
}

// printNotifier reports successful mutations on stderr. Failures come back
// as the command's error and are printed by main.
type printNotifier struct {
	w io.Writer
}

func (p printNotifier) Success(_, message string) {
	fmt.Fprintln(p.w, message)
}

func (p printNotifier) Error(string, string) {}

func (a *app) ctx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
