package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rohits-web03/ledger/internal/config"
	"github.com/rohits-web03/ledger/internal/logger"
	"github.com/rohits-web03/ledger/internal/repositories"
)

type commandContext struct {
	driverFlag *string
	dbFlag     *string

	configOnce sync.Once
	config     config.Config
	configErr  error
}

func newCommandContext(driverFlag, dbFlag *string) *commandContext {
	return &commandContext{
		driverFlag: driverFlag,
		dbFlag:     dbFlag,
	}
}

// ensureConfig loads the environment once and applies flag overrides.
func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			c.configErr = err
			return
		}
		if v := strings.TrimSpace(*c.driverFlag); v != "" {
			cfg.DBDriver = strings.ToLower(v)
		}
		if v := strings.TrimSpace(*c.dbFlag); v != "" {
			cfg.DBURL = v
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withStore opens the database for the duration of fn. The CLI never deletes
// attachments, so the store runs without a blob backend.
func (c *commandContext) withStore(fn func(*repositories.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, OutputPaths: []string{"stderr"}})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := repositories.OpenDatabase(cfg.DBDriver, cfg.DBURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := repositories.CloseDatabase(db); err != nil {
			log.Warn("closing database", zap.Error(err))
		}
	}()

	return fn(repositories.NewStore(db, nil, log))
}

func newRootCommand() *cobra.Command {
	var driverFlag string
	var dbFlag string

	ctx := newCommandContext(&driverFlag, &dbFlag)

	rootCmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Inspect and export the freelance project ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "", "Database driver (sqlite or postgres), overrides DB_DRIVER")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "Database path or DSN, overrides DB_URL")

	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newProjectsCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newCalcCommand())

	return rootCmd
}
