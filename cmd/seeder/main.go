package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"ldap-seeder/internal/adapter/avatar"
	"ldap-seeder/internal/adapter/ldaptool"
	"ldap-seeder/internal/config"
	"ldap-seeder/internal/usecase/seed"
	"ldap-seeder/pkg/logger"
)

// main always exits 0 once configuration is valid; the printed report and
// the logs say whether the directory was populated.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seeder exited with error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "."
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	l, err := logger.NewWithConfig(cfg.Logger.Logger(cfg.App.Environment))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync(l)
	}()

	tool := ldaptool.NewClient(ldaptool.NewExecRunner(), cfg.LDAP.Tool(), l)
	uc := seed.New(tool, avatar.New(), settings(cfg), seed.NewPrinter(os.Stdout), l)

	report := uc.Run(logger.NewRunContext(context.Background()))

	l.Info("seeder finished",
		zap.String("run_id", report.RunID),
		zap.Bool("succeeded", report.Succeeded()),
		zap.String("ldap_url", tool.Config().URL()),
	)
	return nil
}

func settings(cfg *config.Config) seed.Settings {
	return seed.Settings{
		BaseDN:       cfg.LDAP.BaseDN,
		Organization: cfg.LDAP.Organization,
		UsersOU:      cfg.LDAP.UsersOU,
		MailDomain:   cfg.Seed.MailDomain,
		Department:   cfg.Seed.Department,
		UserCount:    cfg.Seed.UserCount,
		OutputPath:   cfg.Seed.OutputPath,
		TempPath:     cfg.Seed.TempPath,
	}
}
