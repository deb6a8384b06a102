package main

import (
	"fmt"

	"github.com/folio/internal/auth"
	"github.com/folio/internal/logger"
	"github.com/folio/internal/service"
	"github.com/folio/internal/view"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	adminEmail    string
	adminPassword string
	adminName     string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		gdb, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		if sqlDB, err := gdb.DB(); err == nil {
			defer sqlDB.Close()
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Database schema is up to date")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write default content into empty sections",
	Long: `Write the built-in default content into every section that has no rows yet.
Sections that already hold content are left untouched, so the command can be re-run.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		gdb, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		if sqlDB, err := gdb.DB(); err == nil {
			defer sqlDB.Close()
		}

		seeded, err := service.NewContentService(gdb).SeedDefaults(cmd.Context(), view.MustDefaults())
		for _, name := range seeded {
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %s\n", name)
		}
		if err != nil {
			return err
		}
		if len(seeded) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to seed")
		}
		return nil
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := logger.New(cfg.Log)
		defer log.Sync()

		gdb, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		if sqlDB, err := gdb.DB(); err == nil {
			defer sqlDB.Close()
		}

		tokens, err := auth.NewTokenManager(cfg.SessionSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
		if err != nil {
			return err
		}
		authSvc := service.NewAuthService(gdb, tokens, log.Named("auth"))
		id, err := authSvc.CreateAdmin(cmd.Context(), service.CreateAdminInput{
			Email:    adminEmail,
			Password: adminPassword,
			Name:     adminName,
		})
		if err != nil {
			log.Error("Create admin failed", zap.String("email", adminEmail), zap.Error(err))
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Admin user created (id %d)\n", id)
		return nil
	},
}
