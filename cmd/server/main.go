package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/folio/internal/config"
	"github.com/spf13/cobra"
)

var configFile string

// rootCmd 不带子命令时等同于 serve
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Portfolio site with a superadmin content editor",
	Long: `folio serves a single-page portfolio and the /superadmin editor that manages it.

Available subcommands:
  serve        - Run the HTTP server (default)
  migrate      - Create or update database tables
  seed         - Write default content into empty sections
  create-admin - Create an administrator account`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to a YAML config file (or set FOLIO_CONFIG)")

	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password (at least 8 characters)")
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "Display name")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
	_ = createAdminCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, createAdminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig 读取 --config 指定的文件，未指定时回退到 FOLIO_CONFIG 环境变量。
func loadConfig() (config.AppConfig, error) {
	path := strings.TrimSpace(configFile)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("FOLIO_CONFIG"))
	}
	return config.Load(path)
}
