package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"tsmartwarehouse/pkg/logger"
	"tsmartwarehouse/pkg/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	envFile string
	db      *sql.DB
	log     *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "warehousectl",
	Short: "Operator CLI for warehouse rate tables and quoting",
	Long: `warehousectl manages warehouse pricing configuration and computes
quotes against the live rate tables. It talks directly to the service
database using the same repositories as the API.`,
	PersistentPreRunE: persistentPreRun,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default: .env if present)")
}

// persistentPreRun runs before each command and initializes dependencies
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
	} else {
		// Best-effort: a missing .env is fine.
		_ = godotenv.Load()
	}

	log = logger.New(os.Getenv("APP_ENV"))

	var err error
	db, err = utils.OpenPostgres(context.Background(), "pgx", dsnFromEnv(), utils.PostgresPoolConfig{})
	if err != nil {
		return fmt.Errorf("database initialization failed: %w", err)
	}
	log.Info("database connected")
	return nil
}

func dsnFromEnv() string {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return fallback
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		get("DB_HOST", "localhost"),
		get("DB_PORT", "5432"),
		get("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		get("DB_NAME", "warehouse"),
		get("DB_SSLMODE", "disable"),
	)
}

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if db != nil {
		_ = db.Close()
	}
}
