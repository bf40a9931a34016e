// matchctl es la herramienta de operación del servicio de matching:
// puntajes sobre archivos, ranking contra la base, migraciones y tokens de prueba.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	applogger "friender-bender/internal/logger"
)

const app = "matchctl"

var rootCmd = &cobra.Command{
	Use:           app,
	Short:         "matchctl inspects and operates the friender-bender matching service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("database-url", "", "postgres connection string (env DATABASE_URL)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("database-url", rootCmd.PersistentFlags().Lookup("database-url"))
	viper.BindPFlag("log-debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("log-json", rootCmd.PersistentFlags().Lookup("json"))
}

// initConfig toma las mismas variables que cmd/api: "database-url" se lee de DATABASE_URL.
func initConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: loading .env: %v", err)
	}
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.SetDefault("jwt-issuer", "friender-bender")
	viper.SetDefault("match-fanout-limit", 8)
}

func newLogger() (*zap.Logger, error) {
	return applogger.New(viper.GetBool("log-json"), viper.GetBool("log-debug"))
}

func databaseURL() (string, error) {
	url := strings.TrimSpace(viper.GetString("database-url"))
	if url == "" {
		return "", fmt.Errorf("database url not configured: set DATABASE_URL or --database-url")
	}
	return url, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", app, err)
		os.Exit(1)
	}
}
