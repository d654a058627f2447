package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hongminglow/vendorhub-be/internal/config"
	"github.com/hongminglow/vendorhub-be/internal/logging"
)

var (
	cfgFile string
	v       = config.NewAgentViper()
	cfg     config.Agent
	logger  = zap.NewNop()

	rootCmd = &cobra.Command{
		Use:   "vendor-agent",
		Short: "Receive and accept VendorHub leads from the terminal",
		Long: `vendor-agent keeps a live connection to VendorHub while you are signed in as a vendor.
New leads appear as they arrive; accepting one opens the payment checkout in your browser.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/vendorhub/agent.yaml)")
	flags.String(config.KeyAPIURL, "", "VendorHub REST API base URL")
	flags.String(config.KeySocketURL, "", "lead socket origin (default: origin of --api-url)")
	flags.String(config.KeySessionFile, "", "encrypted session file")
	flags.String(config.KeySessionPassphrase, "", "passphrase for the session file")
	flags.String(config.KeyCheckoutAddr, "127.0.0.1:8765", "listen address for the local checkout page")
	flags.Bool(config.KeyReconnect, true, "reconnect the lead socket after network failures")
	flags.String(config.KeyLogLevel, "info", "log level (debug, info, warn, error)")
	flags.String(config.KeyLogFormat, "console", "log format (console, json)")

	for _, key := range []string{
		config.KeyAPIURL, config.KeySocketURL, config.KeySessionFile, config.KeySessionPassphrase,
		config.KeyCheckoutAddr, config.KeyReconnect, config.KeyLogLevel, config.KeyLogFormat,
	} {
		_ = v.BindPFlag(key, flags.Lookup(key))
	}

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(listenCmd())
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	_ = logger.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	_ = godotenv.Load()
	if err := config.ReadAgentFile(v, cfgFile); err != nil {
		return err
	}
	loaded, err := config.LoadAgent(v)
	if err != nil {
		return err
	}
	cfg = loaded

	l, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	logger = l
	return nil
}
