package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/adelvo/website/backend/internal/config"
	"github.com/adelvo/website/backend/internal/service/session"
	"github.com/adelvo/website/backend/internal/storage"
	"github.com/adelvo/website/backend/pkg/logger"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "chatbot",
	Short: "Talk to the Adelvo site assistant from the terminal",
	Long: `Runs the website chat widget in the terminal. Lines you type are sent to the
assistant; /open, /close and /toggle drive the panel and /quit exits.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runChat,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yml", "path to the YAML config file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := logger.Setup(loaded.Log); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// openIdentity opens the configured storage and the session identity over it.
// The returned func releases the storage.
func openIdentity() (*session.IdentityStore, func(), error) {
	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("opening storage: %w", err)
	}

	release := func() {
		if closer, ok := store.(storage.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close storage")
			}
		}
	}

	identity := session.NewIdentityStore(store,
		session.WithKey(cfg.Chat.StorageKey),
		session.WithPrefix(cfg.Chat.SessionPrefix),
	)
	return identity, release, nil
}
