// Package cmd contains all CLI commands for Magic Train.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yuhnmomo/magictrain/internal/catalog"
	"github.com/yuhnmomo/magictrain/internal/config"
	"github.com/yuhnmomo/magictrain/internal/llm"
	"github.com/yuhnmomo/magictrain/internal/save"
	"github.com/yuhnmomo/magictrain/internal/session"
	"github.com/yuhnmomo/magictrain/internal/tui"
)

var cfgDir string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "magictrain",
	Short: "Magic Train - a romantic roleplay chat aboard a mysterious train",
	Long: `Magic Train (魔法列車) is a terminal roleplay chat game. You board a
train full of AI-driven passengers, build a persona, and talk your way
into their hearts.

Conversations carry a favorability and lust system: every reply can
shift how a character feels about you, long talks are condensed into
summaries, and everything is saved locally so the journey continues
where you left it.

Running 'magictrain' without arguments starts the game.`,
	RunE: runGame,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default is $HOME/.config/magictrain)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgDir != "" {
		viper.Set("config_dir", cfgDir)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", filepath.Join(home, ".config", "magictrain"))
	}

	viper.SetEnvPrefix("MAGICTRAIN")
	viper.AutomaticEnv()
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// newLogger writes structured logs into the config directory. The TUI
// owns the terminal, so stdout is not an option.
func newLogger() *slog.Logger {
	dir := getConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	f, err := os.OpenFile(filepath.Join(dir, "magictrain.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
}

// openGateway opens the save database inside the config directory.
func openGateway(log *slog.Logger) (*save.Gateway, error) {
	return save.Open(config.DatabasePath(getConfigDir()), log)
}

// runGame wires everything together and starts the TUI.
func runGame(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg, err := config.Load(getConfigDir())
	if err != nil {
		return err
	}

	cat, err := catalog.New(catalog.RandomChooser(rand.New(rand.NewSource(time.Now().UnixNano()))))
	if err != nil {
		return fmt.Errorf("loading character catalog: %w", err)
	}

	client, err := llm.NewGemini(context.Background(), cfg.APIKey, cfg.Model)
	if err != nil {
		return fmt.Errorf("set GEMINI_API_KEY or api_key in config.yaml: %w", err)
	}

	gateway, err := openGateway(log)
	if err != nil {
		return err
	}
	defer gateway.Close()

	orch := session.New(session.Config{
		SummaryThreshold:  cfg.SummaryThreshold,
		LustResetOnSwitch: cfg.LustResetOnSwitch,
	}, cat, client, gateway, log)

	hasSave := false
	switch doc, err := gateway.Load(); {
	case err == nil:
		orch.Hydrate(doc)
		hasSave = true
	case errors.Is(err, save.ErrNoSave):
	default:
		return err
	}

	return tui.Run(orch, gateway, hasSave)
}
