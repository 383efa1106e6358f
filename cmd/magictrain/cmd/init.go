package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yuhnmomo/magictrain/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config.yaml to the config directory",
	Long: `Create the configuration directory and write a config.yaml with the
default settings, ready to edit. The API key is best supplied through
the GEMINI_API_KEY environment variable or a .env file rather than the
config file.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := getConfigDir()
	path := filepath.Join(dir, "config.yaml")
	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
	}
	if err := config.Save(dir, config.Default()); err != nil {
		return err
	}
	fmt.Println("Wrote", path)
	return nil
}
