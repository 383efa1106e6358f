package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yuhnmomo/magictrain/internal/save"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current save as a JSON file",
	Long: `Export the stored game state as a portable JSON file, named
magic-train-save-YYYY-MM-DD.json. The file can be imported later or on
another machine with 'magictrain import'.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "output", "o", ".", "directory to write the export into")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	gateway, err := openGateway(newLogger())
	if err != nil {
		return err
	}
	defer gateway.Close()

	path, err := gateway.Export(exportDir)
	if errors.Is(err, save.ErrNoSave) {
		return fmt.Errorf("no save to export")
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported save to", path)
	return nil
}
