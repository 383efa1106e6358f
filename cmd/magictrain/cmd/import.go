package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a previously exported save file",
	Long: `Validate and install a save file produced by 'magictrain export'.
The current save is only replaced when the file parses as a complete
game state; a broken file leaves everything untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	gateway, err := openGateway(newLogger())
	if err != nil {
		return err
	}
	defer gateway.Close()

	doc, err := gateway.Import(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Imported save for %s (last played %s)\n",
		doc.Player.Name, doc.LastPlayed.Format("2006-01-02 15:04"))
	return nil
}
