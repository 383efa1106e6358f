package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the stored save and start over",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetForce {
		fmt.Print("This deletes all progress, chat logs and notebooks. Continue? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	gateway, err := openGateway(newLogger())
	if err != nil {
		return err
	}
	defer gateway.Close()

	if err := gateway.Delete(); err != nil {
		return err
	}
	fmt.Println("Save deleted.")
	return nil
}
