package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yuhnmomo/magictrain/internal/catalog"
	"github.com/yuhnmomo/magictrain/internal/relationship"
	"github.com/yuhnmomo/magictrain/internal/save"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "List every passenger and your standing with them",
	RunE:  runRoster,
}

func init() {
	rootCmd.AddCommand(rosterCmd)
}

func runRoster(cmd *cobra.Command, args []string) error {
	cat, err := catalog.New(catalog.FirstChooser)
	if err != nil {
		return fmt.Errorf("loading character catalog: %w", err)
	}

	scores := map[string]float64{}
	gateway, err := openGateway(newLogger())
	if err == nil {
		defer gateway.Close()
		switch doc, err := gateway.Load(); {
		case err == nil:
			scores = doc.Favorability
		case errors.Is(err, save.ErrNoSave):
		default:
			return err
		}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tFAVORABILITY\tLEVEL")
	for _, ch := range cat.All() {
		score := scores[ch.ID]
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%s\n", ch.ID, ch.Name, score, relationship.LevelOf(score).Label())
	}
	return w.Flush()
}
