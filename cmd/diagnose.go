package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kokorolabs/soulscope/pkg/dateparse"
	"github.com/kokorolabs/soulscope/pkg/masterdata"
	"github.com/kokorolabs/soulscope/pkg/zodiac"
)

// diagnoseCmd represents the diagnose command
var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <birthdate>",
	Short: "Resolve a birthdate into its dragon head zodiac and themes",
	Long: `Resolve a birthdate into its dragon head zodiac and themes.

The birthdate is accepted in any supported format, for example
1970-07-24, 1970/7/24, 19700724 or 1970年7月24日.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateparse.Normalize(args[0])
		if err != nil {
			return err
		}

		tables, err := masterdata.Load(dataConfig(cmd))
		if err != nil {
			return err
		}

		diagnosis, err := zodiac.Resolve(date, tables)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintf(w, "BIRTHDATE\t%s\t\n", date)
		fmt.Fprintf(w, "DRAGON HEAD\t%s\t\n", diagnosis.HeadZodiac)
		fmt.Fprintf(w, "DRAGON TAIL\t%s\t\n", diagnosis.TailZodiac)
		fmt.Fprintf(w, "SOUL THEME\t%s\t\n", diagnosis.SoulTheme)
		fmt.Fprintf(w, "REVERSE THEME\t%s\t\n", diagnosis.ReverseTheme)
		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
	addDataFlags(diagnoseCmd)
}
