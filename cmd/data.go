package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kokorolabs/soulscope/pkg/masterdata"
)

// addDataFlags registers the master-data source flags shared by every
// command that loads the tables.
func addDataFlags(cmd *cobra.Command) {
	cmd.Flags().String("ranges", "", "Path or URL of the dragon head range table (overrides data.ranges)")
	cmd.Flags().String("mapping", "", "Path or URL of the zodiac theme mapping (overrides data.mapping)")
}

// dataConfig resolves the master-data sources from config, with flag
// overrides taking precedence.
func dataConfig(cmd *cobra.Command) masterdata.Config {
	cfg := masterdata.Config{
		Ranges:  viper.GetString("data.ranges"),
		Mapping: viper.GetString("data.mapping"),
		Reload:  viper.GetString("data.reload"),
	}
	if v, _ := cmd.Flags().GetString("ranges"); v != "" {
		cfg.Ranges = v
	}
	if v, _ := cmd.Flags().GetString("mapping"); v != "" {
		cfg.Mapping = v
	}
	return cfg
}
