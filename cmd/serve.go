package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kokorolabs/soulscope/internal/server"
	"github.com/kokorolabs/soulscope/pkg/masterdata"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the diagnosis HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := dataConfig(cmd)
		if v, _ := cmd.Flags().GetString("reload"); v != "" {
			cfg.Reload = v
		}

		listenAddr, _ := cmd.Flags().GetString("listen")
		if listenAddr == "" {
			listenAddr = viper.GetString("server.listen")
		}

		store := masterdata.NewStore(cfg)
		if cfg.Reload != masterdata.ReloadAlways {
			// Load-once policy: fail fast at startup instead of on
			// the first request.
			if _, err := store.Tables(); err != nil {
				return err
			}
		}

		return server.New(store).Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addDataFlags(serveCmd)
	serveCmd.Flags().String("listen", "", "HTTP listen address (overrides server.listen)")
	serveCmd.Flags().String("reload", "", "Master data reload policy: once or always (overrides data.reload)")
}
