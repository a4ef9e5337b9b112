package cmd

import (
	"fmt"
	"os"

	"github.com/kokorolabs/soulscope/internal/utils"
	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `	                 _
	 ___  ___  _   _| |___  ___ ___  _ __   ___
	/ __|/ _ \| | | | / __|/ __/ _ \| '_ \ / _ \
	\__ \ (_) | |_| | \__ \ (_| (_) | |_) |  __/
	|___/\___/ \__,_|_|___/\___\___/| .__/ \___|
	                                |_|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "soulscope",
	Short: "Birthdate → dragon head zodiac → soul theme lookup service.",
	Long: LOGO + `soulscope resolves a birthdate into its dragon head zodiac and the
matching soul/reverse theme codes, using externally maintained master
files only. It carries no astrology knowledge of its own.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.soulscope.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".soulscope")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.soulscope.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// The master files are owned and maintained outside this repo;
	// these defaults only say where operators usually mount them.
	viper.SetDefault("data.ranges", "data/dragon_head_ranges.json")
	viper.SetDefault("data.mapping", "data/zodiac_theme_map.json")
	viper.SetDefault("data.reload", "once")
	viper.SetDefault("server.listen", ":8080")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
