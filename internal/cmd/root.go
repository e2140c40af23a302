package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/m3hr4nn/logboss/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "logboss",
	Short: "logboss: privileged command extraction from log archives",
	Long: `logboss scans a directory tree of plain, gzip and bzip2 log files for
lines containing configured command tokens (systemctl, reboot, shutdown, ...)
and writes every matching line, with its timestamp and source file, to a CSV
report for audit.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.logboss.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: console, json")

	_ = viper.BindPFlags(rootCmd.PersistentFlags())
	config.SetDefaults(viper.GetViper())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".logboss")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("logboss")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && cfgFile != "" {
			cobra.CheckErr(err)
		}
	}
}
