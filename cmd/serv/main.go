package main

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/treansai/traidano/internal"
)

var (
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "traidano",
	Short: "Traidano - automated trading bot supervisor for Alpaca markets",
	Long:  ``,
	RunE: func(cmd *cobra.Command, args []string) error {
		return internal.Run(configFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "path to config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
