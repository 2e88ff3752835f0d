package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "alpha-seek",
	Short: "A CLI for managing the Alpha Seek services",
	Long:  `Alpha Seek delivers scheduled portfolio briefings: news research, market data, AI-written verdicts and an emailed report per subscribed user.`,
}

func main() {

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
