// mazectl inspects levelpacks and play progress without opening a window.
//
// Usage:
//
//	mazectl validate <pack>...   - Check levelpacks for errors
//	mazectl simulate             - Run a level headless and print the outcome
//	mazectl progress             - Show recorded progress for a levelpack
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	flagDBPath   string
	flagLogLevel string

	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "mazectl"})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mazectl",
	Short: "Tools for tiltmaze levelpacks",
	Long: `mazectl validates levelpacks, runs levels headless and shows
recorded play progress.

Examples:
  mazectl validate main mypack.levelpack.json
  mazectl simulate --level 2 --tilt 0.4,-0.2 --steps 600
  mazectl progress --pack main`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(lvl)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tiltmaze/progress.db", "Path to progress database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(progressCmd)
}
