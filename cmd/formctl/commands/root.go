// Package commands implements formctl, the offline companion of cmd/web:
// it checks YAML form definitions and prints the markup they render to.
package commands

import (
	"github.com/spf13/cobra"
)

var lang string

// Execute runs the root command against os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "formctl",
		Short:         "Inspect YAML form definitions",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&lang, "lang", "en", "language for rendered messages (en, ru)")

	root.AddCommand(lintCmd(), renderCmd())
	return root
}
