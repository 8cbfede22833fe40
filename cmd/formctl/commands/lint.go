package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanizio/adept-forms/internal/form"
)

func lintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint [base-dir...]",
		Short: "Parse every form definition and report problems",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := form.FormFiles(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ids := make(map[string]string)
			var bad int
			for _, path := range files {
				fd, err := form.LoadFormDef(path)
				if err != nil {
					bad++
					fmt.Fprintf(out, "FAIL %v\n", err)
					continue
				}
				if prev, dup := ids[fd.ID]; dup {
					fmt.Fprintf(out, "WARN %s: id %q already defined in %s, ignored\n", path, fd.ID, prev)
					continue
				}
				ids[fd.ID] = path
				fmt.Fprintf(out, "ok   %s (%s, %d fields)\n", path, fd.ID, len(fd.Fields))
			}

			if bad > 0 {
				return fmt.Errorf("%d of %d definitions failed", bad, len(files))
			}
			fmt.Fprintf(out, "%d definitions ok\n", len(files))
			return nil
		},
	}
}
