package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/yanizio/adept-forms/internal/form"
	"github.com/yanizio/adept-forms/internal/locale"
	"github.com/yanizio/adept-forms/internal/store"
)

func renderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render [base-dir] [form-id]",
		Short: "Print the initial markup of one form",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := form.FindFormDefs(args[:1])
			if err != nil {
				return err
			}
			var fd *form.FormDef
			for _, d := range defs {
				if d.ID == args[1] {
					fd = d
					break
				}
			}
			if fd == nil {
				return fmt.Errorf("form %q not found under %s", args[1], args[0])
			}

			tag, err := language.Parse(lang)
			if err != nil {
				return fmt.Errorf("--lang: %w", err)
			}

			b, err := fd.Build(store.New())
			if err != nil {
				return err
			}
			return form.RenderForm(cmd.OutOrStdout(), b, form.FormView{
				Action:        "/forms/" + fd.ID,
				SubmitLabel:   fd.Submit,
				RenderContext: form.RenderContext{Translate: locale.Translator(tag)},
			})
		},
	}
}
