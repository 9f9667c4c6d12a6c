package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-barber/pkg/model"
)

type listEntry struct {
	CopyModel    model.TypeID `json:"copyModel"`
	DocumentSpec model.TypeID `json:"documentSpec"`
	Fields       []string     `json:"fields"`
	Origin       string       `json:"origin"`
}

func newListCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every installed copy model and document spec pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.barber(cmd.Context())
			if err != nil {
				return err
			}
			catalog, err := b.AllRenderers()
			if err != nil {
				return err
			}

			entries := make([]listEntry, 0, catalog.Len())
			for key, renderer := range catalog.All() {
				dc, _ := b.Templates().Lookup(key.CopyModel)
				var fields []string
				for _, field := range renderer.Spec() {
					fields = append(fields, field.Name)
				}
				entries = append(entries, listEntry{
					CopyModel:    key.CopyModel,
					DocumentSpec: key.DocumentSpec,
					Fields:       fields,
					Origin:       dc.Origin,
				})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No document copies installed.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "COPY MODEL\tDOCUMENT SPEC\tORIGIN")
			for _, entry := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", entry.CopyModel, entry.DocumentSpec, entry.Origin)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output in JSON format")
	return cmd
}
