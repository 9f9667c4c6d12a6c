package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-barber/pkg/model"
	"github.com/goliatone/go-barber/pkg/render"
)

func newRenderCommand(a *app) *cobra.Command {
	var (
		copyModel   string
		target      string
		dataPath    string
		sets        []string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render copy data into a document spec and print it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			b, err := a.barber(ctx)
			if err != nil {
				return err
			}

			prompt := interactive && a.isTerminal()
			if copyModel == "" {
				if !prompt {
					return errors.New("cli: --model is required")
				}
				copyModel, err = a.prompter.Select(ctx, "Copy model", typeNames(b.Templates().Sources()))
				if err != nil {
					return err
				}
			}
			if target == "" {
				dc, ok := b.Templates().Lookup(model.TypeID(copyModel))
				if !ok {
					return &render.UnboundCopyModelError{CopyModel: model.TypeID(copyModel)}
				}
				if !prompt {
					return errors.New("cli: --target is required")
				}
				target, err = a.prompter.Select(ctx, "Document spec", typeNames(dc.Targets))
				if err != nil {
					return err
				}
			}

			values, err := readValues(dataPath, sets)
			if err != nil {
				return err
			}

			out, err := b.Render(ctx, model.Copy{Type: model.TypeID(copyModel), Values: values}, model.TypeID(target))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&copyModel, "model", "m", "", "copy model to render")
	flags.StringVarP(&target, "target", "t", "", "document spec to render into")
	flags.StringVarP(&dataPath, "data", "d", "", "JSON file holding the copy values (- for stdin)")
	flags.StringArrayVar(&sets, "set", nil, "copy value as key=value; repeatable, wins over --data")
	flags.BoolVar(&interactive, "interactive", true, "prompt for a missing model or target when stdin is a terminal")
	return cmd
}

func readValues(path string, sets []string) (map[string]any, error) {
	values := map[string]any{}

	if path != "" {
		var (
			data []byte
			err  error
		)
		if path == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			return nil, fmt.Errorf("cli: read data: %w", err)
		}
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("cli: parse data %s: %w", path, err)
		}
	}

	for _, set := range sets {
		key, value, ok := strings.Cut(set, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("cli: --set %q: want key=value", set)
		}
		values[key] = value
	}
	return values, nil
}

func typeNames(ids []model.TypeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func newJSONEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc
}
