package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdialog/pkg/dialog"
	"github.com/goliatone/go-formdialog/pkg/indicator"
	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/openapi"
	"github.com/goliatone/go-formdialog/pkg/render"
	"github.com/goliatone/go-formdialog/pkg/renderers/tui"
)

var errNotResolved = errors.New("dialog did not resolve")

func newListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List dialogs found under --dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := g.store()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTITLE\tSTEPS\tSOURCE")
			for _, name := range store.Names() {
				def, _ := store.Dialog(name)
				steps := 1
				if def.Wizard() {
					steps = len(def.Steps)
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", name, def.Title, steps, store.Source(name))
			}
			return w.Flush()
		},
	}
}

func newValidateCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every definition under --dir",
		Long: `Parse and validate every definition under --dir. Field ids, kinds,
conditions, patterns and button actions are checked; the first problem
is reported with the file it came from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := g.store()
			if err != nil {
				return err
			}
			for _, name := range store.Names() {
				fmt.Fprintf(cmd.OutOrStdout(), "ok  %s (%s)\n", name, store.Source(name))
			}
			return nil
		},
	}
}

type runFlags struct {
	adapter string
	sets    []string
	button  string
}

func newRunCmd(g *globals) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run <dialog>",
		Short: "Run a dialog and print its response as JSON",
		Long: `Run a dialog and print the response as JSON on stdout.

With the tui adapter the dialog is interactive. With the nop adapter the
dialog runs headless: --set assigns field values and --button activates a
button, which is useful for scripting and for checking gating rules.`,
		Example: `  # Interactive
  formdialog run signup --dir ./dialogs

  # Headless
  formdialog run contact --adapter nop --set name=Ada --set email=ada@example.com --button send`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDialog(cmd, g, f, args[0])
		},
	}
	cmd.Flags().StringVar(&f.adapter, "adapter", tui.Name, "Renderer adapter (tui, nop)")
	cmd.Flags().StringArrayVar(&f.sets, "set", nil, "Field assignment id=value (repeatable)")
	cmd.Flags().StringVar(&f.button, "button", "", "Button id or label to activate (headless runs)")
	return cmd
}

func runDialog(cmd *cobra.Command, g *globals, f *runFlags, name string) error {
	def, err := g.dialog(name)
	if err != nil {
		return err
	}
	src, err := g.optionSource()
	if err != nil {
		return err
	}

	registry := render.NewRegistry()
	registry.MustRegister(tui.Name, tui.Factory(tui.WithOutput(cmd.ErrOrStderr())))
	adapter, err := registry.New(f.adapter)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, registry.List())
	}

	d, err := dialog.New(def,
		dialog.WithAdapter(adapter),
		dialog.WithOptionSource(src),
		dialog.WithLogger(g.logger),
	)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var resp model.Response
	if runner, ok := adapter.(*tui.Adapter); ok {
		resp, err = runner.Run(ctx, d)
	} else {
		resp, err = runHeadless(ctx, d, f)
	}
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), resp)
}

// runHeadless opens d, applies the assignments and activates one button.
func runHeadless(ctx context.Context, d *dialog.Dialog, f *runFlags) (model.Response, error) {
	defer d.Close()

	if err := d.Open(ctx); err != nil {
		return model.Response{}, err
	}
	if err := applyAssignments(d, f.sets); err != nil {
		return model.Response{}, err
	}
	d.Flush()

	if f.button == "" {
		return model.Response{}, errors.New("--button is required with a headless adapter")
	}
	if err := d.Click(ctx, f.button); err != nil {
		if errors.Is(err, dialog.ErrButtonDisabled) {
			missing, _ := d.MissingRequired(d.CurrentStep())
			return model.Response{}, fmt.Errorf("%w (missing: %v)", err, missing)
		}
		return model.Response{}, err
	}

	select {
	case <-d.Done():
		return d.Wait(ctx)
	default:
		return model.Response{}, fmt.Errorf("%w: button %q kept it open", errNotResolved, f.button)
	}
}

func applyAssignments(d *dialog.Dialog, sets []string) error {
	values, order, err := parseAssignments(sets)
	if err != nil {
		return err
	}
	for _, id := range order {
		if err := d.SetFieldValue(id, values[id]); err != nil {
			return err
		}
	}
	return nil
}

type stepsFlags struct {
	format string
	step   int
	sets   []string
}

func newStepsCmd(g *globals) *cobra.Command {
	f := &stepsFlags{}
	cmd := &cobra.Command{
		Use:   "steps <dialog>",
		Short: "Render a dialog's step indicator",
		Long: `Render the step indicator of a wizard as text or as an HTML fragment.
--set pre-fills fields and --step selects the current step, so the
complete and incomplete markers can be previewed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := g.dialog(args[0])
			if err != nil {
				return err
			}
			d, err := dialog.New(def, dialog.WithLogger(g.logger))
			if err != nil {
				return err
			}
			defer d.Close()
			if err := d.Open(cmd.Context()); err != nil {
				return err
			}
			if err := applyAssignments(d, f.sets); err != nil {
				return err
			}
			if f.step > 0 {
				if err := d.UpdateProgress(f.step); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			switch f.format {
			case "html":
				html, err := indicator.HTML(d.Markers())
				if err != nil {
					return err
				}
				_, err = io.WriteString(out, html)
				return err
			case "text":
				_, err := fmt.Fprintln(out, indicator.Text(d.Markers()))
				return err
			default:
				return fmt.Errorf("unknown format %q (text, html)", f.format)
			}
		},
	}
	cmd.Flags().StringVar(&f.format, "format", "text", "Output format (text, html)")
	cmd.Flags().IntVar(&f.step, "step", 0, "Current step, 1-based")
	cmd.Flags().StringArrayVar(&f.sets, "set", nil, "Field assignment id=value (repeatable)")
	return cmd
}

type openapiFlags struct {
	operation string
	format    string
	output    string
	validate  bool
	submit    string
	cancel    string
}

func newOpenAPICmd(g *globals) *cobra.Command {
	f := &openapiFlags{}
	cmd := &cobra.Command{
		Use:   "openapi <document>",
		Short: "Generate a dialog definition from an OpenAPI operation",
		Long: `Generate a dialog definition from the request body of an OpenAPI 3
operation. Without --operation the document's operations are listed.
The generated definition can be saved under --dir and run like any other.`,
		Example: `  formdialog openapi api.yaml
  formdialog openapi api.yaml --operation createPet --output dialogs/create_pet.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var opts []openapi.Option
			if f.validate {
				opts = append(opts, openapi.WithValidation())
			}
			opts = append(opts, openapi.WithButtonLabels(f.submit, f.cancel))
			doc, err := openapi.Load(cmd.Context(), data, opts...)
			if err != nil {
				return err
			}

			if f.operation == "" {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "OPERATION\tMETHOD\tPATH\tBODY\tSUMMARY")
				for _, op := range doc.Operations() {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", op.ID, op.Method, op.Path, strconv.FormatBool(op.HasBody), op.Summary)
				}
				return w.Flush()
			}

			def, err := doc.Definition(f.operation)
			if err != nil {
				return err
			}
			g.logger.Debug("generated dialog definition")

			out := cmd.OutOrStdout()
			if f.output != "" {
				file, err := os.Create(f.output)
				if err != nil {
					return err
				}
				defer file.Close()
				out = file
			}
			switch f.format {
			case "json":
				return writeJSON(out, def)
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(def); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("unknown format %q (yaml, json)", f.format)
			}
		},
	}
	cmd.Flags().StringVar(&f.operation, "operation", "", "Operation id to convert")
	cmd.Flags().StringVar(&f.format, "format", "yaml", "Output format (yaml, json)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().BoolVar(&f.validate, "validate", false, "Validate the OpenAPI document first")
	cmd.Flags().StringVar(&f.submit, "submit-label", "", "Submit button label")
	cmd.Flags().StringVar(&f.cancel, "cancel-label", "", "Cancel button label")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
