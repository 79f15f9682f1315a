package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdialog/internal/logging"
	"github.com/goliatone/go-formdialog/pkg/config"
	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/options"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	dir         string
	logLevel    string
	optionsFile string
	logger      *zap.Logger
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "formdialog",
		Short: "Configuration-driven dialogs and wizards",
		Long: `Load dialog definitions from JSON or YAML files and run them.

Definitions live under --dir. A file either describes one dialog, named
after the file, or several under a top-level "dialogs" map.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(g.logLevel)
			if err != nil {
				return err
			}
			g.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if g.logger != nil {
				_ = g.logger.Sync()
			}
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringVar(&g.dir, "dir", ".", "Directory holding dialog definitions")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to $"+logging.LogLevelEnvVar)
	root.PersistentFlags().StringVar(&g.optionsFile, "options", "", "YAML or JSON file mapping option source names to option lists")

	root.AddCommand(
		newListCmd(g),
		newValidateCmd(g),
		newRunCmd(g),
		newStepsCmd(g),
		newOpenAPICmd(g),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "formdialog %s\n", version)
		},
	}
}

func (g *globals) store() (*config.Store, error) {
	store, err := config.LoadFS(os.DirFS(g.dir))
	if err != nil {
		return nil, err
	}
	if store.Empty() {
		return nil, fmt.Errorf("no dialog definitions found in %s", g.dir)
	}
	return store, nil
}

func (g *globals) dialog(name string) (model.Dialog, error) {
	store, err := g.store()
	if err != nil {
		return model.Dialog{}, err
	}
	def, ok := store.Dialog(name)
	if !ok {
		return model.Dialog{}, fmt.Errorf("dialog %q not found (available: %s)", name, strings.Join(store.Names(), ", "))
	}
	return def, nil
}

// optionSource routes named sources to the --options file and URL sources
// to HTTP.
func (g *globals) optionSource() (options.Source, error) {
	router := options.Router{HTTP: options.NewHTTPSource(nil)}
	if g.optionsFile == "" {
		return router, nil
	}
	data, err := os.ReadFile(g.optionsFile)
	if err != nil {
		return nil, fmt.Errorf("read options: %w", err)
	}
	static := options.Static{}
	if err := yaml.Unmarshal(data, &static); err != nil {
		return nil, fmt.Errorf("parse options %s: %w", g.optionsFile, err)
	}
	router.Static = static
	return router, nil
}

// parseAssignments turns id=value pairs into typed values. Values are read
// as YAML scalars or flow sequences, so "true", "42" and "[a, b]" keep their
// types.
func parseAssignments(pairs []string) (map[string]any, []string, error) {
	values := make(map[string]any, len(pairs))
	order := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		id, raw, ok := strings.Cut(pair, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, nil, fmt.Errorf("invalid assignment %q, expected id=value", pair)
		}
		var value any
		if strings.TrimSpace(raw) != "" {
			if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
				value = raw
			}
		}
		if _, seen := values[id]; !seen {
			order = append(order, id)
		}
		values[id] = value
	}
	return values, order, nil
}
