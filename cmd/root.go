// Package cmd implements the exprsense command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/exprsense/internal/completion"
	"github.com/oakwood-commons/exprsense/internal/config"
	"github.com/oakwood-commons/exprsense/internal/fixture"
	"github.com/oakwood-commons/exprsense/internal/index"
	"github.com/oakwood-commons/exprsense/internal/symbol"
	"github.com/oakwood-commons/exprsense/pkg/catalog"
	"github.com/oakwood-commons/exprsense/pkg/logger"
	"github.com/oakwood-commons/exprsense/pkg/settings"
)

// errNoCatalog is returned by commands that need an index when neither
// --catalog nor --sample was given.
var errNoCatalog = errors.New("no catalog given: pass --catalog FILE (repeatable) or --sample")

// rootOptions holds the persistent flags and the state PersistentPreRunE
// derives from them.
type rootOptions struct {
	configFile  string
	logLevel    string
	noColor     bool
	quiet       bool
	interactive bool
	catalogs    []string
	sample      bool
	imports     []string
	locals      []string

	cfg config.Config
	run *settings.Run
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	root := &cobra.Command{
		Use:   settings.CliBinaryName,
		Short: "Symbol index and expression completion over type catalogs",
		Long: settings.CliBinaryName + ` indexes type catalogs (namespaces, types and their members, described
in YAML, JSON or TOML) and completes partially typed expressions against them.

Completion opens after "." or on Ctrl+Space, scoped by imported namespaces
and by typed local variables.`,
		Example: `
  exprsense complete --catalog testdata/imaging.yaml --local img=Emgu.CV.Image img
  exprsense complete --sample --import System.Collections.Generic --trigger ctrl-space "new Dictio"
  exprsense describe --sample System.String.Substring
  exprsense symbols --sample --where 'kind == "Property"' -o table
  exprsense docs --catalog testdata/imaging.yaml --format html > api.html
  exprsense -i --sample --local img=Emgu.CV.Image`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       cliVersionString(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if o.interactive {
				return runEdit(cmd, o, &editOptions{})
			}
			return cmd.Help()
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&o.configFile, "config-file", "", "path to a YAML config file merged over the defaults")
	pf.StringVar(&o.logLevel, "log-level", "info", "log level: info, debug, trace or a zap level number")
	pf.BoolVar(&o.noColor, "no-color", false, "disable color output")
	pf.BoolVarP(&o.quiet, "quiet", "q", false, "suppress informational messages on stderr")
	pf.StringArrayVarP(&o.catalogs, "catalog", "c", nil, "type catalog file (.yaml, .json, .toml); repeatable")
	pf.BoolVar(&o.sample, "sample", false, "use the built-in sample catalog")
	pf.StringArrayVar(&o.imports, "import", nil, "imported namespace searched by unqualified names; repeatable")
	pf.StringArrayVar(&o.locals, "local", nil, "local variable as name=Type; repeatable")
	root.Flags().BoolVarP(&o.interactive, "interactive", "i", false, "open the interactive editor")

	root.AddCommand(
		newCompleteCmd(o),
		newDescribeCmd(o),
		newSymbolsCmd(o),
		newDocsCmd(o),
		newEditCmd(o),
		newConfigCmd(o),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration, builds the logger and stores both in the
// command context.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	level, err := parseLogLevel(o.logLevel)
	if err != nil {
		return err
	}
	lgr := logger.Get(level)
	lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

	path := resolveConfigPath(o.configFile)
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	o.cfg = cfg

	run := settings.NewCliParams()
	run.MinLogLevel = level
	run.IsQuiet = o.quiet
	run.NoColor = o.noColor || cfg.UI.NoColor || os.Getenv("NO_COLOR") != ""
	run.Source.ConfigFile = path
	o.run = run

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx := logger.WithLogger(parent, lgr)
	ctx = settings.IntoContext(ctx, run)
	cmd.SetContext(ctx)
	lgr.V(1).Info("configuration loaded", "configFile", path)
	return nil
}

// parseLogLevel maps a level name or number to a zap level; negative is
// more verbose.
func parseLogLevel(s string) (int8, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return 0, nil
	case "debug":
		return -1, nil
	case "trace":
		return -2, nil
	case "warn", "warning":
		return 1, nil
	case "error":
		return 2, nil
	}
	n, err := strconv.ParseInt(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid --log-level %q: want info, debug, trace, warn, error or a number", s)
	}
	return int8(n), nil
}

// resolveConfigPath returns the explicit config file if set, otherwise the
// XDG path ($XDG_CONFIG_HOME/exprsense/config.yaml) or
// ~/.config/exprsense/config.yaml if present.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	candidate := ""
	if xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// loadCatalog reads the --catalog files, or the sample catalog.
func (o *rootOptions) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	switch {
	case len(o.catalogs) > 0:
		c, err := catalog.LoadFiles(ctx, o.catalogs...)
		if err != nil {
			return nil, err
		}
		if o.sample {
			c = catalog.Merge(c, fixture.Catalog())
		}
		return c, nil
	case o.sample:
		return fixture.Catalog(), nil
	}
	return nil, errNoCatalog
}

func (o *rootOptions) indexOptions() index.Options {
	return index.Options{
		IgnoreNamespaces: o.cfg.IgnoreNamespaces(),
		AllowAbstract:    o.cfg.Index.AllowAbstract,
	}
}

// service loads the catalogs and starts the index build behind a service.
func (o *rootOptions) service(ctx context.Context) (*completion.Service, *index.Future, error) {
	cat, err := o.loadCatalog(ctx)
	if err != nil {
		return nil, nil, err
	}
	f := index.BuildAsync(ctx, cat.Types, o.indexOptions())
	svc := completion.NewService(f, completion.WithSessionPageStep(o.cfg.UI.PageStep))
	return svc, f, nil
}

// sessionConfig merges configured and flag-given imports and locals.
// Flag locals come first so they shadow configured ones of the same name.
func (o *rootOptions) sessionConfig() (completion.SessionConfig, error) {
	scfg := completion.SessionConfig{
		Imports: append(append([]string(nil), o.imports...), o.cfg.Session.Imports...),
	}
	for _, s := range o.locals {
		l, err := config.ParseLocal(s)
		if err != nil {
			return scfg, err
		}
		scfg.Locals = append(scfg.Locals, completion.NamedLocal(l.Name, l.Type))
	}
	for _, l := range o.cfg.Session.Locals {
		scfg.Locals = append(scfg.Locals, completion.NamedLocal(l.Name, l.Type))
	}
	return scfg, nil
}

// tree waits for the index and reports what the build kept.
func (o *rootOptions) tree(cmd *cobra.Command, f *index.Future) (*symbol.Tree, error) {
	t, err := f.Wait(cmd.Context())
	if err != nil {
		return nil, err
	}
	if r := f.Report(); r != nil && (r.Filtered > 0 || len(r.Skipped) > 0) {
		o.info(cmd, "indexed %d types (%d filtered, %d skipped)", r.Types, r.Filtered, len(r.Skipped))
	}
	return t, nil
}

// info prints an informational line to stderr unless --quiet is set.
func (o *rootOptions) info(cmd *cobra.Command, format string, args ...any) {
	if o.quiet {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}
