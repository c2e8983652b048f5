package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"nigaran-engine/internal/config"
	"nigaran-engine/internal/domain"
	"nigaran-engine/internal/listing"
	"nigaran-engine/internal/secrets"
	"nigaran-engine/internal/store"
)

func (o *rootOptions) openStore(ctx context.Context, cfg config.Config) (*store.DB, error) {
	log, err := o.logger(cfg)
	if err != nil {
		return nil, err
	}
	db, err := store.Open(store.Options{
		Driver: cfg.Store.Driver,
		Path:   cfg.DBPath(o.dataDir),
		DSN:    cfg.Store.DSN,
	}, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.loadConfig()
			if err != nil {
				return err
			}
			db, err := opts.openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			v, err := db.Version(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d (%s)\n", v, cfg.Store.Driver)
			return nil
		},
	}
}

type exporter func(ctx context.Context, db *store.DB, w io.Writer, term, category string) error

func exportWith[R any](res listing.Resource[R], list func(context.Context, *store.DB) ([]R, error)) exporter {
	return func(ctx context.Context, db *store.DB, w io.Writer, term, category string) error {
		items, err := list(ctx, db)
		if err != nil {
			return err
		}
		return res.Export(w, items, term, category)
	}
}

var exporters = map[string]exporter{
	"leads": exportWith(listing.Leads, func(ctx context.Context, db *store.DB) ([]domain.Lead, error) {
		return db.Leads().List(ctx)
	}),
	"testimonials": exportWith(listing.Testimonials, func(ctx context.Context, db *store.DB) ([]domain.Testimonial, error) {
		return db.Testimonials().List(ctx)
	}),
	"blogs": exportWith(listing.Blogs, func(ctx context.Context, db *store.DB) ([]domain.Blog, error) {
		return db.Blogs().List(ctx)
	}),
	"careers": exportWith(listing.Careers, func(ctx context.Context, db *store.DB) ([]domain.Career, error) {
		return db.Careers().List(ctx)
	}),
	"applications": exportWith(listing.Applications, func(ctx context.Context, db *store.DB) ([]domain.ApplicationView, error) {
		return db.Applications().ListViews(ctx)
	}),
}

func exportNames() []string {
	names := make([]string, 0, len(exporters))
	for n := range exporters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var term, category, out string
	cmd := &cobra.Command{
		Use:       "export <resource>",
		Short:     "Write a resource table as CSV",
		Long:      "Write a resource table as CSV. Resources: " + strings.Join(exportNames(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: exportNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			export, ok := exporters[args[0]]
			if !ok {
				return fmt.Errorf("unknown resource %q (want one of %s)", args[0], strings.Join(exportNames(), ", "))
			}
			cfg, _, err := opts.loadConfig()
			if err != nil {
				return err
			}
			db, err := opts.openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return export(cmd.Context(), db, w, term, category)
		},
	}
	cmd.Flags().StringVar(&term, "q", "", "search term")
	cmd.Flags().StringVar(&category, "category", "", "category tab, e.g. residential or commercial for leads")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage secrets in the OS keychain",
		Long:  "Manage secrets in the OS keychain. Names: " + strings.Join(secrets.Names, ", "),
	}

	set := &cobra.Command{
		Use:   "set <name>",
		Short: "Store a secret; the value is read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && err != io.EOF {
				return err
			}
			if err := secrets.Set(args[0], strings.TrimSpace(line)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", args[0])
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a secret from the keychain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := secrets.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(set, del)
	return cmd
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the engine configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config with credentials masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := opts.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", path)
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg.Redacted())
		},
	}

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check the config file and report warnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, path, err := opts.loadConfig()
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			_, vr := config.NormalizeAndValidate(cfg)
			for _, w := range vr.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s ok\n", path)
			return nil
		},
	}

	cmd.AddCommand(show, validate)
	return cmd
}
