// Package main provides the ptucalc command-line tool.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	ptucalc "github.com/set-night/ptucalc"
	"github.com/set-night/ptucalc/internal/config"
	"github.com/set-night/ptucalc/internal/domain"
	"github.com/set-night/ptucalc/internal/render"
	"github.com/set-night/ptucalc/internal/repository"
	"github.com/set-night/ptucalc/internal/service"
)

type app struct {
	cfg         *config.Config
	catalogPath string
	noColor     bool
	stderr      io.Writer

	store   *repository.CatalogStore
	catalog *service.CatalogService
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ptucalc:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "ptucalc",
		Short: "Compare pay-as-you-go and provisioned throughput costs of LLM workloads",
		Long: `ptucalc estimates the monthly cost of an LLM workload under metered
per-token billing and under provisioned throughput units (PTU), using the
prices of a local model catalog.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.stderr = cmd.ErrOrStderr()
			slog.SetDefault(cfg.NewLogger(cmd.ErrOrStderr()))

			if !cmd.Flags().Changed("catalog") {
				a.catalogPath = cfg.CatalogPath
			}
			if a.noColor {
				color.NoColor = true
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.catalogPath, "catalog", "model_config.json", "Price catalog file (.json, .yaml or .toml)")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable coloured output")

	root.AddCommand(
		rowCmd(a),
		evaluateCmd(a),
		imageTokensCmd(a),
		catalogCmd(a),
	)
	return root
}

// loadCatalog opens the catalog store, writing the built-in catalog first
// when the file does not exist yet. The write is reported on stderr.
func (a *app) loadCatalog(ctx context.Context) (*service.CatalogService, error) {
	if a.catalog != nil {
		return a.catalog, nil
	}
	store, err := repository.NewCatalogStore(a.catalogPath)
	if err != nil {
		return nil, err
	}
	created, err := store.Bootstrap(ctx, ptucalc.DefaultCatalog)
	if err != nil {
		return nil, err
	}
	if created && a.stderr != nil {
		fmt.Fprintf(a.stderr, "ptucalc: no catalog at %s, wrote the built-in one\n", a.catalogPath)
	}
	catalog := service.NewCatalogService(store)
	if err := catalog.Reload(ctx); err != nil {
		return nil, err
	}
	a.store, a.catalog = store, catalog
	return catalog, nil
}

// lookupModel resolves --model, listing the catalog on a miss.
func (a *app) lookupModel(ctx context.Context, name string) (domain.Model, error) {
	catalog, err := a.loadCatalog(ctx)
	if err != nil {
		return domain.Model{}, err
	}
	m, err := catalog.Lookup(name)
	if err != nil {
		return domain.Model{}, fmt.Errorf("%w (available: %s)", err, strings.Join(catalog.Names(), ", "))
	}
	return m, nil
}

func (a *app) renderer() *render.Renderer {
	return render.New(!a.noColor)
}

func (a *app) term(value string, changed bool) (domain.Term, error) {
	if !changed {
		return a.cfg.Term(), nil
	}
	return domain.ParseTerm(value)
}
