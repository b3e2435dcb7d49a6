package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/set-night/ptucalc/internal/repository"
)

func catalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect, validate and replace the price catalog",
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "List catalog models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			t := table.New().
				Border(lipgloss.ASCIIBorder()).
				Headers("Model Name", "Family", "Min PTU", "Monthly", "Yearly", "Cache")
			for _, m := range catalog.Models() {
				e := m.Entry
				cache := "-"
				if e.SupportsCache() {
					cache = strconv.FormatFloat(*e.CachedInputPrice, 'f', -1, 64)
				}
				t.Row(
					e.Name,
					m.Family.String(),
					strconv.Itoa(e.MinDeploymentUnit),
					strconv.FormatFloat(e.PriceMonthly, 'f', 2, 64),
					strconv.FormatFloat(e.PriceYearly, 'f', 2, 64),
					cache,
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a catalog file without installing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := repository.CodecFor(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			entries, err := repository.ParseCatalog(codec, data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d models OK\n", args[0], len(entries))
			return nil
		},
	}

	replaceCmd := &cobra.Command{
		Use:   "replace FILE",
		Short: "Validate a catalog file and atomically install it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			catalog, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			models, err := catalog.Replace(cmd.Context(), args[0], data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog %s replaced: %d models\n", a.store.Path(), len(models))
			return nil
		},
	}

	cmd.AddCommand(modelsCmd, validateCmd, replaceCmd)
	return cmd
}
