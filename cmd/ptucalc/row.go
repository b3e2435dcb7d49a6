package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/set-night/ptucalc/internal/domain"
	"github.com/set-night/ptucalc/internal/pricing"
)

// workloadFlags are the flags shared by row and evaluate.
type workloadFlags struct {
	input  int
	output int
	rpm    int
	model  string
	ptu    float64
	term   string
	price  float64
}

func (f *workloadFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.input, "input", 0, "Input text tokens per request")
	cmd.Flags().IntVar(&f.output, "output", 0, "Output tokens per request")
	cmd.Flags().IntVar(&f.rpm, "rpm", 0, "Requests per minute")
	cmd.Flags().StringVar(&f.model, "model", "", "Model name from the catalog")
	cmd.Flags().Float64Var(&f.ptu, "ptu", 0, "Required PTU count, overrides the capacity formula")
	cmd.Flags().StringVar(&f.term, "term", "monthly", "Commitment term: monthly or yearly")
	cmd.Flags().Float64Var(&f.price, "price", 0, "PTU price per unit, overrides the catalog price")

	for _, name := range []string{"input", "output", "rpm", "model"} {
		cmd.MarkFlagRequired(name)
	}
}

// request builds the engine request from the parsed flags.
func (f *workloadFlags) request(cmd *cobra.Command, a *app, w domain.WorkloadSpec) (pricing.Request, error) {
	model, err := a.lookupModel(cmd.Context(), f.model)
	if err != nil {
		return pricing.Request{}, err
	}
	term, err := a.term(f.term, cmd.Flags().Changed("term"))
	if err != nil {
		return pricing.Request{}, err
	}

	w.InputTextTokens = f.input
	w.OutputTokens = f.output
	w.RequestsPerMinute = f.rpm

	req := pricing.Request{Model: model, Term: term, Workload: w}
	if cmd.Flags().Changed("ptu") {
		req.RequiredUnits = &f.ptu
	}
	if cmd.Flags().Changed("price") {
		req.PricePerUnit = &f.price
	}
	return req, nil
}

func rowCmd(a *app) *cobra.Command {
	var f workloadFlags

	cmd := &cobra.Command{
		Use:   "row",
		Short: "Print one comparison row for a text workload",
		Example: `  ptucalc row --input 3500 --output 300 --rpm 60 --model google-gemini-1.5-pro-002
  ptucalc row --input 1000 --output 100 --rpm 60 --model azure-gpt-4o --term yearly --ptu 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request(cmd, a, domain.WorkloadSpec{})
			if err != nil {
				return err
			}
			result, err := pricing.Evaluate(req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.renderer().Table([]domain.ComparisonResult{result}))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func evaluateCmd(a *app) *cobra.Command {
	var (
		f        workloadFlags
		cache    float64
		images   []string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a workload with cache hits and images",
		Example: `  ptucalc evaluate --input 1000 --output 100 --rpm 60 --model azure-gpt-4o \
      --cache-hit-rate 40 --image 1024x1024:high --image 512x512:low --detailed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := domain.WorkloadSpec{CacheHitRate: cache}
			for _, s := range images {
				img, err := domain.ParseImage(s)
				if err != nil {
					return err
				}
				w.Images = append(w.Images, img)
			}

			req, err := f.request(cmd, a, w)
			if err != nil {
				return err
			}
			ex, err := pricing.Explain(req)
			if err != nil {
				return err
			}

			r := a.renderer()
			out := cmd.OutOrStdout()
			fmt.Fprint(out, r.Card(ex.Result))
			if detailed {
				fmt.Fprintln(out)
				fmt.Fprint(out, r.Breakdown(ex))
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().Float64Var(&cache, "cache-hit-rate", 0, "Share of input text tokens served from cache, in percent")
	cmd.Flags().StringArrayVar(&images, "image", nil, "Image per request as WIDTHxHEIGHT:low|high (repeatable)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "Print the cost formulas")
	return cmd
}
