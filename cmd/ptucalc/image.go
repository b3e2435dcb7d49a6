package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/set-night/ptucalc/internal/domain"
	"github.com/set-night/ptucalc/internal/pricing"
)

func imageTokensCmd(a *app) *cobra.Command {
	var (
		model  string
		input  int
		images []string
	)

	cmd := &cobra.Command{
		Use:     "image-tokens",
		Short:   "Estimate the tokens the images of one request cost",
		Example: `  ptucalc image-tokens --model azure-gpt-4o --image 2048x4096:high --image 640x480:low`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.lookupModel(cmd.Context(), model)
			if err != nil {
				return err
			}

			w := domain.WorkloadSpec{InputTextTokens: input}
			for _, s := range images {
				img, err := domain.ParseImage(s)
				if err != nil {
					return err
				}
				w.Images = append(w.Images, img)
			}

			out := cmd.OutOrStdout()
			if m.Family != domain.FamilyGemini {
				for _, img := range w.Images {
					n, err := pricing.TileTokens(img.Width, img.Height, img.Quality, m.TileClass())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%-16s %d\n", img, n)
				}
			}

			total, err := pricing.ImageTokens(m, w)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "total (%s) %d\n", m.Family, total)
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Model name from the catalog")
	cmd.Flags().IntVar(&input, "input", 0, "Input text tokens per request (selects the long-context tier)")
	cmd.Flags().StringArrayVar(&images, "image", nil, "Image as WIDTHxHEIGHT:low|high (repeatable)")
	cmd.MarkFlagRequired("model")
	cmd.MarkFlagRequired("image")
	return cmd
}
