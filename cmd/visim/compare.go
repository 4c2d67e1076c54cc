package main

import (
	"fmt"
	"os"
	"sync"
	"text/tabwriter"

	"github.com/WIZARDISHUNGRY/visim/internal/impairment"
	"github.com/WIZARDISHUNGRY/visim/internal/resize"
	"github.com/WIZARDISHUNGRY/visim/internal/similarity"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

var compareCmd = &cobra.Command{
	Use:   "compare [file]",
	Short: "Rank impairments by how much they perceptually change an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().Int("dim", similarity.DefaultDim, "Perceptual hash side length")
	rootCmd.AddCommand(compareCmd)
}

type comparison struct {
	kind impairment.Kind
	dist int
}

func runCompare(cmd *cobra.Command, args []string) error {
	dim, _ := cmd.Flags().GetInt("dim")
	f, err := os.Open(args[0])
	if err != nil {
		return errors.Wrap(err, "reading input")
	}
	defer f.Close()
	src, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return errors.Wrap(err, args[0])
	}
	scorer, err := similarity.NewScorer(resize.Fit(src, resize.MaxDimension), dim)
	if err != nil {
		return err
	}

	var (
		mu      sync.Mutex
		results []comparison
	)
	g, ctx := errgroup.WithContext(cmd.Context())
	for _, kind := range impairment.Selectable() {
		kind := kind
		g.Go(func() error {
			img, err := svc.TransformImage(ctx, src, kind)
			if err != nil {
				return errors.Wrap(err, kind.String())
			}
			dist, err := scorer.Distance(ctx, img)
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, comparison{kind, dist})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slices.SortFunc(results, func(a, b comparison) bool {
		if a.dist != b.dist {
			return a.dist > b.dist
		}
		return a.kind < b.kind
	})
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d/%d\n", r.kind, r.dist, scorer.Bits())
	}
	return w.Flush()
}
