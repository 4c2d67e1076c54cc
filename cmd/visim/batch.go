package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/WIZARDISHUNGRY/visim/internal/impairment"
	"github.com/WIZARDISHUNGRY/visim/internal/transform"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var batchCmd = &cobra.Command{
	Use:   "batch [file...]",
	Short: "Simulate many images concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().StringP("kind", "k", "", "Impairment id, see list")
	batchCmd.Flags().StringP("dir", "d", ".", "Output directory")
	batchCmd.Flags().IntP("workers", "w", 0, "Worker count, 0 uses VISIM_WORKERS or one per CPU")
	batchCmd.MarkFlagRequired("kind")
	rootCmd.AddCommand(batchCmd)
}

// outputPath names the result after the input and the impairment id.
func outputPath(dir, input string, kind impairment.Kind) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+"_"+kind.String()+".png")
}

func runBatch(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("kind")
	dir, _ := cmd.Flags().GetString("dir")
	workers := cfg.Workers
	if cmd.Flags().Changed("workers") {
		workers, _ = cmd.Flags().GetInt("workers")
	}
	kind := impairment.Parse(id)

	outputs := lo.Map(args, func(input string, _ int) string {
		return outputPath(dir, input, kind)
	})
	if dupes := lo.FindDuplicates(outputs); len(dupes) > 0 {
		return errors.Errorf("inputs collide on output %s", strings.Join(dupes, ", "))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "output dir")
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	bulk := transform.NewBulk(ctx, svc, workers)
	start := time.Now()
	for i := range args {
		input, output := args[i], outputs[i]
		g.Go(func() error {
			data, err := os.ReadFile(input)
			if err != nil {
				return errors.Wrap(err, "reading input")
			}
			out, err := bulk.Transform(ctx, data, id)
			if err != nil {
				return errors.Wrap(err, input)
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return errors.Wrap(err, "writing output")
			}
			log.WithFields(logrus.Fields{"input": input, "output": output}).Debug("wrote")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.WithField("elapsed", time.Since(start)).Infof("simulated %s for %d images", kind.Name(), len(args))
	return nil
}
