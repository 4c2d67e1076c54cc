package main

import (
	"os"

	"github.com/WIZARDISHUNGRY/visim/internal/impairment"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [file]",
	Short: "Write the simulation of one image as PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringP("kind", "k", "", "Impairment id, see list")
	simulateCmd.Flags().StringP("output", "o", "", "Output PNG file")
	simulateCmd.MarkFlagRequired("kind")
	simulateCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("kind")
	outputPath, _ := cmd.Flags().GetString("output")
	inputPath := args[0]

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return errors.Wrap(err, "reading input")
	}
	out, err := svc.Transform(cmd.Context(), data, id)
	if err != nil {
		return errors.Wrap(err, inputPath)
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return errors.Wrap(err, "writing output")
	}
	log.WithField("kind", impairment.Parse(id).Name()).Infof("wrote %s (%d bytes)", outputPath, len(out))
	return nil
}
