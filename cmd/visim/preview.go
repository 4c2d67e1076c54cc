package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/eliukblau/pixterm/pkg/ansimage"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

// pixels per terminal cell when dithering with block characters
const (
	cellHeight = 8
	cellWidth  = 4
)

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Render the simulation of an image in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringP("kind", "k", "", "Impairment id, see list")
	previewCmd.Flags().Int("cols", 0, "Width in terminal columns, 0 to fit the terminal")
	previewCmd.Flags().Int("rows", 0, "Height in terminal rows, 0 to fit the terminal")
	previewCmd.MarkFlagRequired("kind")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("kind")
	cols, _ := cmd.Flags().GetInt("cols")
	rows, _ := cmd.Flags().GetInt("rows")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrap(err, "reading input")
	}
	out, err := svc.Transform(cmd.Context(), data, id)
	if err != nil {
		return errors.Wrap(err, args[0])
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		return errors.Wrap(err, "png.Decode")
	}
	if cols <= 0 || rows <= 0 {
		tc, tr := terminalSize()
		if cols <= 0 {
			cols = tc
		}
		if rows <= 0 {
			rows = tr
		}
	}
	art, err := renderANSI(img, cols, rows)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), art)
	return nil
}

// terminalSize reports stdout's size in cells, or 80x24 when stdout is not
// a terminal.
func terminalSize() (cols, rows int) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		log.WithError(err).Debug("unix.IoctlGetWinsize, using 80x24")
		return 80, 24
	}
	return int(ws.Col), int(ws.Row)
}

func renderANSI(img image.Image, cols, rows int) (string, error) {
	ansi, err := ansimage.NewScaledFromImage(img, cellHeight*rows, cellWidth*cols, color.Black, ansimage.ScaleModeFit, ansimage.DitheringWithChars)
	if err != nil {
		return "", errors.Wrap(err, "ansimage.NewScaledFromImage")
	}
	return ansi.Render(), nil
}
