package main

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"os"

	"github.com/WIZARDISHUNGRY/visim/internal/impairment"
	"github.com/WIZARDISHUNGRY/visim/internal/session"
	"github.com/mattn/go-tty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const originalID = "none"

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Switch between impairments interactively",
	Long:  "Reads single keys from the terminal. Press ? for the key map.",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

type keyHandler struct {
	cb   func(context.Context)
	desc string
}

type kmt = map[rune]keyHandler

// watchKeys binds 0 to the unmodified image and 1-9 to the selectable
// impairments in display order.
func watchKeys(w io.Writer, sess *session.Session, data []byte, quit context.CancelFunc) kmt {
	keyMap := kmt{
		'0': {
			cb:   func(context.Context) { sess.Submit(data, originalID) },
			desc: "Original",
		},
		'q': {
			cb:   func(context.Context) { quit() },
			desc: "Quit",
		},
		'f': {
			cb:   func(context.Context) { fmt.Fprintln(w, sess.State()) },
			desc: "Get current state",
		},
	}
	for i, k := range impairment.Selectable() {
		if i >= 9 {
			break
		}
		id := k.String()
		keyMap[rune('1'+i)] = keyHandler{
			cb:   func(context.Context) { sess.Submit(data, id) },
			desc: k.Name(),
		}
	}
	keyMap['?'] = keyHandler{
		desc: "Help",
		cb: func(context.Context) {
			keys := maps.Keys(keyMap)
			slices.Sort(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "%s\t%s\n", string(k), keyMap[k].desc)
			}
		},
	}
	return keyMap
}

func scanKeys(ctx context.Context, t *tty.TTY, keyMap kmt) error {
	for ctx.Err() == nil {
		r, err := t.ReadRune()
		if err != nil {
			return errors.Wrap(err, "tty.ReadRune")
		}
		h, ok := keyMap[r]
		if !ok {
			continue
		}
		h.cb(ctx)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrap(err, "reading input")
	}
	t, err := tty.Open()
	if err != nil {
		return errors.Wrap(err, "tty.Open")
	}
	defer t.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	out := cmd.OutOrStdout()

	sess := session.New(ctx, svc)
	defer sess.Close()
	keyMap := watchKeys(out, sess, data, cancel)

	scanErr := make(chan error, 1)
	go func() {
		scanErr <- scanKeys(ctx, t, keyMap)
		cancel()
	}()

	sess.Submit(data, originalID)
	for {
		select {
		case <-ctx.Done():
			select {
			case err := <-scanErr:
				return err
			default:
				return nil
			}
		case res := <-sess.Results():
			kind := impairment.Parse(res.ID)
			if res.Err != nil {
				log.WithError(res.Err).WithField("kind", kind).Warn("simulation failed, keeping last frame")
				continue
			}
			if err := draw(out, res); err != nil {
				log.WithError(err).Warn("draw")
				continue
			}
			label := kind.Name()
			if res.ID == originalID {
				label = "Original"
			}
			fmt.Fprintf(out, "%s (%s), ? for help\n", label, res.Elapsed)
		}
	}
}

func draw(w io.Writer, res session.Result) error {
	img, err := png.Decode(bytes.NewReader(res.Data))
	if err != nil {
		return errors.Wrap(err, "png.Decode")
	}
	cols, rows := terminalSize()
	// leave a row for the status line
	art, err := renderANSI(img, cols, rows-1)
	if err != nil {
		return err
	}
	fmt.Fprint(w, "\033[H\033[2J")
	fmt.Fprint(w, art)
	return nil
}
