package transform

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestBulk(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := newService(t, WithSeed(11))
	bulk := NewBulk(ctx, svc, 3)
	src := encodePNG(t, gradient(120, 90))

	want, err := svc.Transform(ctx, src, "cataracts")
	require.NoError(t, err)

	var g errgroup.Group
	results := make([][]byte, 16)
	for i := range results {
		i := i
		g.Go(func() error {
			out, err := bulk.Transform(ctx, src, "cataracts")
			results[i] = out
			return err
		})
	}
	require.NoError(t, g.Wait())
	for _, out := range results {
		require.Equal(t, want, out)
	}
}

func TestBulkErrorsPropagate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bulk := NewBulk(ctx, newService(t), 0)
	_, err := bulk.Transform(ctx, nil, "glaucoma")
	require.ErrorIs(t, err, ErrEmptyInput)

	out, err := bulk.Transform(ctx, encodePNG(t, gradient(10, 10)), "tritanopia")
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 10, 10), decodePNG(t, out).Bounds())
}

func TestBulkCanceledRequest(t *testing.T) {
	poolCtx, stop := context.WithCancel(context.Background())
	defer stop()
	bulk := NewBulk(poolCtx, newService(t), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := bulk.Transform(ctx, encodePNG(t, gradient(10, 10)), "glaucoma")
	require.ErrorIs(t, err, context.Canceled)
}

func TestBulkStoppedPool(t *testing.T) {
	poolCtx, stop := context.WithCancel(context.Background())
	bulk := NewBulk(poolCtx, newService(t), 1)
	stop()

	src := encodePNG(t, gradient(10, 10))
	errc := make(chan error, 1)
	go func() {
		_, err := bulk.Transform(context.Background(), src, "glaucoma")
		errc <- err
	}()
	select {
	case err := <-errc:
		require.ErrorIs(t, err, errBulkClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("Transform did not return after the pool stopped")
	}
}
