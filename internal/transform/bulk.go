package transform

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
)

// Bulk runs transformations on a fixed pool of workers so that many
// concurrent callers do not oversubscribe the CPU. Workers exit when the
// context given to NewBulk is done, and Transform fails from then on.
type Bulk struct {
	svc   *Service
	input chan bulkRequest
	done  <-chan struct{}
}

var errBulkClosed = errors.New("bulk transformer closed")

type bulkRequest struct {
	C    chan bulkResult
	ctx  context.Context
	data []byte
	id   string
}

type bulkResult struct {
	data []byte
	err  error
}

// NewBulk starts numWorkers workers, or one per processor when numWorkers
// is not positive.
func NewBulk(ctx context.Context, svc *Service, numWorkers int) *Bulk {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	b := &Bulk{
		svc:   svc,
		input: make(chan bulkRequest, numWorkers),
		done:  ctx.Done(),
	}
	for i := 0; i < numWorkers; i++ {
		go b.loop(ctx)
	}
	return b
}

// Transform queues a request and waits for its result. ctx bounds both the
// wait and the work itself.
func (b *Bulk) Transform(ctx context.Context, data []byte, id string) ([]byte, error) {
	req := bulkRequest{
		C:    make(chan bulkResult, 1),
		ctx:  ctx,
		data: data,
		id:   id,
	}
	select {
	case <-b.done:
		return nil, errBulkClosed
	default:
	}
	select {
	case b.input <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-b.done:
		return nil, errBulkClosed
	}
	select {
	case res, ok := <-req.C:
		if !ok {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return nil, errBulkClosed
		}
		return res.data, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-b.done:
		return nil, errBulkClosed
	}
}

func (b *Bulk) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-b.input:
			if req.ctx.Err() != nil {
				close(req.C)
				continue
			}
			data, err := b.svc.Transform(req.ctx, req.data, req.id)
			select {
			case <-ctx.Done():
				close(req.C)
				return
			case req.C <- bulkResult{data, err}:
			}
		}
	}
}
