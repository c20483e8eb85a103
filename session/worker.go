package session

import (
	"sync"

	"github.com/silkit/go-silhouette"
)

// Worker runs a session off the caller's thread with latest-wins
// semantics.  Both the input and output queues hold a single frame, a
// newer mask supersedes an unprocessed one and an unconsumed result is
// replaced by the newer frame's result, so feedback latency never grows
// under load
type Worker struct {
	session *Session
	in      chan *silhouette.Mask
	out     chan FrameResult
	done    chan struct{}
	close   sync.Once
}

// NewWorker starts the processing goroutine for the given session.  The
// session must not be used directly while the worker owns it
func NewWorker(s *Session) *Worker {
	w := &Worker{
		session: s,
		in:      make(chan *silhouette.Mask, 1),
		out:     make(chan FrameResult, 1),
		done:    make(chan struct{}),
	}

	go w.run()

	return w
}

// run processes masks until the worker is closed
func (w *Worker) run() {
	defer close(w.out)

	for {
		select {
		case <-w.done:
			return
		case mask, ok := <-w.in:
			if !ok {
				return
			}

			res := w.session.Process(mask)
			w.publish(res)
		}
	}
}

// publish places a result on the output queue, dropping any stale
// unconsumed result first
func (w *Worker) publish(res FrameResult) {
	select {
	case w.out <- res:
		return
	default:
	}

	// a previous result is still unconsumed, supersede it
	select {
	case <-w.out:
	default:
	}

	select {
	case w.out <- res:
	default:
	}
}

// Submit queues a mask for processing.  If a previous mask is still
// pending it is discarded, the newest frame wins
func (w *Worker) Submit(mask *silhouette.Mask) {
	select {
	case <-w.done:
		return
	default:
	}

	select {
	case w.in <- mask:
		return
	default:
	}

	// drain the pending mask then queue the newer one
	select {
	case <-w.in:
	default:
	}

	select {
	case w.in <- mask:
	default:
	}
}

// Results returns the output queue.  The channel closes when the worker
// is closed
func (w *Worker) Results() <-chan FrameResult {
	return w.out
}

// Close stops the worker.  Pending frames may be dropped
func (w *Worker) Close() {
	w.close.Do(func() {
		close(w.done)
	})
}
