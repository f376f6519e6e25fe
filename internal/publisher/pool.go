package publisher

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/taskflow/eventcore/internal/metrics"
	"github.com/taskflow/eventcore/internal/pubsub"
)

// Pool manages a fixed set of worker goroutines draining a shared Queue and
// publishing each job to a broker.
type Pool struct {
	workers []*workerLoop
	wg      sync.WaitGroup
}

// NewPool creates n workers, all publishing through the same pub.Publisher.
// m may be nil, in which case no counters are recorded.
func NewPool(n int, q *Queue, pub pubsub.Publisher, m *metrics.Metrics, logger *zap.Logger) *Pool {
	workers := make([]*workerLoop, n)
	for i := range workers {
		workers[i] = &workerLoop{
			id:      i,
			q:       q,
			pub:     pub,
			metrics: m,
			logger:  logger.With(zap.Int("worker_id", i)),
		}
	}
	return &Pool{workers: workers}
}

// Start launches all workers as goroutines. Cancelling ctx triggers a
// graceful shutdown.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *workerLoop) {
			defer p.wg.Done()
			w.run(ctx)
		}(w)
	}
}

// Wait blocks until every worker has returned after ctx is cancelled.
func (p *Pool) Wait() {
	p.wg.Wait()
}

type workerLoop struct {
	id      int
	q       *Queue
	pub     pubsub.Publisher
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func (w *workerLoop) run(ctx context.Context) {
	w.logger.Info("publish worker started")
	for {
		job, ok := w.q.Dequeue(ctx)
		if !ok {
			w.logger.Info("publish worker stopping")
			return
		}
		if w.metrics != nil {
			high, normal := w.q.Depths()
			w.metrics.QueueDepthHigh.Set(float64(high))
			w.metrics.QueueDepthNormal.Set(float64(normal))
		}
		w.process(ctx, job)
	}
}

func (w *workerLoop) process(ctx context.Context, job Job) {
	if err := w.pub.Publish(ctx, job.Topic, job.Payload, job.Metadata); err != nil {
		w.logger.Error("publish failed after retries",
			zap.String("topic", job.Topic),
			zap.String("event_type", job.Payload.EventType()),
			zap.String("key", job.Payload.Key()),
			zap.Error(err),
		)
		if w.metrics != nil {
			w.metrics.EventsPublishFailed.WithLabelValues(job.Topic).Inc()
		}
		return
	}
	if w.metrics != nil {
		w.metrics.EventsPublished.WithLabelValues(job.Topic).Inc()
	}
}
