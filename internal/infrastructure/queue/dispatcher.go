package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cityfix/platform/internal/api/metrics"
	"github.com/cityfix/platform/internal/core/domain"
	"github.com/cityfix/platform/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	publishTimeout = 5 * time.Second
	drainTimeout   = 10 * time.Second
)

// Dispatcher routes notification events to a fixed set of workers using
// consistent hashing on the user id, so events of one user are published in
// order.
type Dispatcher struct {
	workers   []chan domain.NotificationEvent
	publisher ports.NotificationPublisher
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, publisher ports.NotificationPublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.NotificationEvent, numWorkers),
		publisher: publisher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.NotificationEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// publishes what is still buffered, for up to drainTimeout, and returns.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands event to the worker responsible for its user. When that
// worker's buffer is full the event is dropped and logged instead of blocking
// the caller.
func (d *Dispatcher) Enqueue(event domain.NotificationEvent) {
	idx := d.shardIndex(event.UserID)
	select {
	case d.workers[idx] <- event:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.NotificationEventsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("notification_id", event.NotificationID).
			Str("user_id", event.UserID).
			Msg("dispatch queue full, dropping notification event")
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.NotificationEvent) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case event := <-ch:
			metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			d.publish(id, event)
		}
	}
}

// drain publishes the events left in ch. Events still queued after
// drainTimeout are counted and logged as dropped.
func (d *Dispatcher) drain(id int, ch <-chan domain.NotificationEvent) {
	deadline := time.Now().Add(drainTimeout)
	published, dropped := 0, 0
	for {
		select {
		case event := <-ch:
			if time.Now().After(deadline) {
				dropped++
				metrics.NotificationEventsTotal.WithLabelValues("dropped").Inc()
				continue
			}
			d.publish(id, event)
			published++
		default:
			metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(0)
			if published+dropped > 0 {
				d.log.Info().
					Int("worker_id", id).
					Int("published", published).
					Int("dropped", dropped).
					Msg("drained notification queue on shutdown")
			}
			return
		}
	}
}

// publish is bounded by publishTimeout only, so in-flight events survive
// the shutdown signal.
func (d *Dispatcher) publish(worker int, event domain.NotificationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := d.publisher.Publish(ctx, event); err != nil {
		metrics.NotificationEventsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("notification_id", event.NotificationID).
			Str("user_id", event.UserID).
			Int("worker_id", worker).
			Msg("notification publish failed")
		return
	}
	metrics.NotificationEventsTotal.WithLabelValues("published").Inc()
}
