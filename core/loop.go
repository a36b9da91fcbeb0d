package orchestration

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/koscakluka/ema-kiosk/core/events"
)

const eventLoopQueueCapacity = 256

type loopItem struct {
	event    events.Event
	job      func()
	queuedAt time.Time
}

// eventLoop serialises inbound events and internal jobs (timer fires,
// backend completions) onto a single goroutine.
type eventLoop struct {
	queue   chan loopItem
	closeCh chan struct{}
	done    chan struct{}

	startOnce sync.Once
	endOnce   sync.Once

	started atomic.Bool
}

func newEventLoop() *eventLoop {
	return &eventLoop{
		queue:   make(chan loopItem, eventLoopQueueCapacity),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (loop *eventLoop) CanIngest() bool {
	if loop == nil {
		return false
	}

	select {
	case <-loop.closeCh:
		return false
	default:
		return true
	}
}

func (loop *eventLoop) Start(process func(loopItem)) (started bool) {
	if loop == nil || process == nil || !loop.CanIngest() {
		return false
	}

	loop.startOnce.Do(func() {
		if !loop.CanIngest() {
			return
		}

		started = true
		loop.started.Store(true)
		go func() {
			defer close(loop.done)

			for {
				select {
				case <-loop.closeCh:
					return
				case item := <-loop.queue:
					if !loop.CanIngest() {
						return
					}
					process(item)
				}
			}
		}()
	})

	return started
}

func (loop *eventLoop) Stop() {
	if loop == nil {
		return
	}

	loop.endOnce.Do(func() { close(loop.closeCh) })
}

func (loop *eventLoop) AwaitDone() {
	if loop == nil {
		return
	}

	if loop.started.Load() {
		<-loop.done
	}
}

func (loop *eventLoop) Ingest(event events.Event) bool {
	if event == nil {
		return false
	}
	return loop.enqueue(loopItem{event: event, queuedAt: time.Now()})
}

func (loop *eventLoop) Post(job func()) bool {
	if job == nil {
		return false
	}
	return loop.enqueue(loopItem{job: job, queuedAt: time.Now()})
}

func (loop *eventLoop) enqueue(item loopItem) bool {
	if loop == nil || !loop.CanIngest() {
		return false
	}

	select {
	case <-loop.closeCh:
		return false
	case loop.queue <- item:
		return true
	}
}

func (loop *eventLoop) queuedCount() int {
	if loop == nil {
		return 0
	}

	return len(loop.queue)
}
