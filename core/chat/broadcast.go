package chat

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Update is what the room publishes: a new message or a poll result change.
type Update struct {
	Message *Message `json:"message,omitempty"`
	Results *Summary `json:"results,omitempty"`
}

// Handler receives updates one at a time, in publish order.
type Handler func(Update)

// Broadcaster fans updates out to every current subscriber.
// There is no acknowledgement, retry or history: a subscriber only sees
// what is published while it is registered.
type Broadcaster struct {
	subs       map[string]*Subscription
	register   chan *Subscription
	unregister chan *Subscription
	publish    chan Update
	done       chan struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs:       make(map[string]*Subscription),
		register:   make(chan *Subscription),
		unregister: make(chan *Subscription),
		publish:    make(chan Update),
		done:       make(chan struct{}),
	}
}

// Run is the broadcaster loop. It stops every subscription when ctx is done.
func (b *Broadcaster) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for id, sub := range b.subs {
				sub.stop()
				delete(b.subs, id)
			}
			close(b.done)
			return
		case sub := <-b.register:
			b.subs[sub.id] = sub
		case sub := <-b.unregister:
			if _, ok := b.subs[sub.id]; ok {
				delete(b.subs, sub.id)
				sub.stop()
			}
		case u := <-b.publish:
			for _, sub := range b.subs {
				sub.push(u)
			}
		}
	}
}

// Wait blocks until the broadcaster loop has stopped.
func (b *Broadcaster) Wait() {
	<-b.done
}

// Publish queues u for every current subscriber.
func (b *Broadcaster) Publish(ctx context.Context, u Update) error {
	select {
	case b.publish <- u:
		return nil
	case <-b.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers handler for every update published from now on.
func (b *Broadcaster) Subscribe(ctx context.Context, handler Handler) (*Subscription, error) {
	sub := &Subscription{
		id:      uuid.New().String(),
		b:       b,
		handler: handler,
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
	}
	select {
	case b.register <- sub:
	case <-b.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	go sub.deliver()
	return sub, nil
}

// Subscription delivers updates to its handler from its own goroutine,
// so a slow subscriber never holds up the broadcaster or the others.
type Subscription struct {
	id      string
	b       *Broadcaster
	handler Handler

	mu    sync.Mutex
	queue []Update
	wake  chan struct{}
	quit  chan struct{}
	once  sync.Once
}

// Cancel stops delivery. Updates still queued are dropped. Safe to call more than once.
func (s *Subscription) Cancel() {
	select {
	case s.b.unregister <- s:
	case <-s.b.done:
	case <-s.quit:
	}
}

// Done is closed once the subscription has stopped.
func (s *Subscription) Done() <-chan struct{} {
	return s.quit
}

func (s *Subscription) stop() {
	s.once.Do(func() { close(s.quit) })
}

func (s *Subscription) push(u Update) {
	s.mu.Lock()
	s.queue = append(s.queue, u)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription) deliver() {
	for {
		select {
		case <-s.quit:
			return
		case <-s.wake:
		}

		s.mu.Lock()
		batch := s.queue
		s.queue = nil
		s.mu.Unlock()

		for _, u := range batch {
			select {
			case <-s.quit:
				return
			default:
			}
			s.handler(u)
		}
	}
}
