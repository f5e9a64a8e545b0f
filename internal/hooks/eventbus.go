// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hooks

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Subscription is a handle for a registered subscriber.
type Subscription struct {
	ID          string
	Event       Event
	Callback    func(*EventContext)
	Filter      func(*EventContext) bool
	Unsubscribe func()
}

// EventBus distributes orchestration events to subscribers. Synchronous
// publication runs callbacks inline; async publication goes through a bounded
// queue and drops events when it is full.
type EventBus struct {
	subscribers  map[Event][]*Subscription
	mu           sync.RWMutex
	eventQueue   chan *EventContext
	ctx          context.Context
	cancel       context.CancelFunc
	shutdownOnce sync.Once
	shutdown     bool
}

// NewEventBus creates a bus and starts its async processor.
func NewEventBus() *EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	bus := &EventBus{
		subscribers: make(map[Event][]*Subscription),
		eventQueue:  make(chan *EventContext, 1000),
		ctx:         ctx,
		cancel:      cancel,
	}
	go bus.processQueue()
	return bus
}

// Subscribe registers a callback for an event type.
func (b *EventBus) Subscribe(event Event, callback func(*EventContext)) *Subscription {
	return b.SubscribeWithFilter(event, callback, nil)
}

// SubscribeWithFilter registers a callback gated by an optional filter.
func (b *EventBus) SubscribeWithFilter(event Event, callback func(*EventContext), filter func(*EventContext) bool) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscription{
		ID:       fmt.Sprintf("%d", time.Now().UnixNano()),
		Event:    event,
		Callback: callback,
		Filter:   filter,
	}
	sub.Unsubscribe = func() { b.unsubscribe(sub) }

	b.subscribers[event] = append(b.subscribers[event], sub)
	return sub
}

func (b *EventBus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[sub.Event]
	for i, s := range subs {
		if s.ID == sub.ID {
			b.subscribers[sub.Event] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
}

// Publish delivers an event to all subscribers synchronously. A panicking
// subscriber is contained and logged.
func (b *EventBus) Publish(ctx *EventContext) {
	b.mu.RLock()
	subs := b.subscribers[ctx.Event]
	activeSubs := make([]*Subscription, len(subs))
	copy(activeSubs, subs)
	b.mu.RUnlock()

	for _, sub := range activeSubs {
		if sub.Filter != nil && !sub.Filter(ctx) {
			continue
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("Panic in event subscriber for %s: %v", ctx.Event, r)
				}
			}()
			sub.Callback(ctx)
		}()
	}
}

// PublishAsync queues an event for background delivery.
func (b *EventBus) PublishAsync(ctx *EventContext) {
	b.mu.RLock()
	isShutdown := b.shutdown
	b.mu.RUnlock()

	if isShutdown {
		return
	}

	select {
	case <-b.ctx.Done():
		return
	case b.eventQueue <- ctx:
	default:
		log.Warnf("Event queue full, dropping event: %s", ctx.Event)
	}
}

func (b *EventBus) processQueue() {
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.eventQueue:
			if !ok {
				return
			}
			if event != nil {
				b.Publish(event)
			}
		}
	}
}

// Shutdown stops the async processor. Further async publishes are ignored.
func (b *EventBus) Shutdown() {
	b.shutdownOnce.Do(func() {
		b.mu.Lock()
		b.shutdown = true
		b.mu.Unlock()

		b.cancel()
		close(b.eventQueue)
	})
}
