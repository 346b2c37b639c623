// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package evented

import (
	"github.com/creachadair/jfeed"
	"github.com/creachadair/mds/queue"
)

// A Queue is a jfeed.Handler that buffers the events it receives in order,
// for the caller to consume after each call to Feed. This avoids callbacks
// into caller code from inside the parser. The zero value is ready for use.
//
// A Queue must not be used concurrently by multiple goroutines.
type Queue struct {
	q *queue.Queue[jfeed.Event]
}

// NewQueue constructs a new empty Queue.
func NewQueue() *Queue { return &Queue{q: queue.New[jfeed.Event]()} }

func (q *Queue) add(ev jfeed.Event) {
	if q.q == nil {
		q.q = queue.New[jfeed.Event]()
	}
	q.q.Add(ev)
}

// Len reports the number of buffered events.
func (q *Queue) Len() int {
	if q.q == nil {
		return 0
	}
	return q.q.Len()
}

// Next removes and returns the oldest buffered event, and reports whether
// one was available.
func (q *Queue) Next() (jfeed.Event, bool) {
	if q.q == nil {
		return jfeed.Event{}, false
	}
	return q.q.Pop()
}

// Drain removes and returns all the buffered events, oldest first.
// It returns nil if the queue is empty.
func (q *Queue) Drain() []jfeed.Event {
	var out []jfeed.Event
	for {
		ev, ok := q.Next()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

// Clear discards all buffered events.
func (q *Queue) Clear() {
	if q.q != nil {
		q.q.Clear()
	}
}

func (q *Queue) BeginObject()          { q.add(jfeed.Event{Kind: jfeed.EventObjectOpen}) }
func (q *Queue) EndObject()            { q.add(jfeed.Event{Kind: jfeed.EventObjectClose}) }
func (q *Queue) BeginArray()           { q.add(jfeed.Event{Kind: jfeed.EventArrayOpen}) }
func (q *Queue) EndArray()             { q.add(jfeed.Event{Kind: jfeed.EventArrayClose}) }
func (q *Queue) Key(tok jfeed.Token)   { q.add(jfeed.Event{Kind: jfeed.EventObjectKey, Token: tok}) }
func (q *Queue) Value(tok jfeed.Token) { q.add(jfeed.Event{Kind: jfeed.EventValue, Token: tok}) }
