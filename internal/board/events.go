package board

import "sort"

// NoticeKind classifies a user-facing notice.
type NoticeKind string

const (
	// NoticeCorruptState means the persisted board was unreadable and an
	// empty board was started instead.
	NoticeCorruptState NoticeKind = "corrupt-state"
	// NoticeBoardEmptied means persisted tasks existed but none survived
	// sanitization.
	NoticeBoardEmptied NoticeKind = "board-emptied"
	// NoticeTaskNotFound means an intent targeted a task that does not exist.
	NoticeTaskNotFound NoticeKind = "task-not-found"
	// NoticeMoveBlocked means a step move was asked for past an end column.
	NoticeMoveBlocked NoticeKind = "move-blocked"
	// NoticeSaveFailed means the board loaded but could not be written back.
	NoticeSaveFailed NoticeKind = "save-failed"
)

// Notice is a message for the notification collaborator.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
	TaskID  string     `json:"taskId,omitempty"`
}

// EventKind distinguishes store changes from notices.
type EventKind string

const (
	EventChanged EventKind = "changed"
	EventNotice  EventKind = "notice"
)

// Event is delivered to subscribers after an intent has been processed.
type Event struct {
	Kind   EventKind `json:"kind"`
	Notice *Notice   `json:"notice,omitempty"`
}

func changed() Event {
	return Event{Kind: EventChanged}
}

func noticeEvent(n Notice) Event {
	return Event{Kind: EventNotice, Notice: &n}
}

// Subscribe registers fn for every event and returns a function that
// removes it. fn runs on the goroutine that issued the intent, after the
// board lock is released.
func (b *Board) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()

	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn

	return func() {
		b.subsMu.Lock()
		defer b.subsMu.Unlock()
		delete(b.subs, id)
	}
}

func (b *Board) publish(events ...Event) {
	if len(events) == 0 {
		return
	}

	b.subsMu.Lock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.subs[id])
	}
	b.subsMu.Unlock()

	for _, ev := range events {
		if ev.Kind == EventNotice && ev.Notice != nil {
			b.metrics.ObserveNotice(string(ev.Notice.Kind))
			b.log.WithField("kind", ev.Notice.Kind).Info(ev.Notice.Message)
		}
		for _, fn := range fns {
			fn(ev)
		}
	}
}
