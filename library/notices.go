package library

import (
	"time"

	"github.com/google/uuid"
)

// NoticeKind classifies entries on the notification side channel.
type NoticeKind string

const (
	NoticeLent       NoticeKind = "lent"
	NoticeWaitlisted NoticeKind = "waitlisted"
	NoticeReturned   NoticeKind = "returned"
	NoticeHandedOver NoticeKind = "handed_over"
	NoticeStatus     NoticeKind = "status"
)

// Status messages published once per mutating call, whatever the outcome.
const (
	StatusBookAdded        = "Book added successfully."
	StatusBookRemoved      = "Book removed successfully."
	StatusLendCompleted    = "Lend operation completed."
	StatusReturnCompleted  = "Return operation completed."
	StatusMemberAdded      = "Member added successfully."
	StatusMemberRemoved    = "Member removed successfully."
	StatusWaitlistCanceled = "Waitlist updated."
)

// Notice is a human-readable message describing a mutation. Callers that
// need structured results should use return values instead.
type Notice struct {
	ID      uuid.UUID
	Kind    NoticeKind
	Message string
	At      time.Time
}

// Notifier receives notices as they are produced.
type Notifier interface {
	Notify(Notice)
}

// NoticeLog buffers notices until drained and fans them out to subscribers.
// Like the rest of the core it is meant for a single thread of control.
type NoticeLog struct {
	pending     []Notice
	subscribers []func(Notice)
	now         func() time.Time
}

var _ Notifier = (*NoticeLog)(nil)

func NewNoticeLog() *NoticeLog {
	return &NoticeLog{now: time.Now}
}

func newNotice(kind NoticeKind, msg string, at time.Time) Notice {
	return Notice{ID: uuid.New(), Kind: kind, Message: msg, At: at}
}

func (l *NoticeLog) Notify(n Notice) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.At.IsZero() {
		n.At = l.now()
	}
	l.pending = append(l.pending, n)
	for _, fn := range l.subscribers {
		fn(n)
	}
}

// Subscribe registers fn to be called synchronously for every notice.
func (l *NoticeLog) Subscribe(fn func(Notice)) {
	l.subscribers = append(l.subscribers, fn)
}

// Drain returns the pending notices in emission order and clears the buffer.
func (l *NoticeLog) Drain() []Notice {
	out := l.pending
	l.pending = nil
	return out
}

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}
