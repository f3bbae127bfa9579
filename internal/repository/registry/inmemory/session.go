package inmemory

import (
	"sync"

	"github.com/studyroom/server/internal/repository/registry"
	"github.com/studyroom/server/pkg/randstr"
)

const sessionIDLength = 12

var sessionIDGenerator = randstr.New([]byte("abcdefghijklmnopqrstuvwxyz0123456789"))

// Session is a bounded outbound queue for one connected client. The
// transport write pump drains Messages; the queue itself never touches
// the socket, so a broken transport can at worst fill the buffer.
type Session struct {
	id string

	mu     sync.Mutex
	out    chan registry.Message
	closed bool
}

func newSession(queueSize int) *Session {
	return &Session{
		id:  sessionIDGenerator.GenerateRandomString(sessionIDLength),
		out: make(chan registry.Message, queueSize),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Send enqueues msg without blocking. When the queue is full the oldest
// frame is dropped: playback state tolerates staleness and the next
// update supersedes whatever was shed.
func (s *Session) Send(msg registry.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return registry.ErrSessionClosed
	}

	for {
		select {
		case s.out <- msg:
			return nil
		default:
		}

		select {
		case <-s.out:
		default:
		}
	}
}

// Messages is drained by the transport write pump. The channel is
// closed when the session closes.
func (s *Session) Messages() <-chan registry.Message {
	return s.out
}

func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.closed = true
	close(s.out)
}
