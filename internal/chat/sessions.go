package chat

import "sync"

// session owns one chat's window and its pending work queue.
type session struct {
	window Window
	queue  []func(*Window)
	active bool
}

// Sessions serializes processing per chat id: work for the same chat
// runs strictly in submission order on one goroutine, while unrelated
// chats proceed independently. Sessions are created on first contact
// and their worker goroutine exits whenever its queue drains.
type Sessions struct {
	mu    sync.Mutex
	chats map[int64]*session
}

func NewSessions() *Sessions {
	return &Sessions{chats: make(map[int64]*session)}
}

// Run submits fn for the chat and blocks until it has executed. The
// window passed to fn must not be retained after fn returns.
func (s *Sessions) Run(chatID int64, fn func(*Window)) {
	done := make(chan struct{})
	s.enqueue(chatID, func(w *Window) {
		defer close(done)
		fn(w)
	})
	<-done
}

// Reset clears the chat's window, queued in order with any in-flight
// work for that chat.
func (s *Sessions) Reset(chatID int64) {
	s.Run(chatID, func(w *Window) { w.Reset() })
}

func (s *Sessions) enqueue(chatID int64, fn func(*Window)) {
	s.mu.Lock()
	sess, ok := s.chats[chatID]
	if !ok {
		sess = &session{}
		s.chats[chatID] = sess
	}
	sess.queue = append(sess.queue, fn)
	if sess.active {
		s.mu.Unlock()
		return
	}
	sess.active = true
	s.mu.Unlock()

	go s.drain(sess)
}

func (s *Sessions) drain(sess *session) {
	for {
		s.mu.Lock()
		if len(sess.queue) == 0 {
			sess.active = false
			s.mu.Unlock()
			return
		}
		fn := sess.queue[0]
		sess.queue = sess.queue[1:]
		s.mu.Unlock()

		fn(&sess.window)
	}
}
