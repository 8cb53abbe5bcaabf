package server

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
	"golang.org/x/time/rate"

	"github.com/backtrail-dev/backtrail/internal/errors"
	"github.com/backtrail-dev/backtrail/pkg/backlink"
	"github.com/backtrail-dev/backtrail/pkg/history"
	"github.com/backtrail-dev/backtrail/pkg/middleware"
	"github.com/backtrail-dev/backtrail/pkg/nav"
	"github.com/backtrail-dev/backtrail/pkg/route"
	"github.com/backtrail-dev/backtrail/pkg/transition"
)

const (
	writeTimeout = 10 * time.Second

	// Inbound update budget per connection. Genuine navigation is
	// human-paced; a client flooding updates gets dropped frames.
	DefaultUpdateRate  = rate.Limit(20)
	DefaultUpdateBurst = 40
)

// Session is one bridged client connection: its remote stack, backlink
// chain, controller, and transition machine, driven by the connection's
// read loop.
type Session struct {
	conn   *websocket.Conn
	logger *slog.Logger

	remote  *RemoteStack
	chain   *backlink.Chainer
	ctrl    *nav.Controller
	machine *transition.Machine

	limiter *rate.Limiter

	writeMu sync.Mutex

	updatesSeen    atomic.Uint64
	updatesDropped atomic.Uint64

	closed atomic.Bool
	done   chan struct{}
}

// Controller returns the session's navigation controller.
func (s *Session) Controller() *nav.Controller { return s.ctrl }

// Chain returns the session's backlink chain.
func (s *Session) Chain() *backlink.Chainer { return s.chain }

// Machine returns the session's transition state machine.
func (s *Session) Machine() *transition.Machine { return s.machine }

// Stats reports how many updates the session has seen and dropped.
func (s *Session) Stats() (seen, dropped uint64) {
	return s.updatesSeen.Load(), s.updatesDropped.Load()
}

// newSession builds the per-connection pipeline on top of the client's
// hello location. The read loop starts before the backlink chain is
// attached: chain construction may issue a blocking key-assignment
// replace, and only the read loop can deliver its echo.
func newSession(conn *websocket.Conn, hello history.Location, table *route.Table, mw []nav.Middleware, limiter *rate.Limiter, logger *slog.Logger) *Session {
	s := &Session{
		conn:    conn,
		logger:  logger,
		limiter: limiter,
		done:    make(chan struct{}),
	}

	s.remote = newRemoteStack(hello, s.sendCommand)
	go s.readLoop()

	s.chain = backlink.New(s.remote, backlink.WithLogger(logger))
	s.ctrl = nav.NewController(s.chain, nav.WithMiddleware(mw...))
	s.machine = transition.NewMachine(table, s.chain.Location())

	s.ctrl.Listen(func(u history.Update) {
		s.machine.Observe(u.Location, u.Action)
	})

	return s
}

// Done is closed when the connection drops and the session is torn down.
func (s *Session) Done() <-chan struct{} { return s.done }

// sendCommand serializes one command to the client. Writes from the
// controller and from pings share the connection, so they serialize
// under writeMu.
func (s *Session) sendCommand(cmd Command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// readLoop consumes client frames until the connection drops. Update
// frames feed the remote stack; everything downstream (chain verify,
// controller waiters, transition machine) runs synchronously from here.
func (s *Session) readLoop() {
	defer s.close()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("bridge read failed", "error", err)
			}
			return
		}

		msg, err := DecodeClientMessage(data)
		if err != nil {
			s.logger.Warn("dropping malformed frame", "error", err)
			continue
		}
		if msg.Type != MsgUpdate {
			continue
		}

		s.updatesSeen.Inc()
		if !s.limiter.Allow() {
			s.updatesDropped.Inc()
			middleware.RecordUpdateDropped()
			continue
		}

		s.remote.applyUpdate(msg.Location.Location(), parseAction(msg.Action), msg.Seq)
	}
}

// close tears the session down once; pending mutations unblock.
func (s *Session) close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.remote.closeWaiters()
	s.conn.Close()
	close(s.done)
}

// awaitHello blocks for the client's opening frame and returns the
// announced location.
func awaitHello(conn *websocket.Conn) (history.Location, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return history.Location{}, err
	}
	msg, err := DecodeClientMessage(data)
	if err != nil {
		return history.Location{}, err
	}
	if msg.Type != MsgHello {
		return history.Location{}, errors.New(errors.CodeProtocolSequence).
			WithDetail("expected hello, got " + msg.Type)
	}
	return msg.Location.Location(), nil
}
