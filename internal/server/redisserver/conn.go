package redisserver

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/emberkv/internal/telemetry/logger"
)

// conn is a single client connection.
type conn struct {
	id      string
	netConn net.Conn
	rd      *Reader
	bw      *bufio.Writer

	closed atomic.Bool
}

func newConn(c net.Conn, limits Limits) *conn {
	return &conn{
		id:      ulid.Make().String(),
		netConn: c,
		rd:      NewReader(c, limits),
		bw:      bufio.NewWriter(c),
	}
}

func (c *conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

func (c *conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// writeReply encodes rep and flushes it within timeout.
func (c *conn) writeReply(rep Reply, timeout time.Duration) error {
	if err := c.netConn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	if err := WriteReply(c.bw, rep); err != nil {
		return err
	}
	return c.bw.Flush()
}

func (s *Server) serveConn(ctx context.Context, c *conn) {
	ctx = logger.WithConnID(logger.WithLogger(ctx, s.logger), c.id)
	log := logger.L(ctx)

	s.metrics.ConnOpened()
	log.Debug("connection accepted", "remote", c.RemoteAddr().String())

	defer func() {
		if r := recover(); r != nil {
			log.Error("connection handler panic", "panic", r, "stack", string(debug.Stack()))
		}
		_ = c.Close()
		s.untrack(c)
		s.limiter.forget(c.RemoteAddr())
		s.metrics.ConnClosed()
		log.Debug("connection closed")
	}()

	for {
		// Between commands the connection may stay idle for IdleTimeout.
		if err := c.netConn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout)); err != nil {
			return
		}
		if s.draining.Load() {
			return
		}
		if err := c.rd.Peek(); err != nil {
			logReadEnd(log, err)
			return
		}

		// Once a frame has started it must arrive within ReadTimeout.
		if err := c.netConn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
			return
		}
		args, err := c.rd.ReadFrame()
		if err != nil {
			if errors.Is(err, ErrProtocol) {
				s.metrics.IncProtocolError()
				log.Warn("closing connection on protocol error", "remote", c.RemoteAddr().String(), "error", err)
				_ = c.writeReply(ErrorReply("ERR Protocol error: "+protocolDetail(err)), s.cfg.WriteTimeout)
				return
			}
			logReadEnd(log, err)
			return
		}

		rep := s.dispatch(ctx, c, args)
		if err := c.writeReply(rep, s.cfg.WriteTimeout); err != nil {
			log.Debug("connection write error", "error", err)
			return
		}
	}
}

// dispatch parses and executes one frame, returning the reply to send.
func (s *Server) dispatch(ctx context.Context, c *conn, args [][]byte) Reply {
	if !s.limiter.allow(c.RemoteAddr()) {
		s.metrics.IncRateLimited()
		return ErrorReply("ERR rate limit exceeded")
	}

	start := time.Now()
	cmd, err := ParseCommand(args)
	if err != nil {
		var ce *CommandError
		if !errors.As(err, &ce) {
			return ErrorReply("ERR " + err.Error())
		}
		label := commandLabel(args)
		s.metrics.RecordCommand(label, ce.Kind.String(), time.Since(start).Seconds())
		// Arguments may carry stored values; log only their shape.
		logger.L(ctx).Debug("command rejected", "kind", ce.Kind.String(), "command", label, "argc", len(args))
		return ErrorReply(ce.Error())
	}

	rep := cmd.Execute(s.store)
	s.metrics.RecordCommand(cmd.Name(), "ok", time.Since(start).Seconds())
	return rep
}

// commandLabel returns a bounded metric label for a frame.
func commandLabel(args [][]byte) string {
	if len(args) == 0 {
		return "EMPTY"
	}
	switch name := normalizeCommandName(args[0]); name {
	case "PING", "ECHO", "GET", "SET":
		return name
	default:
		return "UNKNOWN"
	}
}

// protocolDetail strips the package prefix from a codec error.
func protocolDetail(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, ErrProtocol.Error()+": "); ok {
		return rest
	}
	return msg
}

// logReadEnd records why the read side of a connection ended. Peer
// disconnects and timeouts are routine.
func logReadEnd(log logger.Logger, err error) {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		log.Debug("connection timed out")
		return
	}
	log.Debug("connection read error", "error", err)
}
