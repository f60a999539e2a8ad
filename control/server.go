package control

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/NaveLIL/lyrics-overlay/logger"
)

// Request is one line of input.
type Request struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Method string          `json:"method"`
	Args   any             `json:"args,omitempty"`
}

// Response is one line of output.
type Response struct {
	ID     json.RawMessage `json:"id,omitempty"`
	OK     bool            `json:"ok"`
	Result any             `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
}

// Server reads JSON requests, one per line, and writes one response line
// per request in the same order.
type Server struct {
	d   *Dispatcher
	log *logrus.Entry

	mu        sync.Mutex
	listeners []net.Listener
	wg        sync.WaitGroup
}

// NewServer creates a server for d.
func NewServer(d *Dispatcher) *Server {
	return &Server{d: d, log: logger.Get().Component("control")}
}

// Serve handles requests from r until EOF, a read error or ctx is done.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	dec := json.NewDecoder(bufio.NewReader(r))
	dec.UseNumber()
	enc := json.NewEncoder(w)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			var syn *json.SyntaxError
			if errors.As(err, &syn) {
				// The stream cannot be resynchronized after a syntax error.
				enc.Encode(Response{Error: &Error{Code: CodeBadArgs, Message: err.Error()}})
				return fmt.Errorf("decode request: %w", err)
			}
			if errors.Is(err, io.ErrUnexpectedEOF) || isClosed(err) {
				return nil
			}
			enc.Encode(Response{Error: &Error{Code: CodeBadArgs, Message: err.Error()}})
			continue
		}

		resp := s.handle(req)
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
}

func (s *Server) handle(req Request) Response {
	resp := Response{ID: req.ID}
	if req.Method == "" {
		resp.Error = &Error{Code: CodeBadArgs, Field: "method", Message: "missing method"}
		return resp
	}
	result, err := s.d.Call(req.Method, req.Args)
	if err != nil {
		var ce *Error
		if !errors.As(err, &ce) {
			ce = &Error{Code: CodeInternal, Message: err.Error()}
		}
		resp.Error = ce
		return resp
	}
	resp.OK = true
	resp.Result = result
	return resp
}

// Listen accepts TCP connections on addr and serves each until ctx is done.
// It returns once the listener is open.
func (s *Server) Listen(ctx context.Context, addr string) (net.Addr, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, ln)
	s.mu.Unlock()

	s.log.WithField("addr", ln.Addr().String()).Info("Control server listening")

	context.AfterFunc(ctx, func() { ln.Close() })

	s.wg.Add(1)
	go s.acceptLoop(ctx, ln)
	return ln.Addr(), nil
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() == nil && !isClosed(err) {
				s.log.Errorf("Accept failed: %v", err)
			}
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer conn.Close()
			stop := context.AfterFunc(ctx, func() { conn.Close() })
			defer stop()

			remote := conn.RemoteAddr().String()
			s.log.WithField("remote", remote).Debug("Client connected")
			if err := s.Serve(ctx, conn, conn); err != nil && ctx.Err() == nil {
				s.log.WithField("remote", remote).Warnf("Connection closed: %v", err)
			}
		}()
	}
}

// Close stops all listeners and waits for open connections to finish.
func (s *Server) Close() {
	s.mu.Lock()
	for _, ln := range s.listeners {
		ln.Close()
	}
	s.listeners = nil
	s.mu.Unlock()
	s.wg.Wait()
}

func isClosed(err error) bool {
	return errors.Is(err, net.ErrClosed)
}
