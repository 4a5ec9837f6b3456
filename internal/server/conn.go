package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"strings"
	"time"

	"github.com/icearena/booking-server/internal/handler"
)

const (
	// readChunk matches the client's send buffer.  A request is expected to
	// arrive in one burst; larger payloads are drained chunk by chunk while
	// bytes keep arriving back to back.
	readChunk = 4096

	// drainWindow is how long a follow-up chunk may lag before the burst is
	// considered complete.
	drainWindow = 50 * time.Millisecond

	// dispatchTimeout bounds one command's handler run, SQL included.
	dispatchTimeout = 5 * time.Second
)

// httpBanner is served to browsers and scanners that poke the port with
// HTTP.  Plain text; the loop keeps reading afterwards and the Connection
// header tells the peer to hang up on its side.
const httpBanner = "HTTP/1.1 200 OK\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"Connection: close\r\n" +
	"\r\n" +
	"Ice arena booking server. This port speaks a JSON command protocol, not HTTP.\r\n"

// handleConn serves one client until it disconnects.  Protocol errors are
// answered in-band; only I/O errors end the loop.
func (s *Server) handleConn(conn net.Conn) {
	remote := conn.RemoteAddr().String()
	s.log.Debugw("client connected", "remote", remote)
	defer s.log.Debugw("client disconnected", "remote", remote)

	for {
		payload, err := readBurst(conn)
		if err != nil {
			return
		}
		if len(payload) == 0 {
			continue
		}

		if isHTTPRequest(payload) {
			// Answer the probe and keep serving; the peer decides when to
			// hang up.
			if _, err := conn.Write([]byte(httpBanner)); err != nil {
				return
			}
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		resp := s.registry.Dispatch(ctx, extractJSON(payload))
		cancel()

		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			s.log.Errorw("response marshal failed", "error", err, "remote", remote)
			out, _ = json.Marshal(handler.Fail("server error"))
		}
		if _, err := conn.Write(out); err != nil {
			return
		}
	}
}

// readBurst reads one request.  The first Read blocks until the client
// sends; after that the deadline is shortened so that chunks of the same
// burst are collected but the next request is not.
func readBurst(conn net.Conn) ([]byte, error) {
	buf := make([]byte, readChunk)

	conn.SetReadDeadline(time.Time{})
	n, err := conn.Read(buf)
	if err != nil {
		return nil, err
	}
	payload := append([]byte(nil), buf[:n]...)

	for n == readChunk {
		conn.SetReadDeadline(time.Now().Add(drainWindow))
		n, err = conn.Read(buf)
		if n > 0 {
			payload = append(payload, buf[:n]...)
		}
		if err != nil {
			break
		}
	}
	conn.SetReadDeadline(time.Time{})
	return payload, nil
}

// isHTTPRequest classifies raw bytes as an HTTP probe.  Browsers and port
// scanners hit this socket often enough that answering them with a banner
// keeps the logs readable.
func isHTTPRequest(payload []byte) bool {
	text := string(payload)
	for _, prefix := range []string{"GET ", "POST ", "PUT ", "DELETE ", "HEAD ", "OPTIONS "} {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	for _, marker := range []string{"HTTP/", "User-Agent:", "Mozilla/", "Browser"} {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// extractJSON strips an optional header block in front of the JSON body.
// Some client builds prefix requests with headers terminated by a blank
// line; the body is everything after it.
func extractJSON(payload []byte) []byte {
	if i := bytes.Index(payload, []byte("\r\n\r\n")); i >= 0 {
		rest := bytes.TrimSpace(payload[i+4:])
		if len(rest) > 0 {
			return rest
		}
	}
	if i := bytes.IndexByte(payload, '{'); i > 0 {
		return payload[i:]
	}
	return bytes.TrimSpace(payload)
}
