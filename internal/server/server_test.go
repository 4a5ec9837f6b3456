package server

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/icearena/booking-server/internal/handler"
)

func startServer(t *testing.T) (*Server, string) {
	t.Helper()
	registry := handler.NewRegistry(zap.NewNop().Sugar())
	registry.Register("echo", func(ctx context.Context, raw json.RawMessage) any {
		var req struct {
			Value string `json:"Value"`
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			return handler.Fail(err.Error())
		}
		return handler.M{"Success": true, "Value": req.Value}
	})
	registry.Register("slow", func(ctx context.Context, raw json.RawMessage) any {
		select {
		case <-time.After(100 * time.Millisecond):
		case <-ctx.Done():
		}
		return handler.M{"Success": true}
	})

	srv := New(registry, zap.NewNop().Sugar())
	require.NoError(t, srv.Listen("127.0.0.1:0"))
	go srv.Serve()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})
	return srv, srv.Addr().String()
}

func roundTrip(t *testing.T, addr, request string) map[string]any {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	return send(t, conn, request)
}

func send(t *testing.T, conn net.Conn, request string) map[string]any {
	t.Helper()
	_, err := conn.Write([]byte(request))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 8192)
	n, err := conn.Read(buf)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf[:n], &m), "raw response: %q", buf[:n])
	return m
}

func TestJSONRoundTrip(t *testing.T) {
	_, addr := startServer(t)

	m := roundTrip(t, addr, `{"Command":"echo","Value":"hello"}`)
	assert.Equal(t, true, m["Success"])
	assert.Equal(t, "hello", m["Value"])
}

func TestMultipleRequestsOnOneConnection(t *testing.T) {
	_, addr := startServer(t)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	for _, v := range []string{"one", "two", "three"} {
		m := send(t, conn, `{"Command":"echo","Value":"`+v+`"}`)
		assert.Equal(t, v, m["Value"])
	}
}

func TestMalformedJSONAnsweredInBand(t *testing.T) {
	_, addr := startServer(t)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	m := send(t, conn, `{"Command":`)
	assert.Equal(t, false, m["Success"])
	assert.Contains(t, m["Error"], "invalid JSON")

	// The connection survives the bad request.
	m = send(t, conn, `{"Command":"echo","Value":"still here"}`)
	assert.Equal(t, "still here", m["Value"])
}

func TestHTTPProbeGetsBannerAndConnectionSurvives(t *testing.T) {
	_, addr := startServer(t)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("GET / HTTP/1.1\r\nHost: localhost\r\nUser-Agent: Mozilla/5.0\r\n\r\n"))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	assert.Contains(t, string(buf[:n]), "HTTP/1.1 200 OK")
	assert.Contains(t, string(buf[:n]), "JSON command protocol")

	// The server keeps reading after the banner; the same connection can
	// still issue protocol commands.
	m := send(t, conn, `{"Command":"echo","Value":"after probe"}`)
	assert.Equal(t, "after probe", m["Value"])
}

func TestHeaderBlockStrippedBeforeDispatch(t *testing.T) {
	_, addr := startServer(t)

	m := roundTrip(t, addr, "X-Client: desktop\r\n\r\n"+`{"Command":"echo","Value":"framed"}`)
	assert.Equal(t, "framed", m["Value"])
}

func TestUnknownCommand(t *testing.T) {
	_, addr := startServer(t)

	m := roundTrip(t, addr, `{"Command":"nope"}`)
	assert.Equal(t, false, m["Success"])
	assert.Equal(t, "unknown command", m["Error"])
}

func TestConcurrentConnections(t *testing.T) {
	_, addr := startServer(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v := "client-" + string(rune('a'+i))
			m := roundTrip(t, addr, `{"Command":"echo","Value":"`+v+`"}`)
			assert.Equal(t, v, m["Value"])
		}(i)
	}
	wg.Wait()
}

func TestShutdownIsIdempotentAndClosesClients(t *testing.T) {
	srv, addr := startServer(t)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	require.NoError(t, srv.Shutdown(ctx))

	// The held connection was cut by the server.
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, err = conn.Read(make([]byte, 1))
	assert.Error(t, err)

	_, err = net.Dial("tcp", addr)
	assert.Error(t, err)
}

func TestResponsesAreIndented(t *testing.T) {
	_, addr := startServer(t)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(`{"Command":"echo","Value":"v"}`))
	require.NoError(t, err)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 8192)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	assert.Contains(t, string(buf[:n]), "\n  \"")
}
