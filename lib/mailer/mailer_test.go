package mailer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net"
	"net/textproto"
	"railwatch/lib/telemetry"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestBuild(t *testing.T) {
	m := New(SmtpConfig{Server: "smtp.gmail.com", Address: "watcher@example.com"})
	require.Equal(t, 587, m.config.Port)
	require.Equal(t, 3, m.config.MaxAttempts)

	mail := m.build(Message{
		To:      []string{"alice@example.com"},
		Subject: "BANALATA SNIGDHA Ticket Available!",
		Text:    "4 tickets of Jun 5, 2025, are available!",
	})
	require.Equal(t, "watcher@example.com", mail.From)

	raw, err := mail.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	require.Contains(t, string(raw), "Subject: BANALATA SNIGDHA Ticket Available!")
	require.Contains(t, string(raw), "4 tickets of Jun 5, 2025, are available!")

	named := New(SmtpConfig{Address: "watcher@example.com", FromName: "Railwatch"})
	require.Equal(t, "Railwatch <watcher@example.com>", named.from())
}

func TestSendRequiresRecipient(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:mailer")
	defer cleanup()

	m := New(SmtpConfig{Server: "127.0.0.1", Port: 1})
	err := m.Send(context.Background(), Message{Subject: "nobody"})
	require.ErrorIs(t, err, ErrNoRecipient)
	err = m.Send(context.Background(), Message{To: []string{""}, Subject: "nobody"})
	require.ErrorIs(t, err, ErrNoRecipient)
}

// fakeGreeter accepts connections and greets every client with `greeting`.
func fakeGreeter(t testing.TB, greeting string) (int, *int64) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { listener.Close() })

	var connections int64
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			atomic.AddInt64(&connections, 1)
			w := bufio.NewWriter(conn)
			w.WriteString(greeting + "\r\n")
			w.Flush()
			conn.Close()
		}
	}()

	return listener.Addr().(*net.TCPAddr).Port, &connections
}

func TestSendPermanentFailure(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:mailer")
	defer cleanup()

	port, connections := fakeGreeter(t, "554 5.7.1 no thanks")
	m := New(SmtpConfig{Server: "127.0.0.1", Port: port, DisableTLS: true})
	m.initialDelay = time.Millisecond

	err := m.Send(context.Background(), Message{To: []string{"alice@example.com"}, Subject: "x"})
	require.Error(t, err)
	require.EqualValues(t, 1, atomic.LoadInt64(connections))
}

func TestSendRetriesTransientFailure(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:mailer")
	defer cleanup()

	port, connections := fakeGreeter(t, "421 4.3.2 try again later")
	m := New(SmtpConfig{Server: "127.0.0.1", Port: port, DisableTLS: true, MaxAttempts: 3})
	m.initialDelay = time.Millisecond

	err := m.Send(context.Background(), Message{To: []string{"alice@example.com"}, Subject: "x"})
	require.Error(t, err)
	require.EqualValues(t, 3, atomic.LoadInt64(connections))
}

func TestSendZeroValueMailerIsBounded(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:mailer")
	defer cleanup()

	port, connections := fakeGreeter(t, "421 4.3.2 try again later")
	m := Mailer{config: SmtpConfig{Server: "127.0.0.1", Port: port, DisableTLS: true}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := m.Send(ctx, Message{To: []string{"alice@example.com"}, Subject: "x"})
	require.Error(t, err)
	require.NotErrorIs(t, err, context.DeadlineExceeded)
	require.EqualValues(t, defaultMaxAttempts, atomic.LoadInt64(connections))
}

// fakeNoAuthServer speaks just enough SMTP to accept mail without
// advertising AUTH, it returns the number of messages received.
func fakeNoAuthServer(t testing.TB) (int, *int64) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { listener.Close() })

	var received int64
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				text := textproto.NewConn(conn)
				text.PrintfLine("220 localhost ESMTP")
				for {
					line, err := text.ReadLine()
					if err != nil {
						return
					}
					switch {
					case strings.HasPrefix(line, "EHLO"):
						text.PrintfLine("250-localhost")
						text.PrintfLine("250 8BITMIME")
					case strings.HasPrefix(line, "DATA"):
						text.PrintfLine("354 go ahead")
						_, err := text.ReadDotBytes()
						if err != nil {
							return
						}
						atomic.AddInt64(&received, 1)
						text.PrintfLine("250 queued")
					case strings.HasPrefix(line, "QUIT"):
						text.PrintfLine("221 bye")
						return
					default:
						text.PrintfLine("250 ok")
					}
				}
			}(conn)
		}
	}()

	return listener.Addr().(*net.TCPAddr).Port, &received
}

type ctxKey struct{}

// ctxRecorder keeps the message and request context of every log record.
type ctxRecorder struct {
	mutex   *sync.Mutex
	records *[]string
}

func (h ctxRecorder) Enabled(context.Context, slog.Level) bool { return true }
func (h ctxRecorder) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h ctxRecorder) WithGroup(string) slog.Handler { return h }

func (h ctxRecorder) Handle(ctx context.Context, record slog.Record) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	value, _ := ctx.Value(ctxKey{}).(string)
	*h.records = append(*h.records, record.Message+"|"+value)
	return nil
}

func TestSendFallsBackWithoutAuth(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:mailer")
	defer cleanup()

	recorder := ctxRecorder{mutex: &sync.Mutex{}, records: &[]string{}}
	previous := slog.Default()
	slog.SetDefault(slog.New(recorder))
	defer slog.SetDefault(previous)

	port, received := fakeNoAuthServer(t)
	m := New(SmtpConfig{
		Server:     "127.0.0.1",
		Port:       port,
		Address:    "watcher@example.com",
		Password:   "app-password",
		DisableTLS: true,
	})
	m.initialDelay = time.Millisecond

	ctx := context.WithValue(context.Background(), ctxKey{}, "run-1")
	err := m.Send(ctx, Message{To: []string{"alice@example.com"}, Subject: "x", Text: "y"})
	if err != nil {
		t.Fatal(err)
	}
	require.EqualValues(t, 1, atomic.LoadInt64(received))

	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	require.Contains(t, *recorder.records, "smtp server does not support auth, sending without it|run-1")
}

type mailpitMessages struct {
	Total    int `json:"total"`
	Messages []struct {
		Subject string `json:"Subject"`
		Snippet string `json:"Snippet"`
		To      []struct {
			Address string `json:"Address"`
		} `json:"To"`
	} `json:"messages"`
}

func TestSendWithSmtpServer(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	cleanup := telemetry.SetupForTesting("test:mailer")
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute*2)
	defer cancel()

	// suppress logging
	testcontainers.Logger = log.New(io.Discard, "", 0)

	smtpServer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		Started: true,
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "axllent/mailpit:latest",
			ExposedPorts: []string{"1025/tcp", "8025/tcp"},
			WaitingFor:   wait.ForListeningPort("8025/tcp"),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer smtpServer.Terminate(context.Background())

	host, err := smtpServer.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	smtpPort, err := smtpServer.MappedPort(ctx, "1025/tcp")
	if err != nil {
		t.Fatal(err)
	}
	httpPort, err := smtpServer.MappedPort(ctx, "8025/tcp")
	if err != nil {
		t.Fatal(err)
	}

	m := New(SmtpConfig{
		Server:     host,
		Port:       smtpPort.Int(),
		Address:    "watcher@example.com",
		FromName:   "Railwatch",
		DisableTLS: true,
	})
	err = m.Send(ctx, Message{
		To:      []string{"alice@example.com"},
		Subject: "BANALATA SNIGDHA Ticket Available!",
		Text:    "4 tickets of Jun 5, 2025, are available!",
	})
	if err != nil {
		t.Fatal(err)
	}

	var inbox mailpitMessages
	_, err = resty.New().R().
		SetContext(ctx).
		SetResult(&inbox).
		Get(fmt.Sprintf("http://%s:%d/api/v1/messages", host, httpPort.Int()))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 1, inbox.Total)
	require.Equal(t, "BANALATA SNIGDHA Ticket Available!", inbox.Messages[0].Subject)
	require.Equal(t, "alice@example.com", inbox.Messages[0].To[0].Address)
	require.Contains(t, inbox.Messages[0].Snippet, "4 tickets of Jun 5, 2025")
}
