package email

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowSMTPServer accepts one connection, waits before greeting and then
// answers every command. It reports the commands it saw once the client quits.
func slowSMTPServer(t *testing.T, greetDelay time.Duration) (int, <-chan []string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	seen := make(chan []string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			seen <- nil
			return
		}
		defer conn.Close()

		time.Sleep(greetDelay)
		fmt.Fprint(conn, "220 localhost ESMTP\r\n")

		var cmds []string
		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				break
			}
			line = strings.TrimSpace(line)
			cmds = append(cmds, line)

			switch {
			case strings.HasPrefix(line, "EHLO"):
				fmt.Fprint(conn, "250 localhost\r\n")
			case line == "QUIT":
				fmt.Fprint(conn, "221 bye\r\n")
				seen <- cmds
				return
			case line == "DATA":
				fmt.Fprint(conn, "354 go ahead\r\n")
			default:
				fmt.Fprint(conn, "250 ok\r\n")
			}
		}
		seen <- cmds
	}()

	return ln.Addr().(*net.TCPAddr).Port, seen
}

func TestSMTPTransport_TimeoutDropsLateDial(t *testing.T) {
	port, seen := slowSMTPServer(t, 200*time.Millisecond)

	tr := NewSMTPTransport(SMTPConfig{
		Host:    "127.0.0.1",
		Port:    port,
		From:    "site@example.com",
		Timeout: 50 * time.Millisecond,
	})

	err := tr.Send(context.Background(), Message{
		To:       []string{"admin@example.com"},
		Subject:  "Your login code",
		TextBody: "123456",
	})

	var sendErr ErrSend
	require.ErrorAs(t, err, &sendErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	select {
	case cmds := <-seen:
		for _, c := range cmds {
			assert.False(t, strings.HasPrefix(c, "MAIL"), "message sent after timeout: %v", cmds)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("client never closed the late connection")
	}
}

func TestSMTPTransport_RejectsInvalidMessage(t *testing.T) {
	tr := NewSMTPTransport(SMTPConfig{Host: "127.0.0.1", Port: 1})

	err := tr.Send(context.Background(), Message{To: []string{"a@example.com"}, Subject: "s", TextBody: "b"})

	var invalid ErrInvalidMessage
	assert.ErrorAs(t, err, &invalid)
}
