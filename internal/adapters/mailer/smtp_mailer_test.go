package mailer

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRelay speaks just enough SMTP to accept one message, recording every
// command line it receives.
func fakeRelay(t *testing.T) (addr string, commands <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	ch := make(chan string, 32)
	go func() {
		defer close(ch)
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		br := bufio.NewReader(conn)
		fmt.Fprintf(conn, "220 fake ESMTP\r\n")
		for {
			line, err := br.ReadString('\n')
			if err != nil {
				return
			}
			line = strings.TrimRight(line, "\r\n")
			ch <- line

			switch {
			case strings.HasPrefix(line, "EHLO"), strings.HasPrefix(line, "HELO"):
				fmt.Fprintf(conn, "250 fake\r\n")
			case line == "DATA":
				fmt.Fprintf(conn, "354 go ahead\r\n")
				for {
					dl, err := br.ReadString('\n')
					if err != nil {
						return
					}
					if dl == ".\r\n" {
						break
					}
				}
				fmt.Fprintf(conn, "250 accepted\r\n")
			case line == "QUIT":
				fmt.Fprintf(conn, "221 bye\r\n")
				return
			default:
				fmt.Fprintf(conn, "250 ok\r\n")
			}
		}
	}()

	return ln.Addr().String(), ch
}

func TestSendUsesBareEnvelopeAddress(t *testing.T) {
	addr, commands := fakeRelay(t)

	m := NewSMTPMailer(addr, "", "", "VerifyIt", "alerts@verifyit.example", zap.NewNop())
	err := m.Send(context.Background(), "user@example.com", "Fraud Alert", "plain body", "<p>html body</p>")
	require.NoError(t, err)

	var mailFrom, rcptTo string
	for line := range commands {
		if strings.HasPrefix(line, "MAIL FROM:") {
			mailFrom = line
		}
		if strings.HasPrefix(line, "RCPT TO:") {
			rcptTo = line
		}
	}

	// The envelope carries the bare address; the display name belongs to
	// the From: header only.
	assert.Equal(t, "MAIL FROM:<alerts@verifyit.example>", mailFrom)
	assert.Equal(t, "RCPT TO:<user@example.com>", rcptTo)
}

func TestBuildMessageHeaders(t *testing.T) {
	m := NewSMTPMailer("127.0.0.1:25", "", "", "VerifyIt", "alerts@verifyit.example", zap.NewNop())
	assert.Equal(t, "alerts@verifyit.example", m.fromAddr)
	assert.Equal(t, "VerifyIt <alerts@verifyit.example>", m.fromHeader)

	msg, err := buildMessage(m.fromHeader, "user@example.com", "Fraud Alert", "plain body", "<p>html body</p>")
	require.NoError(t, err)

	raw := string(msg)
	assert.Contains(t, raw, "From: VerifyIt <alerts@verifyit.example>\r\n")
	assert.Contains(t, raw, "To: user@example.com\r\n")
	assert.Contains(t, raw, "Content-Type: multipart/alternative;")
	assert.Contains(t, raw, "plain body")
	assert.Contains(t, raw, "<p>html body</p>")
}

func TestSendWithoutDisplayName(t *testing.T) {
	m := NewSMTPMailer("127.0.0.1:25", "", "", "", "alerts@verifyit.example", zap.NewNop())
	assert.Equal(t, "alerts@verifyit.example", m.fromHeader)
}
