package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func TestSendGridSend(t *testing.T) {
	var calls int32
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			n := atomic.AddInt32(&calls, 1)
			require.Equal(t, "/v3/mail/send", req.URL.Path)
			require.Equal(t, "Bearer SG.test", req.Header.Get("Authorization"))

			var wire mailSendRequest
			require.NoError(t, json.NewDecoder(req.Body).Decode(&wire))
			require.Equal(t, "site@example.com", wire.From.Email)
			require.Equal(t, "Portfolio Contact: Hello", wire.Subject)
			require.Len(t, wire.Content, 2)
			require.Equal(t, "text/plain", wire.Content[0].Type)

			if n == 1 {
				return &http.Response{StatusCode: http.StatusServiceUnavailable, Body: io.NopCloser(strings.NewReader(`{"errors":[{"message":"busy"}]}`)), Header: http.Header{}}, nil
			}
			return &http.Response{StatusCode: http.StatusAccepted, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{"X-Message-Id": []string{"abc"}}}, nil
		}),
	}

	sg, err := NewSendGridWithHTTPClient(logger.NewNop(), SendGridConfig{
		APIKey:           "SG.test",
		DefaultFromEmail: "site@example.com",
		MaxRetries:       1,
		RetryBackoff:     time.Millisecond,
	}, client)
	require.NoError(t, err)

	err = sg.Send(context.Background(), Message{
		To:      []Address{{Email: "admin@example.com"}},
		Subject: "Portfolio Contact: Hello",
		Text:    "hi",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestSendGridClientErrorNotRetried(t *testing.T) {
	var calls int32
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			atomic.AddInt32(&calls, 1)
			return &http.Response{StatusCode: http.StatusBadRequest, Body: io.NopCloser(strings.NewReader(`{"errors":[{"message":"bad from"}]}`)), Header: http.Header{}}, nil
		}),
	}
	sg, err := NewSendGridWithHTTPClient(logger.NewNop(), SendGridConfig{APIKey: "k", DefaultFromEmail: "a@b.c", MaxRetries: 3, RetryBackoff: time.Millisecond}, client)
	require.NoError(t, err)

	err = sg.Send(context.Background(), Message{To: []Address{{Email: "x@y.z"}}, Subject: "s", Text: "t"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad from")
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestBuildMIME(t *testing.T) {
	raw, err := buildMIME(Message{
		From:    Address{Email: "site@example.com", Name: "Portfolio"},
		To:      []Address{{Email: "ada@example.com", Name: "Ada"}},
		ReplyTo: &Address{Email: "ada@example.com"},
		Subject: "Thanks for reaching out, Ada!",
		Text:    "Hi Ada,",
		HTML:    "<p>Hi Ada,</p>",
	}, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	s := string(raw)
	require.Contains(t, s, "From: Portfolio <site@example.com>\r\n")
	require.Contains(t, s, "To: Ada <ada@example.com>\r\n")
	require.Contains(t, s, "Reply-To: ada@example.com\r\n")
	require.Contains(t, s, "Subject: Thanks for reaching out, Ada!\r\n")
	require.Contains(t, s, "Content-Type: multipart/alternative;")
	require.Contains(t, s, "text/plain; charset=utf-8")
	require.Contains(t, s, "text/html; charset=utf-8")
	require.Contains(t, s, "<p>Hi Ada,</p>")
}

func TestNewPicksProvider(t *testing.T) {
	m, err := New(Config{}, nil)
	require.NoError(t, err)
	require.IsType(t, &Log{}, m)

	m, err = New(Config{SMTP: SMTPConfig{Host: "smtp.example.com"}}, nil)
	require.NoError(t, err)
	require.IsType(t, &SMTP{}, m)

	m, err = New(Config{SendGrid: SendGridConfig{APIKey: "k"}}, logger.NewNop())
	require.NoError(t, err)
	require.IsType(t, &SendGrid{}, m)

	_, err = New(Config{Provider: "pigeon"}, nil)
	require.Error(t, err)
}

func TestLogMailerRecords(t *testing.T) {
	l := NewLog(nil, Address{Email: "site@example.com"})
	require.NoError(t, l.Send(context.Background(), Message{To: []Address{{Email: "a@b.c"}}, Subject: "s", Text: "t"}))
	sent := l.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, "site@example.com", sent[0].From.Email)

	require.Error(t, l.Send(context.Background(), Message{Subject: "s", Text: "t"}))
}
