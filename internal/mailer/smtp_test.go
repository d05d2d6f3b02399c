package mailer

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"dp-catalog/internal/enquiry"
)

func testConfig() Config {
	return Config{Host: "smtp.example.com", Port: 587, Username: "shop@example.com", Password: "secret", Timeout: time.Second}
}

func TestSend_BuildsMessage(t *testing.T) {
	s := NewSMTP(testConfig())

	var got *mail.Msg
	s.dial = func(_ context.Context, msg *mail.Msg) error {
		got = msg
		return nil
	}

	err := s.Send(context.Background(), enquiry.Message{
		To:      "buyer@example.com",
		Subject: "Thank you",
		HTML:    "<p>hello</p>",
	})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, []string{"<shop@example.com>"}, got.GetFromString())
	assert.Equal(t, []string{"<buyer@example.com>"}, got.GetToString())

	var buf bytes.Buffer
	_, err = got.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Subject: Thank you")
	assert.Contains(t, buf.String(), "text/html")
}

func TestSend_InvalidRecipient(t *testing.T) {
	s := NewSMTP(testConfig())
	called := false
	s.dial = func(context.Context, *mail.Msg) error {
		called = true
		return nil
	}

	err := s.Send(context.Background(), enquiry.Message{To: "not an address"})
	require.Error(t, err)
	assert.False(t, called)
}

func TestSend_MissingSender(t *testing.T) {
	cfg := testConfig()
	cfg.Username = ""
	s := NewSMTP(cfg)

	err := s.Send(context.Background(), enquiry.Message{To: "buyer@example.com"})
	require.Error(t, err)
}

func TestSend_WrapsRelayError(t *testing.T) {
	s := NewSMTP(testConfig())
	relayErr := errors.New("535 5.7.8 Username and Password not accepted")
	s.dial = func(context.Context, *mail.Msg) error { return relayErr }

	err := s.Send(context.Background(), enquiry.Message{To: "buyer@example.com", Subject: "s", HTML: "h"})
	require.Error(t, err)
	assert.ErrorIs(t, err, relayErr)
	assert.Contains(t, err.Error(), "buyer@example.com")
}
