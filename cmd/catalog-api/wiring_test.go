package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dp-catalog/internal/config"
	"dp-catalog/internal/model"
)

type brokenReader struct {
	err    error
	closed bool
}

func (r *brokenReader) ReadMessage(context.Context) (kafka.Message, error) {
	return kafka.Message{}, r.err
}

func (r *brokenReader) Close() error {
	r.closed = true
	return nil
}

func TestConsumeEnquiryStream_ReaderFailureIsNotFatal(t *testing.T) {
	reader := &brokenReader{err: errors.New("broker unreachable")}
	handle := func(context.Context, model.EnquirySubmitted) error { return nil }

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		return consumeEnquiryStream(ctx, reader, handle, zap.NewNop())
	})

	require.NoError(t, g.Wait())
	assert.NoError(t, ctx.Err(), "sibling goroutines must keep running")
	assert.True(t, reader.closed)
}

func TestNewEnquiryStack_WiresConfiguredCollaborators(t *testing.T) {
	cfg := config.Default()
	cfg.Enquiry.FailedDir = t.TempDir()
	cfg.Webhook.URL = "http://127.0.0.1:1/notify"
	cfg.Webhook.Timeout = time.Second
	cfg.Kafka.Broker = "127.0.0.1:9092"
	cfg.Redis.Addr = "127.0.0.1:6379"

	st := newEnquiryStack(cfg, zap.NewNop())
	defer st.Close()

	assert.NotNil(t, st.svc)
	assert.NotNil(t, st.opts.Notifier)
	assert.NotNil(t, st.opts.Events)
	assert.NotNil(t, st.opts.Senders)
	assert.NotNil(t, st.opts.Failed)
	assert.NotNil(t, st.rdb)
}

func TestNewEnquiryStack_OptionalCollaboratorsOff(t *testing.T) {
	cfg := config.Default()
	cfg.Enquiry.FailedDir = t.TempDir()

	st := newEnquiryStack(cfg, zap.NewNop())
	defer st.Close()

	assert.Nil(t, st.opts.Notifier)
	assert.Nil(t, st.opts.Events)
	assert.Nil(t, st.opts.Senders)
	assert.Nil(t, st.rdb)
	assert.NotNil(t, st.opts.Failed)
}
