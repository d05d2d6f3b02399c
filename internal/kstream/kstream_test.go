package kstream

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dp-catalog/internal/model"
)

type fakeWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

type fakeReader struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(f.msgs) == 0 {
		return kafka.Message{}, f.err
	}
	m := f.msgs[0]
	f.msgs = f.msgs[1:]
	return m, nil
}

func (f *fakeReader) Close() error {
	f.closed = true
	return nil
}

func TestNewProducer_DisabledWithoutBroker(t *testing.T) {
	assert.Nil(t, NewProducer(""))
}

func TestPublishEnquirySubmitted(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{w: w}

	evt := model.EnquirySubmitted{EnquiryID: "e1", Type: model.EnquiryProduct, ProductName: "mRoy", Email: "a@b.com"}
	require.NoError(t, p.PublishEnquirySubmitted(context.Background(), evt))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "mRoy", string(w.msgs[0].Key))

	var got model.EnquirySubmitted
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, evt, got)

	require.NoError(t, p.PublishEnquirySubmitted(context.Background(), model.EnquirySubmitted{Type: model.EnquiryContact}))
	assert.Equal(t, "contact", string(w.msgs[1].Key))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestConsumeEnquiries(t *testing.T) {
	good, _ := json.Marshal(model.EnquirySubmitted{EnquiryID: "e1"})
	failing, _ := json.Marshal(model.EnquirySubmitted{EnquiryID: "e2"})
	readErr := errors.New("broker gone")
	r := &fakeReader{
		msgs: []kafka.Message{{Value: good}, {Value: []byte("{broken")}, {Value: failing}},
		err:  readErr,
	}

	var seen []string
	err := ConsumeEnquiries(context.Background(), r, func(_ context.Context, evt model.EnquirySubmitted) error {
		seen = append(seen, evt.EnquiryID)
		if evt.EnquiryID == "e2" {
			return errors.New("redis down")
		}
		return nil
	}, zap.NewNop())

	assert.ErrorIs(t, err, readErr)
	assert.Equal(t, []string{"e1", "e2"}, seen)
	assert.True(t, r.closed)
}

func TestConsumeEnquiries_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &fakeReader{err: context.Canceled}

	err := ConsumeEnquiries(ctx, r, func(context.Context, model.EnquirySubmitted) error { return nil }, zap.NewNop())
	assert.NoError(t, err)
}
