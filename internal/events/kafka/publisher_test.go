package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/accounts-ledger/internal/models/events"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublish(t *testing.T) {
	w := &recordingWriter{}
	p := &Publisher{writer: w}

	err := p.Publish(context.Background(), events.AccountOpenedName, "acct-1", events.AccountOpened{AccountID: "acct-1", HolderID: "H1"})
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "acct-1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, events.AccountOpenedName, string(msg.Headers[0].Value))

	var got events.AccountOpened
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "H1", got.HolderID)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishWriterError(t *testing.T) {
	w := &recordingWriter{err: errors.New("leader not available")}
	p := &Publisher{writer: w}

	err := p.Publish(context.Background(), events.ActPostedName, "acct-1", events.ActPosted{})
	assert.EqualError(t, err, "leader not available")
}

func TestNewPublisher(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "account_events")
	kw, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "account_events", kw.Topic)
}
