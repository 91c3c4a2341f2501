package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/shipmarket/internal/logging"
	skafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []skafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...skafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublish(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaProducerWithWriter(fw, logging.Nop{})

	err := p.Publish(context.Background(), Event{Type: OrderCreated, Key: "order-1", TokenID: "42"})
	require.NoError(t, err)
	require.Len(t, fw.msgs, 1)

	msg := fw.msgs[0]
	assert.Equal(t, "order-1", string(msg.Key))
	assert.Equal(t, "type", msg.Headers[0].Key)
	assert.Equal(t, OrderCreated, string(msg.Headers[0].Value))

	var got Event
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "42", got.TokenID)
	assert.False(t, got.OccurredAt.IsZero())
}

func TestPublish_WriteError(t *testing.T) {
	fw := &fakeWriter{err: errors.New("leader not available")}
	p := NewKafkaProducerWithWriter(fw, logging.Nop{})

	err := p.Publish(context.Background(), Event{Type: MatchCreated, Key: "m"})
	assert.ErrorContains(t, err, "kafka write: leader not available")
}

func TestClose(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaProducerWithWriter(fw, logging.Nop{})
	require.NoError(t, p.Close())
	assert.True(t, fw.closed)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), Event{}))
	assert.NoError(t, p.Close())
}
