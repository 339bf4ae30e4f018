//go:build unit

package eventbus_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"car-rental/internal/infra/eventbus"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReader serves a fixed message sequence, then EOF.
type scriptedReader struct {
	sequence []any // kafka.Message or error
	pos      int
	closed   bool
}

func (r *scriptedReader) ReadMessage(_ context.Context) (kafka.Message, error) {
	if r.pos >= len(r.sequence) {
		return kafka.Message{}, io.EOF
	}
	item := r.sequence[r.pos]
	r.pos++
	if err, ok := item.(error); ok {
		return kafka.Message{}, err
	}
	return item.(kafka.Message), nil
}

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

type collectingHandler struct {
	records []eventbus.Record
	errOn   string
}

func (h *collectingHandler) Handle(_ context.Context, rec eventbus.Record) error {
	h.records = append(h.records, rec)
	if rec.Key == h.errOn {
		return errors.New("poison record")
	}
	return nil
}

func TestConsumerRun(t *testing.T) {
	t.Run("delivers every record to the handler", func(t *testing.T) {
		reader := &scriptedReader{sequence: []any{
			kafka.Message{Key: []byte("100"), Value: []byte(`{"name":"Alice"}`)},
			kafka.Message{Key: []byte("100")},
		}}
		handler := &collectingHandler{}
		c := eventbus.NewConsumerWithReader("user-events", reader, handler)

		require.NoError(t, c.Run(context.Background()))

		require.Len(t, handler.records, 2)
		assert.Equal(t, "100", handler.records[0].Key)
		assert.Empty(t, handler.records[1].Value)
	})

	t.Run("handler failure does not stop the loop", func(t *testing.T) {
		reader := &scriptedReader{sequence: []any{
			kafka.Message{Key: []byte("bad")},
			kafka.Message{Key: []byte("100"), Value: []byte(`{}`)},
		}}
		handler := &collectingHandler{errOn: "bad"}
		c := eventbus.NewConsumerWithReader("user-events", reader, handler)

		require.NoError(t, c.Run(context.Background()))
		assert.Len(t, handler.records, 2)
	})

	t.Run("transient read errors are skipped", func(t *testing.T) {
		reader := &scriptedReader{sequence: []any{
			errors.New("broker unreachable"),
			kafka.Message{Key: []byte("100"), Value: []byte(`{}`)},
		}}
		handler := &collectingHandler{}
		c := eventbus.NewConsumerWithReader("user-events", reader, handler)

		require.NoError(t, c.Run(context.Background()))
		assert.Len(t, handler.records, 1)
	})

	t.Run("cancellation stops the loop cleanly", func(t *testing.T) {
		reader := &scriptedReader{sequence: []any{context.Canceled}}
		c := eventbus.NewConsumerWithReader("user-events", reader, &collectingHandler{})

		done := make(chan error, 1)
		go func() { done <- c.Run(context.Background()) }()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("consumer did not stop")
		}
	})

	t.Run("close closes the reader", func(t *testing.T) {
		reader := &scriptedReader{}
		c := eventbus.NewConsumerWithReader("user-events", reader, &collectingHandler{})

		require.NoError(t, c.Close())
		assert.True(t, reader.closed)
	})
}
