package node

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu       sync.Mutex
	subjects []string
	closed   bool
}

func (s *recordingSender) SendMessage(subject string, _ []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects = append(s.subjects, subject)
	return nil
}

func (s *recordingSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func TestNatsWorkerFlushesOnClose(t *testing.T) {
	sender := &recordingSender{}
	worker := NewNatsWorker()
	worker.Start(sender)

	for i := 0; i < 20; i++ {
		require.NoError(t, worker.Publish("anyjara.batch.progress", []byte("{}")))
	}
	worker.Close()

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Len(t, sender.subjects, 20)
	assert.True(t, sender.closed)
}

func TestNatsWorkerRejectsAfterClose(t *testing.T) {
	worker := NewNatsWorker()
	worker.Start(&recordingSender{})
	worker.Close()
	worker.Close()

	assert.ErrorIs(t, worker.Publish("x", nil), ErrClosed)
}

func TestNatsClientNotConnected(t *testing.T) {
	cli := NewNatsClient()
	assert.ErrorIs(t, cli.SendMessage("x", nil), ErrNotConnected)
	assert.NoError(t, cli.Close())
}
