package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPurger struct {
	calls   []time.Time
	deleted int64
	err     error
}

func (p *recordingPurger) DeleteStaleUnverified(_ context.Context, olderThan time.Time) (int64, error) {
	p.calls = append(p.calls, olderThan)
	return p.deleted, p.err
}

func TestHandlePurgeUnverified(t *testing.T) {
	purger := &recordingPurger{deleted: 3}
	processor := NewProcessor(purger, 7*24*time.Hour, zerolog.Nop())

	msg := redis.XMessage{ID: "1-0", Values: map[string]interface{}{"type": "purge-unverified"}}
	require.NoError(t, processor.Handle(context.Background(), msg))

	require.Len(t, purger.calls, 1)
	wantCutoff := time.Now().Add(-7 * 24 * time.Hour)
	assert.WithinDuration(t, wantCutoff, purger.calls[0], time.Minute)
}

func TestHandleUnknownTaskIsAcked(t *testing.T) {
	purger := &recordingPurger{}
	processor := NewProcessor(purger, 0, zerolog.Nop())

	// unknown types are logged and dropped, not retried forever
	msg := redis.XMessage{ID: "1-0", Values: map[string]interface{}{"type": "defrost-freezer"}}
	assert.NoError(t, processor.Handle(context.Background(), msg))
	assert.Empty(t, purger.calls)
}

func TestMaxAgeDefault(t *testing.T) {
	processor := NewProcessor(&recordingPurger{}, 0, zerolog.Nop())
	assert.Equal(t, 30*24*time.Hour, processor.unverifiedMaxAge)
}
