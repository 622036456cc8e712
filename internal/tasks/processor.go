package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AccountPurger is the repository slice the maintenance tasks need.
type AccountPurger interface {
	DeleteStaleUnverified(ctx context.Context, olderThan time.Time) (int64, error)
}

type Processor struct {
	accounts         AccountPurger
	unverifiedMaxAge time.Duration
	logger           zerolog.Logger
}

type TaskPayload struct {
	Type string `json:"type"`
}

func NewProcessor(accounts AccountPurger, unverifiedMaxAge time.Duration, logger zerolog.Logger) *Processor {
	if unverifiedMaxAge <= 0 {
		unverifiedMaxAge = 30 * 24 * time.Hour
	}
	return &Processor{
		accounts:         accounts,
		unverifiedMaxAge: unverifiedMaxAge,
		logger:           logger,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	var payload TaskPayload
	if err := decodePayload(msg.Values, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	switch payload.Type {
	case "purge-unverified":
		return p.handlePurgeUnverified(ctx)
	default:
		p.logger.Warn().Str("type", payload.Type).Msg("unknown task type")
		return nil
	}
}

// handlePurgeUnverified removes accounts that registered but never opened
// the confirmation link. Verified accounts are never touched.
func (p *Processor) handlePurgeUnverified(ctx context.Context) error {
	cutoff := time.Now().Add(-p.unverifiedMaxAge)
	deleted, err := p.accounts.DeleteStaleUnverified(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge unverified accounts: %w", err)
	}

	p.logger.Info().
		Int64("deleted", deleted).
		Time("cutoff", cutoff).
		Msg("stale unverified accounts purged")
	return nil
}

func decodePayload(values map[string]interface{}, out *TaskPayload) error {
	bytes, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, out)
}
