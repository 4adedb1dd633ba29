package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fairway/backend/pkg/logger"
)

// InvalidationChannel carries the id of the instance that last replaced the settings.
const InvalidationChannel = "fairway:settings"

// Store persists raw setting values by key.
type Store interface {
	GetSetting(ctx context.Context, key string) ([]byte, bool, error)
	PutSetting(ctx context.Context, key string, value []byte) error
}

// ErrUnavailable wraps store read failures.
var ErrUnavailable = errors.New("feed settings unavailable")

// Provider reads feed settings through the cache and writes them through to the store.
type Provider struct {
	cache      Cache
	store      Store
	rdb        *redis.Client
	instanceID string
}

// NewProvider wires a provider. rdb may be nil for single-instance deployments.
func NewProvider(cache Cache, store Store, rdb *redis.Client) *Provider {
	return &Provider{cache: cache, store: store, rdb: rdb, instanceID: uuid.NewString()}
}

// Current returns the cached settings, loading them on a miss. Store failures and invalid
// stored values yield the defaults.
func (p *Provider) Current(ctx context.Context) FeedSettings {
	if s, ok := p.cache.Get(); ok {
		return s
	}
	s, err := p.load(ctx)
	if err != nil {
		logger.Warn("feed settings unavailable, using defaults", zap.Error(err))
		return Defaults()
	}
	p.cache.Set(s)
	return s
}

// Refresh reloads the settings from the store into the cache.
func (p *Provider) Refresh(ctx context.Context) error {
	s, err := p.load(ctx)
	if err != nil {
		return err
	}
	p.cache.Set(s)
	return nil
}

func (p *Provider) load(ctx context.Context) (FeedSettings, error) {
	raw, found, err := p.store.GetSetting(ctx, Key)
	if err != nil {
		return FeedSettings{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	s := Defaults()
	if !found {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return FeedSettings{}, fmt.Errorf("decode feed settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return FeedSettings{}, err
	}
	return s, nil
}

// Replace validates and persists s, then swaps it into the cache and tells other
// instances to drop theirs.
func (p *Provider) Replace(ctx context.Context, s FeedSettings) (FeedSettings, error) {
	if err := s.Validate(); err != nil {
		return FeedSettings{}, err
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return FeedSettings{}, err
	}
	if err := p.store.PutSetting(ctx, Key, raw); err != nil {
		return FeedSettings{}, fmt.Errorf("save feed settings: %w", err)
	}
	p.cache.Set(s)
	p.publish(ctx)
	return s, nil
}

// Patch applies a JSON merge patch to the current settings and replaces them with the result.
// It refuses to patch when the stored settings cannot be read; an invalid stored value is
// patched over the defaults.
func (p *Provider) Patch(ctx context.Context, patch []byte) (FeedSettings, error) {
	base, ok := p.cache.Get()
	if !ok {
		s, err := p.load(ctx)
		switch {
		case errors.Is(err, ErrUnavailable):
			return FeedSettings{}, err
		case err != nil:
			logger.Warn("stored feed settings invalid, patching defaults", zap.Error(err))
			s = Defaults()
		}
		base = s
	}
	current, err := json.Marshal(base)
	if err != nil {
		return FeedSettings{}, err
	}
	merged, err := jsonpatch.MergePatch(current, patch)
	if err != nil {
		return FeedSettings{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	var next FeedSettings
	if err := json.Unmarshal(merged, &next); err != nil {
		return FeedSettings{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return p.Replace(ctx, next)
}

func (p *Provider) publish(ctx context.Context) {
	if p.rdb == nil {
		return
	}
	if err := p.rdb.Publish(ctx, InvalidationChannel, p.instanceID).Err(); err != nil {
		logger.Warn("publish settings invalidation failed", zap.Error(err))
	}
}

// Listen drops the cached settings whenever another instance replaces them.
// It blocks until ctx is done.
func (p *Provider) Listen(ctx context.Context) error {
	if p.rdb == nil {
		<-ctx.Done()
		return nil
	}
	pubsub := p.rdb.Subscribe(ctx, InvalidationChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", InvalidationChannel, err)
	}
	logger.Info("listening for settings invalidations", zap.String("channel", InvalidationChannel))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if msg.Payload == p.instanceID {
				continue
			}
			p.cache.Invalidate()
			logger.Debug("feed settings invalidated", zap.String("by", msg.Payload))
		}
	}
}
