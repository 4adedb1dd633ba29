// Package settings owns the feed algorithm configuration read by every feed load
// and written by the admin panel.
package settings

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// Key is the settings-store key holding FeedSettings.
const Key = "feed"

type Mode string

const (
	ModeFollowing Mode = "following"
	ModeMixed     Mode = "mixed"
	ModeDiscover  Mode = "discover"
)

// MaxFeedLimit bounds the page size the ranking function is asked for.
const MaxFeedLimit = 100

// FeedSettings is passed to the feed ranking function.
type FeedSettings struct {
	Mode           Mode    `json:"mode"`
	DiscoveryRatio float64 `json:"discoveryRatio"`
	FeedLimit      int     `json:"feedLimit"`
}

// Defaults is used whenever no valid settings have been stored.
func Defaults() FeedSettings {
	return FeedSettings{Mode: ModeMixed, DiscoveryRatio: 0.3, FeedLimit: 20}
}

var ErrInvalid = errors.New("invalid feed settings")

func (s FeedSettings) Validate() error {
	switch s.Mode {
	case ModeFollowing, ModeMixed, ModeDiscover:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalid, s.Mode)
	}
	if s.DiscoveryRatio < 0 || s.DiscoveryRatio > 1 {
		return fmt.Errorf("%w: discoveryRatio must be within [0,1]", ErrInvalid)
	}
	if s.FeedLimit < 1 || s.FeedLimit > MaxFeedLimit {
		return fmt.Errorf("%w: feedLimit must be within [1,%d]", ErrInvalid, MaxFeedLimit)
	}
	return nil
}

// Cache holds the current settings for this process. Set replaces the whole value.
type Cache interface {
	Get() (FeedSettings, bool)
	Set(FeedSettings)
	Invalidate()
}

// MemoryCache is a Cache safe for concurrent use.
type MemoryCache struct {
	v atomic.Pointer[FeedSettings]
}

func NewMemoryCache() *MemoryCache { return &MemoryCache{} }

func (c *MemoryCache) Get() (FeedSettings, bool) {
	p := c.v.Load()
	if p == nil {
		return FeedSettings{}, false
	}
	return *p, true
}

func (c *MemoryCache) Set(s FeedSettings) { c.v.Store(&s) }

func (c *MemoryCache) Invalidate() { c.v.Store(nil) }
