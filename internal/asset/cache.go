package asset

import (
	"context"
	"image"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// LoadListener is called once per finished load, from the decoding goroutine.
// err is nil when the asset became Ready.
type LoadListener func(id ID, err error)

type entry struct {
	asset *Asset
	done  chan struct{} // closed when the current load finishes
}

// Cache memoizes decoded sticker assets by fully qualified ID. Assets are
// never evicted. All methods are safe for concurrent use.
type Cache struct {
	mu        sync.Mutex
	source    Source
	entries   map[ID]*entry
	listeners []LoadListener
	group     singleflight.Group
	log       *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithLogger sets the logger used for load results.
func WithLogger(l *zap.Logger) CacheOption {
	return func(c *Cache) { c.log = l }
}

// NewCache creates a cache that loads through source.
func NewCache(source Source, opts ...CacheOption) *Cache {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		source:  source,
		entries: make(map[ID]*entry),
		log:     zap.NewNop(),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Close cancels loads still in flight. Their assets end up Failed.
func (c *Cache) Close() {
	c.cancel()
}

// OnLoaded registers a listener for finished loads.
func (c *Cache) OnLoaded(fn LoadListener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Get returns the asset for id. The first reference starts an asynchronous
// decode and returns a Pending placeholder.
func (c *Cache) Get(id ID) *Asset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookupLocked(id).asset
}

// Resolve returns a Ready asset, ErrNotReady while the decode is running,
// or a *LoadError if it failed.
func (c *Cache) Resolve(id ID) (*Asset, error) {
	a := c.Get(id)
	switch a.State() {
	case StateReady:
		return a, nil
	case StateFailed:
		return nil, &LoadError{ID: id, Err: a.Err()}
	default:
		return nil, ErrNotReady
	}
}

// Wait blocks until id has finished loading or ctx is done.
func (c *Cache) Wait(ctx context.Context, id ID) (*Asset, error) {
	c.mu.Lock()
	e := c.lookupLocked(id)
	done := e.done
	c.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return c.Resolve(id)
}

// Preload loads every id concurrently and waits for all of them. It returns
// the first failure.
func (c *Cache) Preload(ctx context.Context, ids ...ID) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			_, err := c.Wait(ctx, id)
			return err
		})
	}
	return g.Wait()
}

// Retry restarts the load of a Failed asset. Other states are left alone.
func (c *Cache) Retry(id ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		c.lookupLocked(id)
		return
	}
	if e.asset.State() != StateFailed {
		return
	}
	c.restartLocked(id, e)
}

// RetryFailed restarts every Failed load and reports how many it restarted.
func (c *Cache) RetryFailed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for id, e := range c.entries {
		if e.asset.State() == StateFailed {
			c.restartLocked(id, e)
			n++
		}
	}
	return n
}

func (c *Cache) restartLocked(id ID, e *entry) {
	e.asset = &Asset{ID: id, state: StatePending}
	e.done = make(chan struct{})
	c.startLocked(id, e.done)
}

// Len returns the number of known identifiers, in any state.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) lookupLocked(id ID) *entry {
	if e, ok := c.entries[id]; ok {
		return e
	}
	e := &entry{
		asset: &Asset{ID: id, state: StatePending},
		done:  make(chan struct{}),
	}
	c.entries[id] = e
	c.startLocked(id, e.done)
	return e
}

func (c *Cache) startLocked(id ID, done chan struct{}) {
	ch := c.group.DoChan(id.String(), func() (interface{}, error) {
		return c.source.Load(c.ctx, id)
	})
	go func() {
		res := <-ch
		var img image.Image
		if res.Err == nil {
			img, _ = res.Val.(image.Image)
		}
		c.finish(id, done, img, res.Err)
	}()
}

func (c *Cache) finish(id ID, done chan struct{}, img image.Image, err error) {
	if err == nil && (img == nil || img.Bounds().Empty()) {
		err = errEmptyImage
	}

	c.mu.Lock()
	e := c.entries[id]
	if e == nil || e.done != done {
		c.mu.Unlock()
		return
	}
	if err != nil {
		e.asset = &Asset{ID: id, state: StateFailed, err: err}
	} else {
		e.asset = &Asset{ID: id, Image: img, state: StateReady}
	}
	close(e.done)
	listeners := append([]LoadListener(nil), c.listeners...)
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("sticker load failed", zap.Stringer("asset", id), zap.Error(err))
	} else {
		c.log.Debug("sticker loaded", zap.Stringer("asset", id),
			zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	}
	for _, fn := range listeners {
		fn(id, err)
	}
}
