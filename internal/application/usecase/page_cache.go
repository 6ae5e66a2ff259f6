package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/bnema/cardex/internal/application/port"
	"github.com/bnema/cardex/internal/domain/entity"
	"github.com/bnema/cardex/internal/logging"
)

const tracerName = "github.com/bnema/cardex/internal/application/usecase"

// PageCache serves catalog pages through a bounded FIFO cache and
// prefetches the following page in the background.
type PageCache struct {
	source port.CharacterSource
	store  port.Cache[entity.PageKey, *entity.Page]
	tracer trace.Tracer

	prefetch        bool
	coalesce        bool
	onPrefetchError func(entity.PageKey, error)

	flights  singleflight.Group
	inflight sync.WaitGroup

	hits             atomic.Int64
	misses           atomic.Int64
	fetches          atomic.Int64
	prefetches       atomic.Int64
	prefetchFailures atomic.Int64
	evictions        atomic.Int64
}

// PageCacheOption configures a PageCache.
type PageCacheOption func(*PageCache)

// WithPrefetch enables or disables next-page prefetching. Enabled by default.
func WithPrefetch(enabled bool) PageCacheOption {
	return func(c *PageCache) { c.prefetch = enabled }
}

// WithCoalescing enables or disables merging concurrent fetches of the same
// page into one remote call. Enabled by default.
func WithCoalescing(enabled bool) PageCacheOption {
	return func(c *PageCache) { c.coalesce = enabled }
}

// WithPrefetchErrorHandler registers a callback for swallowed prefetch failures.
// It runs on the prefetch goroutine.
func WithPrefetchErrorHandler(fn func(entity.PageKey, error)) PageCacheOption {
	return func(c *PageCache) { c.onPrefetchError = fn }
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(tracer trace.Tracer) PageCacheOption {
	return func(c *PageCache) { c.tracer = tracer }
}

// PageCacheStats is a point-in-time view of cache activity.
type PageCacheStats struct {
	Size             int   `json:"size"`
	Hits             int64 `json:"hits"`
	Misses           int64 `json:"misses"`
	Fetches          int64 `json:"fetches"`
	Prefetches       int64 `json:"prefetches"`
	PrefetchFailures int64 `json:"prefetch_failures"`
	Evictions        int64 `json:"evictions"`
}

// NewPageCache creates a page cache reading through source into store.
func NewPageCache(
	source port.CharacterSource,
	store port.Cache[entity.PageKey, *entity.Page],
	opts ...PageCacheOption,
) *PageCache {
	c := &PageCache{
		source:   source,
		store:    store,
		prefetch: true,
		coalesce: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	return c
}

// Get returns a copy of the page for (term, page), fetching it on a miss.
// Failures wrap ErrFetch and leave the cache untouched. After a successful
// lookup the next page is prefetched in the background when it exists and
// is not resident yet.
func (c *PageCache) Get(ctx context.Context, term string, page int) (*entity.Page, error) {
	key := entity.NewPageKey(term, page)
	ctx = logging.WithPageKey(ctx, key)
	log := logging.FromContext(ctx)

	ctx, span := c.tracer.Start(ctx, "pagecache.Get", trace.WithAttributes(
		attribute.String("catalog.term", term),
		attribute.Int("catalog.page", page),
	))
	defer span.End()

	if page < 1 {
		err := fmt.Errorf("%w: %s: %w", ErrFetch, key, ErrInvalidPage)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	entry, hit := c.store.Get(key)
	span.SetAttributes(attribute.Bool("pagecache.hit", hit))
	if hit {
		c.hits.Add(1)
		log.Debug().Msg("page cache hit")
	} else {
		c.misses.Add(1)
		var err error
		entry, err = c.load(ctx, key)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "fetch failed")
			log.Debug().Err(err).Msg("page fetch failed")
			return nil, fmt.Errorf("%w: %s: %w", ErrFetch, key, err)
		}
		log.Debug().Int("results", entry.Len()).Int("total_pages", entry.TotalPages).Msg("page stored in cache")
	}

	c.schedulePrefetch(ctx, key, entry)
	c.logResident(ctx)
	return entry.Clone(), nil
}

// RequestPage is the view-facing variant of Get: any failure is reported
// as ErrNotFound, still wrapping the underlying cause.
func (c *PageCache) RequestPage(ctx context.Context, term string, page int) (*entity.Page, error) {
	entry, err := c.Get(ctx, term, page)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return entry, nil
}

// Contains reports whether (term, page) is resident.
func (c *PageCache) Contains(term string, page int) bool {
	return c.store.Contains(entity.NewPageKey(term, page))
}

// Len returns the number of resident pages.
func (c *PageCache) Len() int {
	return c.store.Len()
}

// Keys returns resident keys oldest first.
func (c *PageCache) Keys() []entity.PageKey {
	return c.store.Keys()
}

// Wait blocks until every prefetch started so far has finished.
func (c *PageCache) Wait() {
	c.inflight.Wait()
}

// Stats returns counters accumulated since creation.
func (c *PageCache) Stats() PageCacheStats {
	return PageCacheStats{
		Size:             c.store.Len(),
		Hits:             c.hits.Load(),
		Misses:           c.misses.Load(),
		Fetches:          c.fetches.Load(),
		Prefetches:       c.prefetches.Load(),
		PrefetchFailures: c.prefetchFailures.Load(),
		Evictions:        c.evictions.Load(),
	}
}

// load fetches key from the source and stores it, merging concurrent
// loads of the same key when coalescing is on.
func (c *PageCache) load(ctx context.Context, key entity.PageKey) (*entity.Page, error) {
	if !c.coalesce {
		return c.fetchAndStore(ctx, key)
	}

	// The shared call must not die with whichever caller started it;
	// each waiter still leaves when its own context is done.
	shared := context.WithoutCancel(ctx)
	ch := c.flights.DoChan(key.String(), func() (any, error) {
		if entry, ok := c.store.Get(key); ok {
			return entry, nil
		}
		return c.fetchAndStore(shared, key)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*entity.Page), nil
	}
}

func (c *PageCache) fetchAndStore(ctx context.Context, key entity.PageKey) (*entity.Page, error) {
	log := logging.FromContext(ctx)

	c.fetches.Add(1)
	fetched, err := c.source.FetchPage(ctx, key.Term, key.Page)
	if err != nil {
		return nil, err
	}
	if fetched == nil {
		return nil, fmt.Errorf("%w: empty response for %s", port.ErrCatalogUnavailable, key)
	}

	entry := &entity.Page{
		Results:    make([]entity.Character, len(fetched.Results)),
		TotalPages: max(fetched.TotalPages, 1),
	}
	copy(entry.Results, fetched.Results)

	evicted := c.store.Set(key, entry)
	for _, k := range evicted {
		c.evictions.Add(1)
		log.Debug().Str("evicted", k.String()).Msg("page evicted from cache")
	}
	return entry, nil
}

func (c *PageCache) schedulePrefetch(ctx context.Context, key entity.PageKey, current *entity.Page) {
	if !c.prefetch {
		return
	}

	next := key.Next()
	log := logging.FromContext(ctx)
	if !current.HasNext(key.Page) || c.store.Contains(next) {
		log.Debug().Str("next", next.String()).Msg("prefetch skipped: already cached or out of range")
		return
	}

	link := trace.LinkFromContext(ctx)
	prefetchLog := log.With().Str("prefetch", next.String()).Logger()
	detached := logging.WithContext(context.WithoutCancel(ctx), prefetchLog)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.prefetchPage(detached, next, link)
	}()
}

func (c *PageCache) prefetchPage(ctx context.Context, key entity.PageKey, link trace.Link) {
	log := logging.FromContext(ctx)
	ctx, span := c.tracer.Start(ctx, "pagecache.Prefetch",
		trace.WithNewRoot(),
		trace.WithLinks(link),
		trace.WithAttributes(
			attribute.String("catalog.term", key.Term),
			attribute.Int("catalog.page", key.Page),
		),
	)
	defer span.End()

	c.prefetches.Add(1)
	if _, err := c.load(ctx, key); err != nil {
		perr := fmt.Errorf("%w: %s: %w", ErrPrefetch, key, err)
		c.prefetchFailures.Add(1)
		span.RecordError(perr)
		span.SetStatus(codes.Error, "prefetch failed")
		log.Warn().Err(perr).Msg("prefetch failed")
		if c.onPrefetchError != nil {
			c.onPrefetchError(key, perr)
		}
		return
	}
	log.Debug().Msg("prefetch stored")
}

func (c *PageCache) logResident(ctx context.Context) {
	log := logging.FromContext(ctx)
	if log.GetLevel() > zerolog.DebugLevel {
		return
	}
	keys := c.store.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	log.Debug().Int("size", len(keys)).Strs("resident", names).Msg("page cache contents")
}
