// Package catalog keeps the read-mostly exercise catalog in memory in front of
// the document store.
package catalog

import (
	"context"
	"log"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"simplefit/internal/domain"
	"simplefit/internal/repository"
)

// Source is the backing store the cache reads through to.
type Source interface {
	GetByID(ctx context.Context, id string) (*domain.Exercise, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Exercise, error)
	GetAll(ctx context.Context) ([]domain.Exercise, error)
	GetByMuscleGroup(ctx context.Context, muscleGroup string) ([]domain.Exercise, error)
	GetByEquipment(ctx context.Context, equipment string) ([]domain.Exercise, error)
	SearchByName(ctx context.Context, query string) ([]domain.Exercise, error)
	Filter(ctx context.Context, f repository.ExerciseFilter) ([]domain.Exercise, error)
	EquipmentTypes(ctx context.Context) ([]string, error)
}

// LoadState reports how much of the catalog the cache holds.
type LoadState int

const (
	Cold LoadState = iota
	Partial
	FullyLoaded
)

func (s LoadState) String() string {
	switch s {
	case Cold:
		return "cold"
	case Partial:
		return "partial"
	case FullyLoaded:
		return "fully_loaded"
	default:
		return "unknown"
	}
}

const allKey = "\x00all"

// fetchTimeout bounds a shared fetch once it no longer follows any caller's context.
const fetchTimeout = 30 * time.Second

// Cache is a read-through cache of catalog exercises, safe for concurrent use.
//
// Concurrent lookups of the same missing id share one store fetch. Once GetAll
// has succeeded every query is answered from memory until ClearCache.
// Returned records share backing arrays with the cache and must not be modified.
type Cache struct {
	src     Source
	flights singleflight.Group

	mu    sync.RWMutex
	byID  map[string]domain.Exercise
	state LoadState
	gen   uint64 // bumped by ClearCache; stale fetches do not repopulate
}

func New(src Source) *Cache {
	return &Cache{src: src, byID: make(map[string]domain.Exercise)}
}

func (c *Cache) State() LoadState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Len is the number of cached exercises.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

// ClearCache drops every cached record and returns to Cold.
func (c *Cache) ClearCache() {
	c.mu.Lock()
	c.byID = make(map[string]domain.Exercise)
	c.state = Cold
	c.gen++
	c.mu.Unlock()
	log.Println("INFO: [Catalog] cache cleared")
}

// Get returns one exercise, fetching it on a miss. Unknown ids fail with
// repository.ErrNotFound.
func (c *Cache) Get(ctx context.Context, id string) (*domain.Exercise, error) {
	if ex, ok := c.lookup(id); ok {
		return &ex, nil
	}

	v, err := c.share(ctx, id, func(ctx context.Context) (interface{}, error) {
		if ex, ok := c.lookup(id); ok {
			return ex, nil
		}
		if c.State() == FullyLoaded {
			return nil, repository.ErrNotFound
		}
		gen := c.generation()
		ex, err := c.src.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		c.store(gen, []domain.Exercise{*ex}, false)
		return *ex, nil
	})
	if err != nil {
		return nil, err
	}
	ex := v.(domain.Exercise)
	return &ex, nil
}

// GetAll returns the whole catalog sorted by name. The first call loads it
// from the store; later calls are served from memory.
func (c *Cache) GetAll(ctx context.Context) ([]domain.Exercise, error) {
	if c.State() == FullyLoaded {
		return c.snapshot(nil), nil
	}

	_, err := c.share(ctx, allKey, func(ctx context.Context) (interface{}, error) {
		if c.State() == FullyLoaded {
			return nil, nil
		}
		gen := c.generation()
		all, err := c.src.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		c.store(gen, all, true)
		log.Printf("INFO: [Catalog] loaded %d exercises", len(all))
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return c.snapshot(nil), nil
}

// GetByIDs returns the known exercises among ids in input order. Misses are
// fetched in a single store query; ids unknown to the store are skipped.
func (c *Cache) GetByIDs(ctx context.Context, ids []string) ([]domain.Exercise, error) {
	found := make(map[string]domain.Exercise, len(ids))
	var missing []string

	c.mu.RLock()
	full := c.state == FullyLoaded
	gen := c.gen
	for _, id := range ids {
		if ex, ok := c.byID[id]; ok {
			found[id] = ex
		} else if !slices.Contains(missing, id) {
			missing = append(missing, id)
		}
	}
	c.mu.RUnlock()

	if len(missing) > 0 && !full {
		fetched, err := c.src.GetByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		c.store(gen, fetched, false)
		for _, ex := range fetched {
			found[ex.ID] = ex
		}
	}

	out := make([]domain.Exercise, 0, len(ids))
	for _, id := range ids {
		if ex, ok := found[id]; ok {
			out = append(out, ex)
		}
	}
	return out, nil
}

// Details is GetByIDs keyed by id, the shape the materializer consumes.
func (c *Cache) Details(ctx context.Context, ids []string) (map[string]domain.Exercise, error) {
	list, err := c.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	details := make(map[string]domain.Exercise, len(list))
	for _, ex := range list {
		details[ex.ID] = ex
	}
	return details, nil
}

// Search matches query as a case-insensitive substring of the exercise name.
// An empty query returns the whole catalog.
func (c *Cache) Search(ctx context.Context, query string) ([]domain.Exercise, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.GetAll(ctx)
	}
	needle := strings.ToLower(query)
	return c.query(ctx,
		func(e *domain.Exercise) bool { return strings.Contains(strings.ToLower(e.Name), needle) },
		func() ([]domain.Exercise, error) { return c.src.SearchByName(ctx, query) },
	)
}

func (c *Cache) GetByMuscleGroup(ctx context.Context, muscleGroup string) ([]domain.Exercise, error) {
	return c.Filter(ctx, repository.ExerciseFilter{MuscleGroup: muscleGroup})
}

func (c *Cache) GetByEquipment(ctx context.Context, equipment string) ([]domain.Exercise, error) {
	return c.Filter(ctx, repository.ExerciseFilter{Equipment: equipment})
}

// Filter applies every non-zero field of f.
func (c *Cache) Filter(ctx context.Context, f repository.ExerciseFilter) ([]domain.Exercise, error) {
	if f == (repository.ExerciseFilter{}) {
		return c.GetAll(ctx)
	}
	return c.query(ctx,
		func(e *domain.Exercise) bool { return Matches(e, f) },
		func() ([]domain.Exercise, error) {
			switch {
			case f.MuscleGroup != "" && f.Equipment == "" && f.Difficulty == "" && f.Compound == nil:
				return c.src.GetByMuscleGroup(ctx, f.MuscleGroup)
			case f.Equipment != "" && f.MuscleGroup == "" && f.Difficulty == "" && f.Compound == nil:
				return c.src.GetByEquipment(ctx, f.Equipment)
			default:
				return c.src.Filter(ctx, f)
			}
		},
	)
}

// EquipmentTypes lists the distinct equipment tags, sorted.
func (c *Cache) EquipmentTypes(ctx context.Context) ([]string, error) {
	if c.State() != FullyLoaded {
		types, err := c.src.EquipmentTypes(ctx)
		if err != nil {
			return nil, err
		}
		sort.Strings(types)
		return types, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	types := []string{}
	for _, ex := range c.byID {
		if ex.Equipment != "" && !slices.Contains(types, ex.Equipment) {
			types = append(types, ex.Equipment)
		}
	}
	sort.Strings(types)
	return types, nil
}

// Matches reports whether e satisfies every non-zero field of f.
func Matches(e *domain.Exercise, f repository.ExerciseFilter) bool {
	if f.MuscleGroup != "" && !slices.Contains(e.MuscleGroups, f.MuscleGroup) {
		return false
	}
	if f.Equipment != "" && e.Equipment != f.Equipment {
		return false
	}
	if f.Difficulty != "" && e.Difficulty != f.Difficulty {
		return false
	}
	if f.Compound != nil && e.IsCompound != *f.Compound {
		return false
	}
	return true
}

// query answers from memory when the catalog is fully loaded, otherwise asks
// the store and caches what comes back.
func (c *Cache) query(ctx context.Context, match func(*domain.Exercise) bool, fetch func() ([]domain.Exercise, error)) ([]domain.Exercise, error) {
	if c.State() == FullyLoaded {
		return c.snapshot(match), nil
	}
	gen := c.generation()
	list, err := fetch()
	if err != nil {
		return nil, err
	}
	c.store(gen, list, false)
	sortByName(list)
	return list, nil
}

// share runs fetch once per key for all concurrent callers. The fetch runs
// detached from the caller's cancellation: a caller that gives up gets
// ctx.Err() while the fetch carries on and still fills the cache for the others.
func (c *Cache) share(ctx context.Context, key string, fetch func(context.Context) (interface{}, error)) (interface{}, error) {
	ch := c.flights.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return fetch(fetchCtx)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) lookup(id string) (domain.Exercise, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ex, ok := c.byID[id]
	return ex, ok
}

func (c *Cache) generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// store caches list unless ClearCache ran since gen was read. complete marks
// the list as the whole catalog.
func (c *Cache) store(gen uint64, list []domain.Exercise, complete bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	if complete {
		c.byID = make(map[string]domain.Exercise, len(list))
	}
	for _, ex := range list {
		if ex.ID == "" {
			continue
		}
		c.byID[ex.ID] = ex
	}
	switch {
	case complete:
		c.state = FullyLoaded
	case c.state == Cold && len(c.byID) > 0:
		c.state = Partial
	}
}

func (c *Cache) snapshot(match func(*domain.Exercise) bool) []domain.Exercise {
	c.mu.RLock()
	out := make([]domain.Exercise, 0, len(c.byID))
	for _, ex := range c.byID {
		if match == nil || match(&ex) {
			out = append(out, ex)
		}
	}
	c.mu.RUnlock()
	sortByName(out)
	return out
}

func sortByName(list []domain.Exercise) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
}
