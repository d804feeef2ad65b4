package pipeline

import (
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/notargets/gopipe/fluids"
)

const DefaultCacheSize = 128

// propertyKey rounds pressure to 1 Pa and temperature to 0.1 K
type propertyKey struct {
	fluid       string
	pressure    int64
	temperature int64
}

func newPropertyKey(fluid string, pressure, temperature float64) propertyKey {
	return propertyKey{
		fluid:       fluid,
		pressure:    int64(math.Round(pressure)),
		temperature: int64(math.Round(temperature * 10)),
	}
}

func (k propertyKey) state() (pressure, temperature float64) {
	return float64(k.pressure), float64(k.temperature) / 10
}

// PropertyCache memoizes oracle lookups. Properties are evaluated at the
// rounded state of their key, so a key always maps to the same values.
type PropertyCache struct {
	oracle fluids.Oracle
	cache  *lru.Cache[propertyKey, *fluids.Properties]
}

func NewPropertyCache(oracle fluids.Oracle, size int) (pc *PropertyCache, err error) {
	var cache *lru.Cache[propertyKey, *fluids.Properties]
	if size <= 0 {
		size = DefaultCacheSize
	}
	if cache, err = lru.New[propertyKey, *fluids.Properties](size); err != nil {
		return
	}
	pc = &PropertyCache{oracle: oracle, cache: cache}
	return
}

func (pc *PropertyCache) Get(f *fluids.Fluid, pressure, temperature float64) (props *fluids.Properties, err error) {
	var (
		key = newPropertyKey(f.Name, pressure, temperature)
		ok  bool
	)
	if props, ok = pc.cache.Get(key); ok {
		return
	}
	P, T := key.state()
	p, err := pc.oracle.PropertiesAt(*f, P, T)
	if err != nil {
		err = fmt.Errorf("%s at %g Pa, %g K: %w", f.Name, P, T, err)
		return
	}
	props = &p
	pc.cache.Add(key, props)
	return
}

func (pc *PropertyCache) Len() int { return pc.cache.Len() }
func (pc *PropertyCache) Purge()   { pc.cache.Purge() }

// segmentKey follows the pipe and its leak count, anything else that changes
// a pipe's segments must purge the cache
type segmentKey struct {
	pipe  *Pipe
	leaks int
}

type segmentCache struct {
	cache *lru.Cache[segmentKey, []PipeSegment]
}

func newSegmentCache(size int) (sc *segmentCache, err error) {
	var cache *lru.Cache[segmentKey, []PipeSegment]
	if size <= 0 {
		size = DefaultCacheSize
	}
	if cache, err = lru.New[segmentKey, []PipeSegment](size); err != nil {
		return
	}
	sc = &segmentCache{cache: cache}
	return
}

func (sc *segmentCache) get(p *Pipe) ([]PipeSegment, bool) {
	return sc.cache.Get(segmentKey{pipe: p, leaks: len(p.leaks)})
}

func (sc *segmentCache) add(p *Pipe, segments []PipeSegment) {
	sc.cache.Add(segmentKey{pipe: p, leaks: len(p.leaks)}, segments)
}

func (sc *segmentCache) purge() { sc.cache.Purge() }
