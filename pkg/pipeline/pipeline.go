// Package pipeline runs the wall-counting stages with caching, logging and
// instrumentation, for use by both the CLI and the HTTP server.
//
// # Stages
//
//  1. Enumerate: list every brick layer of the wall width
//  2. Analyze: build the layer compatibility adjacency
//  3. Count: run the height recurrence over the adjacency
//
// The stages themselves live in package wall; this package times them,
// reports them to the observability hooks and stores final counts in a
// [cache.Cache], so a repeated request for the same wall is answered without
// recomputation.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Width: 32, Height: 10})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result) // 806844323190414
package pipeline

import (
	"io"
	"math/big"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crackfree/pkg/cache"
	apperr "github.com/matzehuels/crackfree/pkg/errors"
)

// Reference wall dimensions, used when neither flags nor config say
// otherwise.
const (
	DefaultWidth  = 32
	DefaultHeight = 10
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	Width   int  `json:"width"`
	Height  int  `json:"height"`
	Workers int  `json:"workers,omitempty"` // 0 means one per CPU
	Exact   bool `json:"exact,omitempty"`   // count in arbitrary precision
	Refresh bool `json:"refresh,omitempty"` // skip the cache lookup

	// MaxWidth and MaxHeight tighten the library bounds, e.g. for the HTTP
	// server. Zero leaves the library bounds in place.
	MaxWidth  int `json:"-"`
	MaxHeight int `json:"-"`

	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the wall size and fills in a discarding
// logger. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := apperr.ValidateBounds(o.Width, o.Height, o.MaxWidth, o.MaxHeight); err != nil {
		return err
	}
	if o.Workers < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "workers must be non-negative, got %d", o.Workers)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// CountKeyOpts returns cache key options for the count.
func (o *Options) CountKeyOpts() cache.CountKeyOpts {
	return cache.CountKeyOpts{Exact: o.Exact}
}

// =============================================================================
// Results
// =============================================================================

// Result is the outcome of a pipeline run.
type Result struct {
	Width  int
	Height int

	// Total is the wall count. In exact mode it is set only when the count
	// fits in 64 bits; Exact always holds the full value.
	Total uint64
	Exact *big.Int

	Stats Stats

	// CacheHit reports whether the count came from the cache, in which case
	// the stage durations are zero.
	CacheHit bool
}

// String returns the count in decimal.
func (r *Result) String() string {
	if r.Exact != nil {
		return r.Exact.String()
	}
	return strconv.FormatUint(r.Total, 10)
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LayerCount    int
	EdgeCount     int
	EnumerateTime time.Duration
	AnalyzeTime   time.Duration
	CountTime     time.Duration
}

// Elapsed returns the summed stage durations.
func (s Stats) Elapsed() time.Duration {
	return s.EnumerateTime + s.AnalyzeTime + s.CountTime
}
