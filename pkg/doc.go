// Package pkg provides the libraries behind crackfree, a counter of
// crack-free brick walls.
//
// # Overview
//
// A wall of width W and height H is a stack of H layers, each layer a row of
// 2-unit and 3-unit bricks filling the width exactly. A wall is crack-free
// when no two adjacent layers have a joint (a brick boundary strictly inside
// the wall) at the same position. The pkg directory is organized as:
//
//  1. [wall] - Domain logic (layer enumeration, compatibility, counting)
//  2. [pipeline] - Orchestration (enumerate → analyze → count) with caching
//  3. [cache] - Result caches (file, Redis, MongoDB)
//  4. [config] - TOML configuration
//  5. [errors] - Coded errors and input validation
//  6. [observability] - Instrumentation hooks
//
// # Architecture
//
//	width W
//	   ↓
//	[wall.Enumerate] (every layer of width W)
//	   ↓
//	[wall.Analyzer] (which layers may be stacked on which)
//	   ↓
//	[wall.Count] (walls of height H)
//
// # Quick Start
//
// Count walls directly:
//
//	n, err := wall.Walls(ctx, 32, 10) // 806844323190414
//
// Or through the pipeline, which caches and times each stage:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{Width: 32, Height: 10})
//
// [wall]: https://pkg.go.dev/github.com/matzehuels/crackfree/pkg/wall
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/crackfree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/crackfree/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/crackfree/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/crackfree/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/crackfree/pkg/observability
package pkg
