// Package pkg provides the core libraries for cornerstone suite placement.
//
// # Overview
//
// Several cryptographic suites share one message header. Each suite writes a
// fixed-size public value, its cornerstone, at one of a few allowed offsets.
// A reader that knows its suite only probes those offsets, so the writer must
// be able to give every chosen subset of suites non-overlapping ranges.
//
// The pkg directory is organized into three areas:
//
//  1. Domain logic: [suite], [placement], [layout]
//  2. Orchestration: [engine], [report], [render]
//  3. Infrastructure: [cache], [config], [server], [observability], [errors], [buildinfo]
//
// # Architecture
//
//	Catalog (builtin, TOML, YAML or JSONC)
//	         ↓
//	    [placement.Allocate] (candidate offsets per suite)
//	         ↓
//	    [placement.Place] (backtracking search for one subset)
//	         ↓
//	    [layout.FromPlacement] (header reservation map)
//
// [placement.Verify] runs Place over every subset and is the check to run
// whenever a catalog changes. [engine.Runner] ties these together with a
// report cache and is shared by the CLI and the HTTP API.
//
// # Quick Start
//
//	cat := suite.Default()
//	alloc := placement.Allocate(cat)
//	p, err := placement.Place(cat, alloc.Positions, []string{"a", "d"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(p) // a:[0,64) d:[64,96)
//
// [suite]: github.com/matzehuels/cornerstone/pkg/suite
// [placement]: github.com/matzehuels/cornerstone/pkg/placement
// [layout]: github.com/matzehuels/cornerstone/pkg/layout
// [engine]: github.com/matzehuels/cornerstone/pkg/engine
// [report]: github.com/matzehuels/cornerstone/pkg/report
// [render]: github.com/matzehuels/cornerstone/pkg/render
// [cache]: github.com/matzehuels/cornerstone/pkg/cache
// [config]: github.com/matzehuels/cornerstone/pkg/config
// [server]: github.com/matzehuels/cornerstone/pkg/server
// [observability]: github.com/matzehuels/cornerstone/pkg/observability
// [errors]: github.com/matzehuels/cornerstone/pkg/errors
// [buildinfo]: github.com/matzehuels/cornerstone/pkg/buildinfo
// [placement.Allocate]: github.com/matzehuels/cornerstone/pkg/placement#Allocate
// [placement.Place]: github.com/matzehuels/cornerstone/pkg/placement#Place
// [placement.Verify]: github.com/matzehuels/cornerstone/pkg/placement#Verify
// [layout.FromPlacement]: github.com/matzehuels/cornerstone/pkg/layout#FromPlacement
// [engine.Runner]: github.com/matzehuels/cornerstone/pkg/engine#Runner
package pkg
