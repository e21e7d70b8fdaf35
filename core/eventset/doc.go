// Package eventset provides a process-wide registry of event-set definitions
// with YAML file discovery and optional directory watching for live reloads.
//
// An event set maps field values observed in telemetry records to severity
// markers. Definitions are plain data: they can be registered directly in
// code or loaded from YAML files in a definitions directory. The registry
// resolves lookups across all registered sets in priority order, making it
// cheap to layer team-specific overrides on top of organization-wide
// defaults.
//
// # Basic Usage
//
// Register a set and resolve field values against it:
//
//	import "github.com/dmitrymomot/telemetrykit/core/eventset"
//
//	err := eventset.Register(eventset.EventSet{
//		Name:     "payments",
//		Priority: 10,
//		Mappings: []eventset.FieldMapping{
//			{
//				Key: "event_type",
//				Markers: map[string]string{
//					"charge.failed":   "error",
//					"charge.disputed": "warning",
//				},
//				DefaultMarker: "info",
//			},
//		},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res, ok := eventset.Resolve("event_type", "charge.failed")
//	if ok {
//		fmt.Println(res.Marker) // "error"
//	}
//
// Resolution walks registered sets ordered by descending priority (ties
// broken by name) and returns the first set whose mapping covers the value,
// either through an explicit marker or a default marker. A mapping without a
// default that does not list the value is transparent: lower-priority sets
// still get a chance to resolve it.
//
// # YAML Discovery
//
// Load definitions from a directory of .yaml/.yml files:
//
//	result, err := eventset.Discover(ctx, "./eventsets")
//	if err != nil {
//		log.Fatal(err)
//	}
//	log.Printf("registered %d sets, skipped %d files", len(result.Registered), result.Skipped)
//
// Each file holds one definition:
//
//	name: payments
//	description: Payment pipeline severity mapping
//	priority: 10
//	mappings:
//	  - key: event_type
//	    markers:
//	      charge.failed: error
//	      charge.disputed: warning
//	    default_marker: info
//	    metadata_fields: [amount, currency]
//
// Files that fail to parse or validate are skipped with a warning rather
// than failing the scan, so one malformed file cannot block the rest of the
// directory. Files are processed in lexical order and discovery upserts by
// set name, so when two files define the same set the lexically later file
// wins.
//
// # Directory Watching
//
// A Watcher keeps the registry in sync with the definitions directory,
// rescanning after file changes settle:
//
//	watcher, err := eventset.NewWatcher("./eventsets",
//		eventset.WithWatcherLogger(log),
//		eventset.WithWatcherDebounce(200*time.Millisecond),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Coordinated lifecycle with errgroup
//	g, ctx := errgroup.WithContext(context.Background())
//	g.Go(watcher.Run(ctx))
//
// The watcher runs one discovery pass on start and another after each burst
// of filesystem events. Deleting a file does not unregister its set; call
// Clear and restart the watcher to rebuild from scratch.
//
// # Isolated Registries
//
// Package-level functions operate on a shared default registry. Tests and
// multi-tenant setups can use isolated instances instead:
//
//	reg := eventset.NewRegistry()
//	err := reg.Register(set)
//	res, ok := reg.Resolve("event_type", "charge.failed")
//
//	// Point discovery and watching at the isolated registry
//	result, err := eventset.Discover(ctx, dir, eventset.WithDiscoverRegistry(reg))
//	watcher, err := eventset.NewWatcher(dir, eventset.WithWatcherRegistry(reg))
//
// # Test Cleanup
//
// The default registry is process-wide state. Tests that register sets
// should clear it between cases, typically through the reset package:
//
//	reset.Register("eventset", func(ctx context.Context) error {
//		eventset.Clear()
//		return nil
//	})
//
// # Thread Safety
//
// Registry methods are safe for concurrent use. Resolution takes a read
// lock, so concurrent lookups do not contend with each other; registration
// and discovery take a write lock.
package eventset
