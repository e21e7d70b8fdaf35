package eventset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DiscoveryResult summarizes one directory scan.
type DiscoveryResult struct {
	Registered []string // event-set names registered, in file order
	Skipped    int      // definition files rejected by parsing or validation
}

type discoverOptions struct {
	registry *Registry
	logger   *slog.Logger
}

// DiscoverOption configures a Discover call.
type DiscoverOption func(*discoverOptions)

// WithDiscoverRegistry directs discovered sets into a registry other than
// the package default.
func WithDiscoverRegistry(r *Registry) DiscoverOption {
	return func(o *discoverOptions) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithDiscoverLogger sets the logger for scan progress and skipped files.
func WithDiscoverLogger(logger *slog.Logger) DiscoverOption {
	return func(o *discoverOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Discover scans dir for event-set definition files (*.yaml, *.yml), parses
// and validates each one, and upserts the valid sets into the registry. A
// file that fails to parse or validate is skipped with a warning; it never
// aborts the scan. Files load in lexical name order, so when two files
// define the same set name the later one wins.
//
// The returned error covers scan-level failures only: an unreadable
// directory or a cancelled context.
func Discover(ctx context.Context, dir string, opts ...DiscoverOption) (DiscoveryResult, error) {
	o := &discoverOptions{
		registry: defaultRegistry,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return DiscoveryResult{}, fmt.Errorf("failed to read event set directory %s: %w", dir, err)
	}

	var result DiscoveryResult
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if entry.IsDir() || !isDefinitionFile(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		set, err := loadDefinition(path)
		if err == nil {
			err = o.registry.Replace(set)
		}
		if err != nil {
			result.Skipped++
			o.logger.WarnContext(ctx, "skipping event set definition",
				slog.String("file", path),
				slog.String("error", err.Error()))
			continue
		}

		result.Registered = append(result.Registered, set.Name)
		o.logger.DebugContext(ctx, "registered event set",
			slog.String("file", path),
			slog.String("event_set", set.Name),
			slog.Int("mappings", len(set.Mappings)))
	}
	return result, nil
}

// loadDefinition reads and parses one definition file. Validation happens in
// the registry on insert.
func loadDefinition(path string) (EventSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EventSet{}, fmt.Errorf("failed to read definition file: %w", err)
	}

	var set EventSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return EventSet{}, fmt.Errorf("failed to parse definition file: %w", err)
	}
	return set, nil
}

// isDefinitionFile reports whether the file name carries a YAML extension.
func isDefinitionFile(name string) bool {
	ext := filepath.Ext(name)
	return strings.EqualFold(ext, ".yaml") || strings.EqualFold(ext, ".yml")
}
