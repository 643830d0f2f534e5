// Package seeders fills a store with demo data. Each seeder registers
// itself from init():
//
//	func init() {
//	    seeders.Register("catalog", SeedCatalog)
//	}
//
// and `bazaar seed [name...]` runs them in registration order.
package seeders

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shashiranjanraj/bazaar/app/repositories"
)

// SeederFunc seeds store. It must be safe to run more than once.
type SeederFunc func(ctx context.Context, store *repositories.Store) error

type seeder struct {
	name string
	run  SeederFunc
}

// registry is only written from init functions.
var registry []seeder

// Register adds a seeder. Names must be unique.
func Register(name string, fn SeederFunc) {
	for _, s := range registry {
		if s.name == name {
			panic("seeders: duplicate seeder " + name)
		}
	}
	registry = append(registry, seeder{name: name, run: fn})
}

// Names lists the registered seeders in run order.
func Names() []string {
	out := make([]string, len(registry))
	for i, s := range registry {
		out[i] = s.name
	}
	return out
}

// Run executes the named seeders, or all of them when names is empty,
// and stops at the first failure. Progress lines go to out.
func Run(ctx context.Context, store *repositories.Store, out io.Writer, names ...string) error {
	selected, err := pick(names)
	if err != nil {
		return err
	}

	for _, s := range selected {
		start := time.Now()
		fmt.Fprintf(out, "  seeding %s ... ", s.name)
		if err := s.run(ctx, store); err != nil {
			fmt.Fprintln(out, "failed")
			return fmt.Errorf("seeder %s: %w", s.name, err)
		}
		fmt.Fprintf(out, "ok (%s)\n", time.Since(start).Round(time.Millisecond))
	}
	return nil
}

func pick(names []string) ([]seeder, error) {
	if len(names) == 0 {
		return registry, nil
	}

	out := make([]seeder, 0, len(names))
	for _, name := range names {
		found := false
		for _, s := range registry {
			if s.name == name {
				out = append(out, s)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("seeders: unknown seeder %q (have %v)", name, Names())
		}
	}
	return out, nil
}
