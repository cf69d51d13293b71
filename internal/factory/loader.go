package factory

import (
	"context"
	"errors"

	"github.com/specialistvlad/eligo/internal/legacy"
)

// Loader locates a library and returns its legacy block. A nil block with a
// nil error means the loader does not know the library.
type Loader interface {
	LoadLibrary(ctx context.Context, name string, reportErrors bool) (*legacy.Block, error)
}

// Chain tries each loader in order and returns the first block found.
type Chain []Loader

func (c Chain) LoadLibrary(ctx context.Context, name string, reportErrors bool) (*legacy.Block, error) {
	var errs []error
	for _, l := range c {
		block, err := l.LoadLibrary(ctx, name, reportErrors)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if block != nil {
			return block, nil
		}
	}
	return nil, errors.Join(errs...)
}
