package descriptor

import (
	"errors"

	"github.com/goliatone/go-barber/pkg/model"
)

// Chain returns a Provider that asks each provider in turn and returns the
// first descriptor found. Errors other than NoAccessibleConstructor stop the
// search.
func Chain(providers ...Provider) Provider {
	out := make(chain, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

type chain []Provider

func (c chain) Describe(id model.TypeID) (Descriptor, error) {
	var last error
	for _, p := range c {
		d, err := p.Describe(id)
		if err == nil && d != nil {
			return d, nil
		}
		if err != nil && !errors.Is(err, ErrNoAccessibleConstructor) {
			return nil, err
		}
		last = err
	}
	if last == nil {
		last = &NoAccessibleConstructorError{Type: id, Reason: "no descriptor provider configured"}
	}
	return nil, last
}
