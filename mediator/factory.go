package mediator

import (
	"fmt"

	"github.com/daqforge/daqconv/errs"
)

// versionPair keys the registry by (input, output) dialect version.
type versionPair struct {
	from int
	to   int
}

type factory func(Options) Mediator

// registry holds the supported conversions. Additional pairs register at
// startup via Register.
var registry = map[versionPair]factory{
	{8, 10}:  func(o Options) Mediator { return NewEightToTen(o) },
	{10, 8}:  func(o Options) Mediator { return NewTenToEight(o) },
	{10, 11}: func(o Options) Mediator { return NewTenToEleven(o) },
	{11, 10}: func(o Options) Mediator { return NewElevenToTen(o) },
}

// Register installs a mediator factory for a version pair, replacing any
// existing entry.
func Register(from, to int, f func(Options) Mediator) {
	registry[versionPair{from, to}] = f
}

// New looks up the mediator for the (from, to) version pair and wires the
// endpoints in. An unsupported pair is a configuration error.
func New(from, to int, opts Options) (Mediator, error) {
	f, ok := registry[versionPair{from, to}]
	if !ok {
		return nil, fmt.Errorf("%w: no conversion from version %d to version %d", errs.ErrConfig, from, to)
	}

	return f(opts), nil
}
