// Package builder constructs test entities with defaulted or randomized field
// values. A Builder starts from a factory value, optionally fills every exported
// field with random data, runs entity-specific randomizers and finally applies
// explicit property overrides in the order they were registered.
package builder

import (
	"github.com/temirov/spooler/internal/random"
)

// DefaultMaxDepth bounds how far random filling descends into nested values.
const DefaultMaxDepth = 2

// Randomizer adjusts a randomly filled entity so it satisfies entity rules.
type Randomizer[T any] func(entity *T, generator *random.Generator)

// Option configures a Builder at construction time.
type Option[T any] func(*Builder[T])

// WithFactory sets the function producing the starting value for every Build.
func WithFactory[T any](factory func() T) Option[T] {
	return func(b *Builder[T]) {
		b.factory = factory
	}
}

// WithMaxDepth bounds nesting for random filling. Only struct levels count:
// the root's fields sit at depth 1, and pointers, slices and maps are
// allocated only below depth, their elements sharing the container's depth.
// Values below 1 are ignored.
func WithMaxDepth[T any](depth int) Option[T] {
	return func(b *Builder[T]) {
		if depth > 0 {
			b.maxDepth = depth
		}
	}
}

// WithDefaultRandomizer registers a randomizer that runs whenever random props are requested.
func WithDefaultRandomizer[T any](randomizer Randomizer[T]) Option[T] {
	return func(b *Builder[T]) {
		b.randomizers = append(b.randomizers, randomizer)
	}
}

// Builder constructs values of T. It is not safe for concurrent use.
type Builder[T any] struct {
	generator       *random.Generator
	factory         func() T
	maxDepth        int
	randomize       bool
	fillCollections bool
	randomizers     []Randomizer[T]
	props           []func(*T)
}

// New returns a Builder drawing random values from generator.
func New[T any](generator *random.Generator, options ...Option[T]) *Builder[T] {
	b := &Builder[T]{
		generator: generator,
		maxDepth:  DefaultMaxDepth,
	}
	for _, option := range options {
		option(b)
	}
	return b
}

// Generator exposes the random source so prop helpers can draw from the same sequence.
func (b *Builder[T]) Generator() *random.Generator {
	return b.generator
}

// WithRandomProps requests random values for every settable field.
func (b *Builder[T]) WithRandomProps() *Builder[T] {
	b.randomize = true
	return b
}

// WithFilledCollections makes random filling populate slices and maps with 1 to 3 elements.
func (b *Builder[T]) WithFilledCollections() *Builder[T] {
	b.fillCollections = true
	return b
}

// WithRandomizer registers an additional randomizer, run after the defaults.
func (b *Builder[T]) WithRandomizer(randomizer Randomizer[T]) *Builder[T] {
	b.randomizers = append(b.randomizers, randomizer)
	return b
}

// WithProp registers an override applied after any random filling.
func (b *Builder[T]) WithProp(action func(*T)) *Builder[T] {
	b.props = append(b.props, action)
	return b
}

// Build constructs one value.
func (b *Builder[T]) Build() T {
	var entity T
	if b.factory != nil {
		entity = b.factory()
	}
	if b.randomize {
		filler := valueFiller{
			generator:       b.generator,
			maxDepth:        b.maxDepth,
			fillCollections: b.fillCollections,
		}
		filler.fillRoot(&entity)
		for _, randomizer := range b.randomizers {
			randomizer(&entity, b.generator)
		}
	}
	for _, prop := range b.props {
		prop(&entity)
	}
	return entity
}

// BuildMany constructs count values. Random values differ between elements
// because each Build draws further along the generator's sequence.
func (b *Builder[T]) BuildMany(count int) []T {
	if count <= 0 {
		return nil
	}
	entities := make([]T, 0, count)
	for range count {
		entities = append(entities, b.Build())
	}
	return entities
}

// BuildDefault constructs a value from the factory without random filling or overrides.
func (b *Builder[T]) BuildDefault() T {
	return New[T](b.generator, WithFactory(b.factory)).Build()
}

// BuildRandom builds one value as if WithRandomProps had been called, leaving b unchanged.
func (b *Builder[T]) BuildRandom() T {
	randomized := *b
	randomized.randomize = true
	return randomized.Build()
}
