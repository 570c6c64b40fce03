package id

import (
	"fmt"
	"time"

	fid "github.com/amterp/flexid"
	"github.com/google/uuid"
)

// Generator is the opaque identifier source for boards, cards, tags and
// sub-tasks.
type Generator interface {
	Generate() string
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func() string

func (f GeneratorFunc) Generate() string { return f() }

// FlexGenerator produces short, time-sortable ids.
type FlexGenerator struct {
	gen *fid.Generator
}

// NewFlexGenerator returns the default generator.
func NewFlexGenerator() *FlexGenerator {
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	config := fid.NewConfig().
		WithEpoch(epoch).
		WithTickSize(10 * time.Millisecond).
		WithNumRandomChars(3)

	return &FlexGenerator{gen: fid.MustNewGenerator(config)}
}

func (g *FlexGenerator) Generate() string {
	return g.gen.MustGenerate()
}

// UUIDGenerator produces random v4 UUIDs.
type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator { return UUIDGenerator{} }

func (UUIDGenerator) Generate() string {
	return uuid.NewString()
}

// New returns the generator for a configured id format ("flex" or "uuid").
// An empty format selects flex.
func New(format string) (Generator, error) {
	switch format {
	case "", "flex":
		return NewFlexGenerator(), nil
	case "uuid":
		return NewUUIDGenerator(), nil
	}
	return nil, fmt.Errorf("unknown id format %q (expected flex or uuid)", format)
}
