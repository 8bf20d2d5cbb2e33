package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// TestDataGenerator produces randomized names and scores. A fixed seed
// makes a run reproducible.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
	used  map[string]struct{}
}

// NewTestDataGenerator creates a generator with an optional seed.
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}
	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
		used:  make(map[string]struct{}),
	}
}

func (g *TestDataGenerator) Seed() int64 { return g.seed }

// TeamName returns a team name not handed out before by this generator.
func (g *TestDataGenerator) TeamName() string {
	return g.unique(func() string { return g.faker.City() + " " + g.faker.Animal() })
}

// DisplayName returns a participant name not handed out before.
func (g *TestDataGenerator) DisplayName() string {
	return g.unique(func() string { return g.faker.FirstName() + " " + g.faker.LastName() })
}

func (g *TestDataGenerator) StageName() string {
	return g.unique(func() string { return g.faker.Adjective() + " stage" })
}

// Goals returns a plausible football score for one side.
func (g *TestDataGenerator) Goals() int {
	return g.faker.Number(0, 4)
}

func (g *TestDataGenerator) unique(next func() string) string {
	for {
		s := next()
		if _, ok := g.used[s]; !ok {
			g.used[s] = struct{}{}
			return s
		}
		s = s + " " + g.faker.Numerify("###")
		if _, ok := g.used[s]; !ok {
			g.used[s] = struct{}{}
			return s
		}
	}
}
