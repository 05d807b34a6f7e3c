// Package rng provides small, reproducible pseudo-random generators. They are not suitable
// for anything security related.
package rng

import (
	"hash/fnv"
	"math/rand/v2"
	"strconv"
)

// Generator produces uniformly distributed draws in [0, 1). Two generators built from the same
// seed must produce the same sequence.
type Generator interface {
	Float64() float64
}

// Factory builds a generator from a seed
type Factory func(seed uint32) Generator

// Mulberry32 is a 32 bit state generator with good statistical quality for simulation.
type Mulberry32 struct {
	state uint32
}

// NewMulberry32 seeds a Mulberry32 generator
func NewMulberry32(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Uint32 advances the generator and returns the next 32 bits
func (m *Mulberry32) Uint32() uint32 {
	m.state += 0x6d2b79f5
	t := m.state
	x := (t ^ (t >> 15)) * (1 | t)
	x ^= x + (x^(x>>7))*(61|x)
	return x ^ (x >> 14)
}

// Float64 returns the next draw in [0, 1)
func (m *Mulberry32) Float64() float64 {
	return float64(m.Uint32()) / (1 << 32)
}

// MulberryFactory builds Mulberry32 generators
func MulberryFactory(seed uint32) Generator {
	return NewMulberry32(seed)
}

// PCGFactory builds generators on the standard library PCG source
func PCGFactory(seed uint32) Generator {
	return rand.New(rand.NewPCG(uint64(seed), 0x853c49e6748fea9b))
}

// SubSeed derives the seed of the i-th independent stream from a root seed so that streams can
// be consumed in any order or concurrently without changing their draws.
func SubSeed(seed uint32, i int) uint32 {
	return seed ^ (uint32(i) * 0x9e3779b9)
}

// Seeder accumulates seed components and hashes them with 32 bit FNV-1a. Components are
// separated so that ("ab", "c") and ("a", "bc") hash differently.
type Seeder struct {
	buf []byte
}

func NewSeeder() *Seeder {
	return &Seeder{buf: make([]byte, 0, 128)}
}

func (s *Seeder) String(v string) *Seeder {
	s.buf = append(s.buf, v...)
	s.buf = append(s.buf, '|')
	return s
}

func (s *Seeder) Int(v int) *Seeder {
	s.buf = strconv.AppendInt(s.buf, int64(v), 10)
	s.buf = append(s.buf, '|')
	return s
}

func (s *Seeder) Float(v float64) *Seeder {
	s.buf = strconv.AppendFloat(s.buf, v, 'g', -1, 64)
	s.buf = append(s.buf, '|')
	return s
}

// Sum returns the hash of every component added so far
func (s *Seeder) Sum() uint32 {
	h := fnv.New32a()
	h.Write(s.buf)
	return h.Sum32()
}
