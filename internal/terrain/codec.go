package terrain

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

const snapshotVersion = 1

// snapshot is the persisted form: dimensions plus flat, row-major arrays.
type snapshot struct {
	Version int           `msgpack:"v"`
	Width   int           `msgpack:"w"`
	Height  int           `msgpack:"h"`
	Solid   []uint8       `msgpack:"solid"`
	Blocks  []blockRecord `msgpack:"blocks"`
}

type blockRecord struct {
	Durability  int   `msgpack:"d"`
	Collectible uint8 `msgpack:"c,omitempty"`
	Reward      int   `msgpack:"r,omitempty"`
}

// Encode serializes a terrain with msgpack.
func Encode(t *Terrain) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	s := snapshot{
		Version: snapshotVersion,
		Width:   t.Grid.W,
		Height:  t.Grid.H,
		Solid:   make([]uint8, len(t.Grid.Cells)),
		Blocks:  make([]blockRecord, len(t.Blocks.blocks)),
	}
	copy(s.Solid, t.Grid.Cells)
	for i, b := range t.Blocks.blocks {
		s.Blocks[i] = blockRecord{
			Durability:  b.Durability,
			Collectible: uint8(b.Collectible),
			Reward:      b.Reward,
		}
	}

	data, err := msgpack.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("terrain: encode: %w", err)
	}
	return data, nil
}

// Decode restores a terrain written by Encode, rejecting data whose arrays
// do not match the recorded dimensions or whose blocks disagree with the
// solidity array.
func Decode(data []byte) (*Terrain, error) {
	var s snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("terrain: decode: %w", err)
	}
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("terrain: unsupported snapshot version %d", s.Version)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("terrain: invalid snapshot size %dx%d", s.Width, s.Height)
	}
	n := s.Width * s.Height
	if len(s.Solid) != n || len(s.Blocks) != n {
		return nil, fmt.Errorf("terrain: snapshot arrays have %d/%d entries, expected %d", len(s.Solid), len(s.Blocks), n)
	}

	g := &Grid{W: s.Width, H: s.Height, Cells: s.Solid}
	f := NewBlockField(s.Width, s.Height)
	for i, r := range s.Blocks {
		f.blocks[i] = Block{
			Durability:  r.Durability,
			Collectible: CollectibleKind(r.Collectible),
			Reward:      r.Reward,
		}
	}
	return New(g, f)
}
