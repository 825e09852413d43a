// Package sim is the entity simulation core: entities, axis-aligned
// collision against each other and the tile grid, and the World that owns
// them and advances them one fixed step at a time.
package sim

import "fmt"

// Kind tags an entity for collision dispatch.
type Kind uint8

const (
	KindNone Kind = iota
	KindHero
	KindEnemy
	KindHeroBullet
	KindEnemyBullet
	KindBomb
	KindExplosion
	KindPowerUp
	KindGem
	KindBoulder
	KindParticle
	kindCount
)

var kindNames = [...]string{
	KindNone:        "none",
	KindHero:        "hero",
	KindEnemy:       "enemy",
	KindHeroBullet:  "hero_bullet",
	KindEnemyBullet: "enemy_bullet",
	KindBomb:        "bomb",
	KindExplosion:   "explosion",
	KindPowerUp:     "powerup",
	KindGem:         "gem",
	KindBoulder:     "boulder",
	KindParticle:    "particle",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Handle is a non-owning reference to an entity in a World. Handles are
// never reused, so a handle to a destroyed entity simply fails to resolve.
// The zero Handle refers to nothing.
type Handle uint64
