// Package catalog loads the character roster and the appearance options
// from the embedded data files. Everything it returns is immutable
// configuration; greetings are chosen once, at build time, through an
// injected chooser so tests can make the roster deterministic.
package catalog

import (
	"fmt"
	"math/rand"

	"gopkg.in/yaml.v3"

	"github.com/yuhnmomo/magictrain/configs"
	"github.com/yuhnmomo/magictrain/internal/game"
)

// Chooser picks an index in [0, n). Production uses a seeded rand; tests
// inject a fixed function.
type Chooser func(n int) int

// RandomChooser returns a Chooser backed by a rand.Rand.
func RandomChooser(r *rand.Rand) Chooser {
	return func(n int) int { return r.Intn(n) }
}

// FirstChooser always picks index 0. Handy in tests.
func FirstChooser(n int) int { return 0 }

// Catalog is the fixed character and appearance roster.
type Catalog struct {
	characters []game.Character
	byID       map[string]*game.Character
	male       []game.Appearance
	female     []game.Appearance
}

type rawCharacter struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Avatar      string   `yaml:"avatar"`
	Description string   `yaml:"description"`
	Persona     string   `yaml:"persona"`
	Greetings   []string `yaml:"greetings"`
}

type characterFile struct {
	Characters []rawCharacter `yaml:"characters"`
}

type passengerFile struct {
	Passengers []Passenger `yaml:"passengers"`
}

type appearanceFile struct {
	Male   []game.Appearance `yaml:"male"`
	Female []game.Appearance `yaml:"female"`
}

// New builds the catalog from the embedded data, expanding the passenger
// roster and resolving every greeting through choose.
func New(choose Chooser) (*Catalog, error) {
	var chars characterFile
	if err := yaml.Unmarshal(configs.Characters, &chars); err != nil {
		return nil, fmt.Errorf("parsing characters data: %w", err)
	}
	var pass passengerFile
	if err := yaml.Unmarshal(configs.Passengers, &pass); err != nil {
		return nil, fmt.Errorf("parsing passengers data: %w", err)
	}
	var apps appearanceFile
	if err := yaml.Unmarshal(configs.Appearances, &apps); err != nil {
		return nil, fmt.Errorf("parsing appearances data: %w", err)
	}

	c := &Catalog{
		byID:   make(map[string]*game.Character),
		male:   apps.Male,
		female: apps.Female,
	}

	for _, rc := range chars.Characters {
		if len(rc.Greetings) == 0 {
			return nil, fmt.Errorf("character %s has no greetings", rc.ID)
		}
		c.characters = append(c.characters, game.Character{
			ID:          rc.ID,
			Name:        rc.Name,
			Avatar:      rc.Avatar,
			Description: rc.Description,
			Persona:     rc.Persona,
			Greeting:    rc.Greetings[choose(len(rc.Greetings))],
		})
	}

	for _, p := range pass.Passengers {
		ch, err := p.expand(choose)
		if err != nil {
			return nil, err
		}
		c.characters = append(c.characters, ch)
	}

	for i := range c.characters {
		ch := &c.characters[i]
		if _, dup := c.byID[ch.ID]; dup {
			return nil, fmt.Errorf("duplicate character id %s", ch.ID)
		}
		c.byID[ch.ID] = ch
	}

	return c, nil
}

// All returns every roster member in catalog order.
func (c *Catalog) All() []game.Character {
	return c.characters
}

// ByID resolves a character, nil when unknown.
func (c *Catalog) ByID(id string) *game.Character {
	return c.byID[id]
}

// Appearances returns the options for the given player gender (男 or 女).
func (c *Catalog) Appearances(gender string) []game.Appearance {
	if gender == "男" {
		return c.male
	}
	return c.female
}

// AppearanceByID searches both catalogs.
func (c *Catalog) AppearanceByID(id string) *game.Appearance {
	for i := range c.male {
		if c.male[i].ID == id {
			return &c.male[i]
		}
	}
	for i := range c.female {
		if c.female[i].ID == id {
			return &c.female[i]
		}
	}
	return nil
}
