// Package content provides the static game-data tables: per-graphic item
// and mobile definitions loaded from YAML, with a built-in default set
// covering the graphics the core rules depend on.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Equipment layers. One item per distinct layer may be worn.
const (
	LayerInvalid  = 0
	LayerWeapon   = 1
	LayerShield   = 2
	LayerShoes    = 3
	LayerPants    = 4
	LayerShirt    = 5
	LayerHair     = 6
	LayerBackpack = 7
	LayerTorso    = 8
	LayerShop     = 9
)

// Dialog (gump) identifiers used when opening containers and windows.
const (
	GumpNone      = 0
	GumpBackpack  = 1
	GumpCorpse    = 2
	GumpSpellbook = 3
	GumpShop      = 4
	GumpPaperdoll = 5
)

// ItemDef declares the static properties shared by every item with a given
// graphic, the role tile data plays in the original client files.
type ItemDef struct {
	Graphic    int    `yaml:"graphic"`
	Name       string `yaml:"name"`
	Weight     int    `yaml:"weight"`
	Price      int    `yaml:"price"`
	Height     int    `yaml:"height"`
	Layer      int    `yaml:"layer"`
	LightLevel int    `yaml:"light_level"`
	Container  bool   `yaml:"container"`
	Wearable   bool   `yaml:"wearable"`
	Stackable  bool   `yaml:"stackable"`
	Gump       int    `yaml:"gump"`
}

// Validate checks that the ItemDef satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.Graphic <= 0 {
		errs = append(errs, errors.New("graphic must be > 0"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if d.Weight < 0 {
		errs = append(errs, errors.New("weight must be >= 0"))
	}
	if d.Price < 0 {
		errs = append(errs, errors.New("price must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item definition invalid: %v", errs)
	}
	return nil
}

// MobileDef declares the static properties of a mobile graphic: display
// name, corpse graphic, and the sound sets used by combat.
type MobileDef struct {
	Graphic       int    `yaml:"graphic"`
	Name          string `yaml:"name"`
	CorpseGraphic int    `yaml:"corpse_graphic"`
	LookingHeight int    `yaml:"looking_height"`
	HitSounds     []int  `yaml:"hit_sounds"`
	MissSounds    []int  `yaml:"miss_sounds"`
	PainSounds    []int  `yaml:"pain_sounds"`
	DeathSounds   []int  `yaml:"death_sounds"`
}

// Validate checks that the MobileDef satisfies its invariants.
func (d *MobileDef) Validate() error {
	var errs []error
	if d.Graphic < 0 {
		errs = append(errs, errors.New("graphic must be >= 0"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if d.CorpseGraphic <= 0 {
		errs = append(errs, errors.New("corpse_graphic must be > 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("mobile definition invalid: %v", errs)
	}
	return nil
}

// Table resolves graphics to their definitions. A Table always answers:
// unknown graphics get a zero-value fallback so a missing YAML entry
// degrades to an inert, unnamed object instead of a crash.
type Table struct {
	items   map[int]*ItemDef
	mobiles map[int]*MobileDef
}

// NewTable returns a Table seeded with the built-in defaults.
func NewTable() *Table {
	t := &Table{
		items:   make(map[int]*ItemDef),
		mobiles: make(map[int]*MobileDef),
	}
	for i := range builtinItems {
		d := builtinItems[i]
		t.items[d.Graphic] = &d
	}
	for i := range builtinMobiles {
		d := builtinMobiles[i]
		t.mobiles[d.Graphic] = &d
	}
	return t
}

// Item returns the definition for graphic, or nil if none is known.
func (t *Table) Item(graphic int) *ItemDef {
	return t.items[graphic]
}

// Mobile returns the definition for graphic, or nil if none is known.
func (t *Table) Mobile(graphic int) *MobileDef {
	return t.mobiles[graphic]
}

// LoadDir overlays all *.yaml/*.yml files from dir onto the table. Each
// file holds an `items:` and/or `mobiles:` list.
//
// Precondition: dir is a readable directory path.
// Postcondition: every loaded definition is validated and registered, or
// the first encountered error is returned with the table unchanged for
// the failing file.
func (t *Table) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("content: cannot read directory %q: %w", dir, err)
	}

	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("content: cannot read file %q: %w", path, err)
		}
		var file struct {
			Items   []ItemDef   `yaml:"items"`
			Mobiles []MobileDef `yaml:"mobiles"`
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("content: cannot parse file %q: %w", path, err)
		}
		for i := range file.Items {
			d := file.Items[i]
			if err := d.Validate(); err != nil {
				return fmt.Errorf("content: %q: %w", path, err)
			}
			t.items[d.Graphic] = &d
		}
		for i := range file.Mobiles {
			d := file.Mobiles[i]
			if err := d.Validate(); err != nil {
				return fmt.Errorf("content: %q: %w", path, err)
			}
			t.mobiles[d.Graphic] = &d
		}
	}
	return nil
}
