package ship

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

const (
	guardianBoosterGroup = "Guardian Frame Shift Drive Booster"
	massManagerEffect    = "Mass Manager"
	massManagerBonus     = 0.062
)

// guardianBoost is the range boost of a Guardian FSD Booster by module class
var guardianBoost = map[int]float64{1: 4.0, 2: 6.0, 3: 7.8, 4: 9.3, 5: 10.5}

// Build is a ship build in the Coriolis format. Only the fields needed to
// plan exact routes are decoded; Raw keeps the full document.
type Build struct {
	Name       string      `json:"name,omitempty"`
	Ship       string      `json:"ship,omitempty"`
	References []Reference `json:"references"`
	Components Components  `json:"components"`
	Stats      Stats       `json:"stats"`

	Raw json.RawMessage `json:"-"`
}

type Reference struct {
	Name string `json:"name,omitempty"`
	Code string `json:"code"`
	URL  string `json:"url,omitempty"`
}

type Components struct {
	Standard StandardComponents `json:"standard"`
	Internal []*Module          `json:"internal"`
}

type StandardComponents struct {
	FrameShiftDrive Module `json:"frameShiftDrive"`
}

type Module struct {
	Class     int        `json:"class"`
	Rating    string     `json:"rating"`
	Group     string     `json:"group,omitempty"`
	Blueprint *Blueprint `json:"blueprint,omitempty"`
}

// Blueprint is an engineering modification. Grades maps the grade number to
// the [min, max] ranges of each modified feature.
type Blueprint struct {
	Name    string           `json:"name,omitempty"`
	Grade   int              `json:"grade"`
	Grades  map[string]Grade `json:"grades"`
	Special *Special         `json:"special,omitempty"`
}

type Grade struct {
	Features map[string][]float64 `json:"features"`
}

type Special struct {
	Name string `json:"name"`
}

type Stats struct {
	FuelCapacity        float64 `json:"fuelCapacity"`
	UnladenMass         float64 `json:"unladenMass"`
	ReserveFuelCapacity float64 `json:"reserveFuelCapacity"`
	CargoCapacity       float64 `json:"cargoCapacity,omitempty"`
}

// ParseBuild decodes a Coriolis build document
func ParseBuild(raw []byte) (*Build, error) {
	var build Build
	if err := json.Unmarshal(raw, &build); err != nil {
		return nil, fmt.Errorf("failed to decode ship build: %w", err)
	}
	build.Raw = append(json.RawMessage(nil), raw...)
	return &build, nil
}

// Code returns the Coriolis build code of the first reference
func (b *Build) Code() string {
	if len(b.References) == 0 {
		return ""
	}
	return b.References[0].Code
}

// CodeHash returns the first five hex digits of the md5 of the build code.
// It identifies a build in route cache keys.
func (b *Build) CodeHash() string {
	sum := md5.Sum([]byte(b.Code()))
	return hex.EncodeToString(sum[:])[:5]
}

// RangeBoost returns the jump range added by a Guardian FSD Booster, 0 without one
func (b *Build) RangeBoost() float64 {
	boost := 0.0
	for _, module := range b.Components.Internal {
		if module != nil && module.Group == guardianBoosterGroup {
			boost = guardianBoost[module.Class]
		}
	}
	return boost
}

// OptimalMassMultiplier returns the engineered optimal mass multiplier of the FSD
func (b *Build) OptimalMassMultiplier() float64 {
	blueprint := b.Components.Standard.FrameShiftDrive.Blueprint
	if blueprint == nil {
		return 1
	}

	multiplier := 0.0
	if grade, ok := blueprint.Grades[fmt.Sprint(blueprint.Grade)]; ok {
		if optmass := grade.Features["optmass"]; len(optmass) > 1 {
			multiplier = optmass[1]
		}
	}
	if blueprint.Special != nil && blueprint.Special.Name == massManagerEffect {
		multiplier += massManagerBonus
	}
	return multiplier + 1
}
