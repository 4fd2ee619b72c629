package ship

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/andrescamacho/neutron-assistant-go/pkg/utils"
)

// FSDSpec is one frame shift drive entry of the Coriolis module catalog
type FSDSpec struct {
	Class     int     `json:"class"`
	Rating    string  `json:"rating"`
	OptMass   float64 `json:"optmass"`
	FuelPower float64 `json:"fuelpower"`
	FuelMul   float64 `json:"fuelmul"`
	MaxFuel   float64 `json:"maxfuel"`
}

// FSDParameters are the ship figures the exact route planner needs
type FSDParameters struct {
	TankSize         float64
	BaseMass         float64
	InternalTankSize float64
	OptimalMass      int
	MaxFuelPerJump   float64
	FuelPower        float64
	FuelMultiplier   float64
	RangeBoost       float64
}

// FSDParameters combines the build with the catalog entry of its FSD
func (b *Build) FSDParameters(catalog []FSDSpec) (FSDParameters, error) {
	fsd := b.Components.Standard.FrameShiftDrive
	spec, found := lo.Find(catalog, func(s FSDSpec) bool {
		return s.Class == fsd.Class && s.Rating == fsd.Rating
	})
	if !found {
		return FSDParameters{}, fmt.Errorf("no frame shift drive %d%s in catalog", fsd.Class, fsd.Rating)
	}

	return FSDParameters{
		TankSize:         b.Stats.FuelCapacity,
		BaseMass:         b.Stats.UnladenMass + b.Stats.ReserveFuelCapacity,
		InternalTankSize: b.Stats.ReserveFuelCapacity,
		OptimalMass:      utils.RoundHalfEven(spec.OptMass * b.OptimalMassMultiplier()),
		MaxFuelPerJump:   spec.MaxFuel,
		FuelPower:        spec.FuelPower,
		FuelMultiplier:   spec.FuelMul,
		RangeBoost:       b.RangeBoost(),
	}, nil
}
