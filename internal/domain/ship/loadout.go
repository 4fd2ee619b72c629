package ship

import (
	"github.com/andrescamacho/neutron-assistant-go/pkg/utils"
)

// ladenRangeFactor approximates the jump range of a ship carrying some cargo
// from the unladen MaxJumpRange reported by the Loadout event.
const ladenRangeFactor = 0.95

// ApproximateJumpRange returns 95% of maxJumpRange rounded to two decimals
func ApproximateJumpRange(maxJumpRange float64) float64 {
	return utils.Round2(ladenRangeFactor * maxJumpRange)
}
