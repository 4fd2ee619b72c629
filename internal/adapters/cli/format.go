package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/andrescamacho/neutron-assistant-go/internal/application/routecalc"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/route"
)

func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatOutcome renders the next-hop line the way the assistant shows it
func formatOutcome(o route.Outcome) string {
	switch o.Kind {
	case route.OutcomeCompleted:
		return fmt.Sprintf("Route to %s completed", o.Destination)
	case route.OutcomeInProgress:
		var b strings.Builder
		fmt.Fprintf(&b, "Next system: %s (%.2f LY", o.NextSystem, o.Distance)
		if o.Jumps > 0 {
			jumps := "jumps"
			if o.Jumps == 1 {
				jumps = "jump"
			}
			fmt.Fprintf(&b, ", %d %s", o.Jumps, jumps)
		}
		b.WriteString(")")
		if o.IsNeutron {
			b.WriteString(" neutron")
		}
		if o.OffRoute {
			b.WriteString(" [off route]")
		}
		return b.String()
	default:
		return "Waiting for the game to report a position"
	}
}

func printStatus(w io.Writer, s *routecalc.StatusResponse) {
	fmt.Fprintf(w, "Commander:      %s\n", orDash(s.CommanderName))
	fmt.Fprintf(w, "Current system: %s\n", orDash(s.CurrentSystem))
	fmt.Fprintf(w, "Jump range:     %.2f LY (max %.2f LY)\n", s.ShipRange, s.ShipMaxRange)
	fmt.Fprintf(w, "Auto copy:      %s\n", s.Status)

	if s.RouteKind == "" {
		fmt.Fprintln(w, "Route:          (none)")
		return
	}
	fmt.Fprintf(w, "Route:          %s, %d systems to %s\n", s.RouteKind, s.RouteHops, s.Destination)
	if s.Progress != "" {
		fmt.Fprintf(w, "Progress:       %s %.0f%%\n", s.Progress, s.ProgressPercent)
	}
	fmt.Fprintln(w, formatOutcome(s.Outcome))
}

func printCalculation(w io.Writer, c *routecalc.CalculationResponse) {
	switch c.Status {
	case "COMPLETED":
		source := "calculated"
		if c.CacheHit {
			source = "from cache"
		}
		fmt.Fprintf(w, "Loaded %s route of %d systems (%s)\n", c.Kind, c.Hops, source)
	case "FAILED":
		fmt.Fprintf(w, "Route calculation failed: %s\n", c.Error)
	default:
		fmt.Fprintf(w, "Calculating %s route (id %s); see 'neutron logs' for progress\n", c.Kind, c.CalculationID)
	}
}
