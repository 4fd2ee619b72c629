package route

// Hop is the normalized view of one route record, shared by both route kinds.
type Hop struct {
	System     string
	Cumulative float64
	Jumps      int
	Neutron    bool
}

// Record is implemented by the planner-specific hop shapes.
type Record interface {
	View() Hop
}

// SimpleHop is one entry of the neutron plotter's system_jumps array.
type SimpleHop struct {
	System         string  `json:"system"`
	ID64           int64   `json:"id64,omitempty"`
	DistanceJumped float64 `json:"distance_jumped"`
	DistanceLeft   float64 `json:"distance_left"`
	Jumps          int     `json:"jumps"`
	NeutronStar    bool    `json:"neutron_star"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Z              float64 `json:"z"`
}

func (h SimpleHop) View() Hop {
	return Hop{
		System:     h.System,
		Cumulative: h.DistanceJumped,
		Jumps:      h.Jumps,
		Neutron:    h.NeutronStar,
	}
}

// ExactHop is one entry of the galaxy plotter's jumps array.
type ExactHop struct {
	System                string  `json:"system"`
	ID64                  int64   `json:"id64,omitempty"`
	Distance              float64 `json:"distance"`
	DistanceToDestination float64 `json:"distance_to_destination"`
	FuelInTank            float64 `json:"fuel_in_tank"`
	FuelUsed              float64 `json:"fuel_used"`
	HasNeutron            bool    `json:"has_neutron"`
	IsScoopable           bool    `json:"is_scoopable"`
	MustRefuel            bool    `json:"must_refuel"`
	X                     float64 `json:"x"`
	Y                     float64 `json:"y"`
	Z                     float64 `json:"z"`
}

// View reports one jump per record; the exact plotter emits a record per jump.
func (h ExactHop) View() Hop {
	return Hop{
		System:     h.System,
		Cumulative: h.DistanceToDestination,
		Jumps:      1,
		Neutron:    h.HasNeutron,
	}
}
