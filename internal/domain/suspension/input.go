package suspension

import (
	"github.com/okian/garage/internal/domain/model"
	"github.com/okian/garage/internal/domain/types"
)

// Discipline is the riding style the setup is tuned for.
type Discipline string

// Riding disciplines.
const (
	DisciplineXC     Discipline = "xc"
	DisciplineTrail  Discipline = "trail"
	DisciplineEnduro Discipline = "enduro"
	DisciplineDH     Discipline = "dh"
	DisciplineCasual Discipline = "casual"
)

// Input is everything the calculator needs for one bike. At least one of
// Fork and Shock must be set.
type Input struct {
	RiderWeight      float64               `json:"rider_weight"`
	GearWeight       float64               `json:"gear_weight"`
	Unit             types.WeightUnit      `json:"unit"`
	Fork             *model.SuspensionSpec `json:"fork,omitempty"`
	Shock            *model.SuspensionSpec `json:"shock,omitempty"`
	Discipline       Discipline            `json:"discipline"`
	TargetSagPercent *float64              `json:"target_sag_percent,omitempty"`
}

// Status tags a Recommendation.
type Status string

// Recommendation statuses.
const (
	StatusOK                Status = "ok"
	StatusInsufficientInput Status = "insufficient_input"
)

// Setup is the baseline for a single fork or shock.
type Setup struct {
	Unit              string         `json:"unit"`
	Kind              model.SpecKind `json:"kind"`
	AirPressurePSI    int            `json:"air_pressure_psi"`
	TargetSagPercent  float64        `json:"target_sag_percent"`
	TargetSagMM       float64        `json:"target_sag_mm"`
	ReboundClicks     int            `json:"rebound_clicks"`
	CompressionClicks *int           `json:"compression_clicks,omitempty"`
	VolumeSpacers     *int           `json:"volume_spacers,omitempty"`
	Accuracy          types.Accuracy `json:"accuracy"`
	Notes             []string       `json:"notes"`
	Clamps            []types.Clamp  `json:"-"`
}

// Recommendation is either a set of unit setups (StatusOK) or a reason why
// none could be produced (StatusInsufficientInput). The two cannot be
// confused: an insufficient result carries no setups at all.
type Recommendation struct {
	Status   Status         `json:"status"`
	Reason   string         `json:"reason,omitempty"`
	Fork     *Setup         `json:"fork,omitempty"`
	Shock    *Setup         `json:"shock,omitempty"`
	Accuracy types.Accuracy `json:"accuracy"`
	Notes    []string       `json:"notes"`
}

// OK reports whether the recommendation carries at least one setup.
func (r Recommendation) OK() bool {
	return r.Status == StatusOK
}

// Primary returns the fork setup when present, else the shock setup.
func (r Recommendation) Primary() *Setup {
	if r.Fork != nil {
		return r.Fork
	}
	return r.Shock
}
