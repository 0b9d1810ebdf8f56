// Package compat checks a drivetrain for part combinations that will not
// shift or will not wrap the chain.
package compat

import (
	"fmt"

	"github.com/okian/garage/internal/domain/model"
	"github.com/okian/garage/internal/domain/types"
)

// Issue codes.
const (
	CodeShifterSpeeds  = "shifter_derailleur_speeds"
	CodeCassetteSpeeds = "derailleur_cassette_speeds"
	CodeChainSpeeds    = "cassette_chain_speeds"
	CodeMaxCog         = "max_cog_exceeded"
	CodeCapacity       = "capacity_exceeded"
	CodeCogOrder       = "cog_order"
	CodeChainringOrder = "chainring_order"
)

// Issue is one incompatibility.
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Report is the outcome of Check. Compatible is true when no issues were
// found; checks whose inputs are missing are skipped and noted.
type Report struct {
	Compatible bool     `json:"compatible"`
	Issues     []Issue  `json:"issues"`
	Notes      []string `json:"notes"`
	// RequiredCapacity is the total wrap the drivetrain needs, 0 if unknown.
	RequiredCapacity int `json:"required_capacity"`
}

type checker struct {
	issues []Issue
	diag   types.Diagnostics
}

func (c *checker) fail(code, format string, args ...any) {
	c.issues = append(c.issues, Issue{Code: code, Message: fmt.Sprintf(format, args...)})
}

// speeds compares two speed counts, noting when either is unknown.
func (c *checker) speeds(code, aName string, a int, bName string, b int) {
	if a <= 0 || b <= 0 {
		c.diag.Note("%s or %s speed count unknown; skipped speed match", aName, bName)
		return
	}
	if a != b {
		c.fail(code, "%d-speed %s does not match %d-speed %s", a, aName, b, bName)
	}
}

// Check runs every rule against d.
func Check(d model.Drivetrain) Report {
	var c checker

	c.speeds(CodeShifterSpeeds, "shifter", d.ShifterSpeeds, "derailleur", d.DerailleurSpeeds)
	c.speeds(CodeCassetteSpeeds, "derailleur", d.DerailleurSpeeds, "cassette", d.CassetteSpeeds)
	c.speeds(CodeChainSpeeds, "cassette", d.CassetteSpeeds, "chain", d.ChainSpeeds)

	cogsKnown := d.CassetteSmallestCog > 0 && d.CassetteLargestCog > 0
	if cogsKnown && d.CassetteSmallestCog > d.CassetteLargestCog {
		c.fail(CodeCogOrder, "smallest cog %dT is larger than largest cog %dT", d.CassetteSmallestCog, d.CassetteLargestCog)
	}
	ringsKnown := d.ChainringLargest > 0
	if ringsKnown && d.ChainringSmallest > d.ChainringLargest {
		c.fail(CodeChainringOrder, "small chainring %dT is larger than big chainring %dT", d.ChainringSmallest, d.ChainringLargest)
	}

	switch {
	case d.CassetteLargestCog <= 0 || d.DerailleurMaxCog <= 0:
		c.diag.Note("Largest cog or derailleur max cog unknown; skipped max cog check")
	case d.CassetteLargestCog > d.DerailleurMaxCog:
		c.fail(CodeMaxCog, "%dT largest cog exceeds the derailleur's %dT maximum", d.CassetteLargestCog, d.DerailleurMaxCog)
	}

	var required int
	if cogsKnown && ringsKnown && d.CassetteSmallestCog <= d.CassetteLargestCog {
		small := d.ChainringSmallest
		if small <= 0 {
			small = d.ChainringLargest
		}
		required = (d.CassetteLargestCog - d.CassetteSmallestCog) + (d.ChainringLargest - small)
		c.diag.Note("Drivetrain needs %dT of capacity (%d-%dT cassette, %d/%dT chainrings)",
			required, d.CassetteSmallestCog, d.CassetteLargestCog, d.ChainringLargest, small)
	}
	switch {
	case required <= 0 || d.DerailleurCapacity <= 0:
		c.diag.Note("Derailleur capacity or gearing unknown; skipped capacity check")
	case required > d.DerailleurCapacity:
		c.fail(CodeCapacity, "drivetrain needs %dT of capacity but the derailleur wraps %dT", required, d.DerailleurCapacity)
	}

	c.diag.Finalize()
	issues := c.issues
	if issues == nil {
		issues = []Issue{}
	}
	return Report{
		Compatible:       len(issues) == 0,
		Issues:           issues,
		Notes:            c.diag.Notes,
		RequiredCapacity: max(required, 0),
	}
}
