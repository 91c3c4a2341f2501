// Package risk produces a short voyage risk assessment for an order or a
// free-form route. A generative model writes the narrative when one is
// configured; otherwise a fixed rule set scores the voyage.
package risk

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/shipmarket/internal/logging"
)

// Subject describes the voyage being assessed.
type Subject struct {
	OriginPort      string
	DestinationPort string
	DepartureDate   time.Time
	ArrivalDate     time.Time
	CargoType       string
	WeightTons      float64
	VesselName      string
	Notes           string
}

type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Assessment is the result returned to callers.
type Assessment struct {
	Score   int
	Level   Level
	Factors []string
	Summary string
	Source  string
}

// Generator turns a prompt into model text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Assessor struct {
	gen    Generator
	logger logging.Logger
}

// NewAssessor returns an assessor. gen may be nil.
func NewAssessor(gen Generator, logger logging.Logger) *Assessor {
	return &Assessor{gen: gen, logger: logger}
}

// Assess always returns a rule-based score; the narrative comes from the
// generator when available and falls back to the rule summary on error.
func (a *Assessor) Assess(ctx context.Context, s Subject) (*Assessment, error) {
	if strings.TrimSpace(s.OriginPort) == "" || strings.TrimSpace(s.DestinationPort) == "" {
		return nil, fmt.Errorf("origin and destination ports are required")
	}

	res := score(s)
	res.Source = "rules"
	res.Summary = fmt.Sprintf("%s risk voyage %s → %s (score %d).", strings.ToUpper(string(res.Level[:1]))+string(res.Level[1:]),
		s.OriginPort, s.DestinationPort, res.Score)

	if a.gen == nil {
		return res, nil
	}

	text, err := a.gen.Generate(ctx, Prompt(s, res))
	if err != nil {
		a.logger.Warn(ctx, "risk narrative unavailable, using rules", "error", err)
		return res, nil
	}
	if text = strings.TrimSpace(text); text != "" {
		res.Summary = text
		res.Source = "genai"
	}
	return res, nil
}

// cargoKeywords is kept in alphabetical order so factors, and the prompt
// built from them, are stable between runs.
var cargoKeywords = []struct {
	word   string
	weight int
}{
	{"bulk", 5},
	{"chemical", 20},
	{"hazardous", 25},
	{"livestock", 20},
	{"perishable", 15},
	{"reefer", 15},
}

func score(s Subject) *Assessment {
	pts := 10
	var factors []string

	ct := strings.ToLower(s.CargoType)
	for _, kw := range cargoKeywords {
		if strings.Contains(ct, kw.word) {
			pts += kw.weight
			factors = append(factors, "cargo:"+kw.word)
		}
	}

	if !s.DepartureDate.IsZero() && !s.ArrivalDate.IsZero() {
		days := s.ArrivalDate.Sub(s.DepartureDate).Hours() / 24
		switch {
		case days < 0:
			pts += 30
			factors = append(factors, "schedule:arrival-before-departure")
		case days > 30:
			pts += 20
			factors = append(factors, "schedule:long-voyage")
		case days > 14:
			pts += 10
			factors = append(factors, "schedule:extended-voyage")
		}
		if m := s.DepartureDate.Month(); m >= time.June && m <= time.November {
			pts += 10
			factors = append(factors, "season:storm")
		}
	}

	switch {
	case s.WeightTons > 50000:
		pts += 15
		factors = append(factors, "weight:very-heavy")
	case s.WeightTons > 10000:
		pts += 5
		factors = append(factors, "weight:heavy")
	}

	if pts > 100 {
		pts = 100
	}

	lvl := LevelLow
	switch {
	case pts >= 60:
		lvl = LevelHigh
	case pts >= 30:
		lvl = LevelMedium
	}

	return &Assessment{Score: pts, Level: lvl, Factors: factors}
}

// Prompt renders the model instruction for s, anchored on the rule score.
func Prompt(s Subject, base *Assessment) string {
	var b strings.Builder
	b.WriteString("You are a marine cargo underwriter. In at most four sentences, assess the risk of this voyage ")
	b.WriteString("and name the main hazards. Do not invent data.\n")
	fmt.Fprintf(&b, "Route: %s to %s\n", s.OriginPort, s.DestinationPort)
	if !s.DepartureDate.IsZero() {
		fmt.Fprintf(&b, "Departure: %s\n", s.DepartureDate.Format(time.DateOnly))
	}
	if !s.ArrivalDate.IsZero() {
		fmt.Fprintf(&b, "Arrival: %s\n", s.ArrivalDate.Format(time.DateOnly))
	}
	if s.CargoType != "" {
		fmt.Fprintf(&b, "Cargo: %s", s.CargoType)
		if s.WeightTons > 0 {
			fmt.Fprintf(&b, ", %.0f t", s.WeightTons)
		}
		b.WriteString("\n")
	}
	if s.VesselName != "" {
		fmt.Fprintf(&b, "Vessel: %s\n", s.VesselName)
	}
	if s.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", s.Notes)
	}
	fmt.Fprintf(&b, "Baseline score: %d/100 (%s)", base.Score, base.Level)
	if len(base.Factors) > 0 {
		fmt.Fprintf(&b, ", factors: %s", strings.Join(base.Factors, ", "))
	}
	return b.String()
}
