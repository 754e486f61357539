// ABOUTME: Scoring for routing accuracy runs
// ABOUTME: Computes overall accuracy, fallback rate and per-route recall

package accuracy

import "github.com/harper/ticket-router/internal/models"

// CaseResult is the router's answer for one case
type CaseResult struct {
	CaseID    string           `json:"case_id"`
	Expected  models.RouteName `json:"expected"`
	Got       models.RouteName `json:"got"`
	Fallback  bool             `json:"fallback"`
	Reasoning string           `json:"reasoning,omitempty"`
	Cause     string           `json:"cause,omitempty"`
}

// Correct reports whether the router picked the labelled route
func (r CaseResult) Correct() bool {
	return r.Got == r.Expected
}

// RouteScore is the recall for one expected route
type RouteScore struct {
	Expected int     `json:"expected"`
	Correct  int     `json:"correct"`
	Recall   float64 `json:"recall"`
}

// Summary aggregates a run
type Summary struct {
	Total        int                   `json:"total"`
	Correct      int                   `json:"correct"`
	Fallbacks    int                   `json:"fallbacks"`
	Accuracy     float64               `json:"accuracy"`
	FallbackRate float64               `json:"fallback_rate"`
	PerRoute     map[string]RouteScore `json:"per_route"`
}

// Score summarizes results. An empty run scores zero.
func Score(results []CaseResult) Summary {
	s := Summary{
		Total:    len(results),
		PerRoute: make(map[string]RouteScore),
	}

	for _, r := range results {
		rs := s.PerRoute[r.Expected.String()]
		rs.Expected++
		if r.Correct() {
			s.Correct++
			rs.Correct++
		}
		if r.Fallback {
			s.Fallbacks++
		}
		s.PerRoute[r.Expected.String()] = rs
	}

	for name, rs := range s.PerRoute {
		rs.Recall = ratio(rs.Correct, rs.Expected)
		s.PerRoute[name] = rs
	}
	s.Accuracy = ratio(s.Correct, s.Total)
	s.FallbackRate = ratio(s.Fallbacks, s.Total)
	return s
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
