package mcp

import (
	"encoding/json"

	"github.com/lvillar/leadmagnet/form"
	"github.com/lvillar/leadmagnet/score"
)

// RegisterDefaultResources adds the reference resources under magnet://.
func RegisterDefaultResources(s *Server) {
	s.AddResource(Resource{
		URI:         "magnet://types",
		Name:        "Magnet Types",
		Description: "Every lead magnet type with its display name and pitch.",
		MIMEType:    "application/json",
		Handler:     handleTypesResource,
	})
	s.AddResource(Resource{
		URI:         "magnet://niches",
		Name:        "Business Niches",
		Description: "The niches a business may belong to.",
		MIMEType:    "application/json",
		Handler:     handleNichesResource,
	})
	s.AddResource(Resource{
		URI:         "magnet://scoring",
		Name:        "Scoring Rules",
		Description: "Thresholds used by the quiz, value calculator and scorecard.",
		MIMEType:    "application/json",
		Handler:     handleScoringResource,
	})
}

func jsonContent(uri string, v any) ([]ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []ResourceContent{{URI: uri, MIMEType: "application/json", Text: string(data)}}, nil
}

func handleTypesResource(uri string) ([]ResourceContent, error) {
	type entry struct {
		ID          form.Type `json:"id"`
		Name        string    `json:"name"`
		Description string    `json:"description"`
	}
	types := make([]entry, len(form.Types))
	for i, t := range form.Types {
		types[i] = entry{ID: t, Name: t.Name(), Description: t.Description()}
	}
	return jsonContent(uri, types)
}

func handleNichesResource(uri string) ([]ResourceContent, error) {
	return jsonContent(uri, form.Niches)
}

func handleScoringResource(uri string) ([]ResourceContent, error) {
	return jsonContent(uri, map[string]any{
		"quiz": map[string]float64{
			"highPercent":   score.QuizHighPercent,
			"mediumPercent": score.QuizMediumPercent,
		},
		"valueCalculator": map[string]any{
			"high":   score.ValueHigh,
			"medium": score.ValueMedium,
			"slider": map[string]int{"min": score.SliderMin, "max": score.SliderMax, "default": score.SliderDefault},
		},
		"scorecard": map[string]any{
			"metricMax": form.MetricMaxScore,
			"tiers":     score.Tiers,
		},
	})
}
