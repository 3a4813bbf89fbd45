package render

import "encoding/json"

type jsonOutput struct {
	Length   float64            `json:"length"`
	Width    float64            `json:"width"`
	Radius   float64            `json:"radius"`
	Anchors  []jsonAnchor       `json:"anchors"`
	Coverage map[string]float64 `json:"coverage,omitempty"`
	Counts   []int              `json:"histogram,omitempty"`
}

type jsonAnchor struct {
	ID   int     `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Loop int     `json:"loop"`
}

func renderJSON(scene Scene) ([]byte, error) {
	out := jsonOutput{
		Length:  scene.Region.Length,
		Width:   scene.Region.Width,
		Radius:  scene.Radius,
		Anchors: make([]jsonAnchor, len(scene.Anchors)),
	}
	for i, a := range scene.Anchors {
		out.Anchors[i] = jsonAnchor{ID: i + 1, X: a.X, Y: a.Y, Loop: a.Loop}
	}
	if scene.Grid != nil {
		h := scene.Grid.Histogram()
		out.Counts = h.Counts
		out.Coverage = h.Percentages()
	}
	return json.MarshalIndent(out, "", "  ")
}
