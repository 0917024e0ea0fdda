package model

import (
	"encoding/json"
	"fmt"
)

const heightKey = "height"

type payloadJSON struct {
	Name    string       `json:"name"`
	Data    any          `json:"data"`
	Axis    *axisJSON    `json:"axis,omitempty"`
	Legend  *legendJSON  `json:"legend,omitempty"`
	Tooltip *tooltipJSON `json:"tooltip,omitempty"`
}

type seriesJSON struct {
	X     string            `json:"x"`
	JSON  map[string]any    `json:"json"`
	Names map[string]string `json:"names"`
}

type pieJSON struct {
	Type  string   `json:"type"`
	JSON  []int    `json:"json"`
	Names []string `json:"names"`
}

type barJSON struct {
	Type    string     `json:"type"`
	Groups  [][]string `json:"groups"`
	Columns [][]any    `json:"columns"`
}

type axisJSON struct {
	Rotated bool      `json:"rotated"`
	X       axisXJSON `json:"x"`
	Y       axisYJSON `json:"y"`
}

type axisXJSON struct {
	Show       bool     `json:"show"`
	Type       string   `json:"type"`
	Categories []string `json:"categories"`
}

type axisYJSON struct {
	Label string `json:"label"`
}

type legendJSON struct {
	Show bool `json:"show"`
}

type tooltipJSON struct {
	Grouped bool `json:"grouped"`
	Show    bool `json:"show"`
}

// MarshalJSON renders the payload in the column layout expected by the explorer UI charts.
func (p Payload) MarshalJSON() ([]byte, error) {
	out := payloadJSON{Name: p.Name}

	switch {
	case p.Series != nil:
		out.Data = renderSeries(*p.Series)
	case p.Breakdown != nil && p.Breakdown.Style == Pie:
		out.Data = renderPie(*p.Breakdown)
	case p.Breakdown != nil && p.Breakdown.Style == Bar:
		out.Data = renderBar(*p.Breakdown)
		out.Axis = &axisJSON{
			Rotated: true,
			X:       axisXJSON{Show: false, Type: "category", Categories: []string{"Mined by"}},
			Y:       axisYJSON{Label: "Block count"},
		}
		out.Legend = &legendJSON{Show: false}
		out.Tooltip = &tooltipJSON{Grouped: false, Show: true}
	default:
		return nil, fmt.Errorf("payload %q has no data", p.Category)
	}

	return json.Marshal(out)
}

func renderSeries(s Series) seriesJSON {
	heights := make([]int64, 0, len(s.Points))
	values := make([]float64, 0, len(s.Points))
	for _, pt := range s.Points {
		heights = append(heights, pt.Height)
		values = append(values, pt.Value)
	}
	return seriesJSON{
		X: heightKey,
		JSON: map[string]any{
			heightKey: heights,
			s.Key:     values,
		},
		Names: map[string]string{
			heightKey: "Height",
			s.Key:     s.Label,
		},
	}
}

func renderPie(b Breakdown) pieJSON {
	out := pieJSON{
		Type:  string(Pie),
		JSON:  make([]int, 0, len(b.Slices)),
		Names: make([]string, 0, len(b.Slices)),
	}
	for _, s := range b.Slices {
		out.JSON = append(out.JSON, s.Count)
		out.Names = append(out.Names, s.Name)
	}
	return out
}

func renderBar(b Breakdown) barJSON {
	names := make([]string, 0, len(b.Slices))
	columns := make([][]any, 0, len(b.Slices))
	for _, s := range b.Slices {
		names = append(names, s.Name)
		columns = append(columns, []any{s.Name, s.Count})
	}
	return barJSON{
		Type:    string(Bar),
		Groups:  [][]string{names},
		Columns: columns,
	}
}
