// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package orchestrator

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/traylinx/marketmind/internal/agent"
	"github.com/traylinx/marketmind/internal/persona"
)

// Synthesis is the merged outcome of a fan-out batch.
type Synthesis struct {
	Content string `json:"content"`
	Data    []any  `json:"data,omitempty"`
	Style   string `json:"style"`
}

// introLines prefix the merged content per persona.
var introLines = map[string]string{
	"finance":    "📊 Voici mon analyse :",
	"critic":     "⚠️ Voici mes points de vigilance :",
	"researcher": "📚 Mes recherches montrent :",
	"writer":     "✍️ Voici ma rédaction :",
	"technical":  "📈 Analyse technique :",
	"executive":  "🎯 En tant que CEO :",
	"macro":      "🌍 Vue macro :",
	"political":  "🏛️ Analyse politique :",
}

// Synthesize merges successful agent results under the persona's intro line.
// When every agent failed it returns a persona-flavored apology with no data.
// This is plain text concatenation, not model-driven rewriting.
func Synthesize(results []agent.Result, p *persona.Persona) Synthesis {
	var data []any
	for _, r := range results {
		if r.Success && r.Result != nil {
			data = append(data, r.Result)
		}
	}

	if len(data) == 0 {
		return Synthesis{
			Content: fmt.Sprintf("Je suis désolée, je n'ai pas pu traiter votre demande. %s sera de retour bientôt.", p.DisplayName),
			Style:   p.Style,
		}
	}

	return Synthesis{
		Content: formatResults(data, p),
		Data:    data,
		Style:   p.Style,
	}
}

func formatResults(data []any, p *persona.Persona) string {
	parts := make([]string, 0, len(data))
	for _, r := range data {
		parts = append(parts, renderResult(r))
	}

	intro, ok := introLines[p.ID]
	if !ok {
		intro = "📊"
	}
	return intro + "\n\n" + strings.Join(parts, "\n\n")
}

// renderResult turns one agent payload into text: strings pass through,
// anything else is pretty-printed JSON.
func renderResult(r any) string {
	switch v := r.(type) {
	case string:
		return v
	default:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(out)
	}
}
