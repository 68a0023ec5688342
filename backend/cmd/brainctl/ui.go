package main

import (
	"fmt"
	"io"
	"strings"

	"enterprise-brain/backend/internal/constants"
	"enterprise-brain/backend/internal/graph"

	"github.com/fatih/color"
)

// Output colors
var (
	brand  = color.New(color.FgHiCyan, color.Bold)
	subtle = color.New(color.FgHiBlack)
	bad    = color.New(color.FgRed)
)

// typeColors mirror the dashboard palette as closely as a terminal allows
var typeColors = map[graph.NodeType]*color.Color{
	graph.NodeTypePerson:       color.New(color.FgHiCyan),
	graph.NodeTypeConversation: color.New(color.FgGreen),
	graph.NodeTypeArtifact:     color.New(color.FgYellow),
	graph.NodeTypeAgent:        color.New(color.FgMagenta),
	graph.NodeTypeAction:       color.New(color.FgRed),
}

func typeLabel(t graph.NodeType) string {
	name := string(t)
	if info, ok := constants.InfoFor(t); ok {
		name = info.Label
	}
	if c, ok := typeColors[t]; ok {
		return c.Sprint(name)
	}
	return name
}

func banner(w io.Writer, subtitle string) {
	fmt.Fprintf(w, "%s %s\n\n", brand.Sprint("brain"), subtle.Sprint("- "+subtitle))
}

// table prints an aligned table. Widths are measured on the plain text so
// colored cells are padded separately.
func table(w io.Writer, headers []string, rows [][]string, colorize func(col int, cell string) string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	header := "  "
	sep := "  "
	for i, h := range headers {
		header += fmt.Sprintf("%-*s  ", widths[i], h)
		sep += strings.Repeat("─", widths[i]) + "  "
	}
	subtle.Fprintln(w, header)
	subtle.Fprintln(w, sep)

	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			padding := strings.Repeat(" ", widths[i]-len(cell))
			if colorize != nil {
				cell = colorize(i, cell)
			}
			line += cell + padding + "  "
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func nodeRows(nodes []graph.Node) [][]string {
	rows := make([][]string, len(nodes))
	for i, n := range nodes {
		rows[i] = []string{n.ID, string(n.Type), n.Label}
	}
	return rows
}

func colorType(col int, cell string) string {
	if col != 1 {
		return cell
	}
	if c, ok := typeColors[graph.NodeType(cell)]; ok {
		return c.Sprint(cell)
	}
	return cell
}

func edgeRows(edges []graph.Edge) [][]string {
	rows := make([][]string, len(edges))
	for i, e := range edges {
		rows[i] = []string{e.Source, e.Type, e.Target}
	}
	return rows
}
