package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Tafitantsu/Transport-cost/pkg/transport"
)

// Terminal colors, ANSI 256.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)

	styleOptimal = lipgloss.NewStyle().Foreground(colorGreen)
	styleCapped  = lipgloss.NewStyle().Foreground(colorYellow)
	styleInitial = lipgloss.NewStyle().Foreground(colorGray)

	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	styleCell     = lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
	styleEmpty    = lipgloss.NewStyle().Foreground(colorDim).Padding(0, 1)
	styleEpsilon  = lipgloss.NewStyle().Foreground(colorYellow).Padding(0, 1)
	styleLoop     = lipgloss.NewStyle().Foreground(colorRed).Bold(true).Padding(0, 1)
	styleEntering = lipgloss.NewStyle().Foreground(colorBlue).Bold(true).Padding(0, 1)
)

const iconSuccess = "✓"

// A marker prefixes one line of status output. Nil styles leave their
// part unstyled.
type marker struct {
	icon      string
	iconStyle *lipgloss.Style
	bodyStyle *lipgloss.Style
}

func styled(st *lipgloss.Style, s string) string {
	if st == nil {
		return s
	}
	return st.Render(s)
}

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	markSuccess = marker{icon: iconSuccess, iconStyle: &styleIconSuccess}
	markError   = marker{icon: "✗", iconStyle: &styleIconError}
	markWarning = marker{icon: "!", iconStyle: &StyleWarning, bodyStyle: &StyleWarning}
	markInfo    = marker{icon: "›", iconStyle: &styleIconInfo}
	markDetail  = marker{icon: " ", bodyStyle: &StyleDim}
	markFile    = marker{icon: " →", iconStyle: &StyleDim, bodyStyle: &StyleValue}
)

func (m marker) println(format string, args ...any) {
	fmt.Println(styled(m.iconStyle, m.icon) + " " + styled(m.bodyStyle, fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) { markSuccess.println(format, args...) }
func printError(format string, args ...any)   { markError.println(format, args...) }
func printWarning(format string, args ...any) { markWarning.println(format, args...) }
func printInfo(format string, args ...any)    { markInfo.println(format, args...) }
func printDetail(format string, args ...any)  { markDetail.println(format, args...) }
func printFile(path string)                   { markFile.println("%s", path) }

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints a one-line summary of a plan: basis size, ε count,
// rounds and status.
func printStats(s *transport.Solution) {
	parts := []string{fmt.Sprintf("%d basic cells", s.Allocation.BasicCount())}
	if n := s.Allocation.EpsilonCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d ε", n))
	}
	if s.Rounds > 0 {
		parts = append(parts, fmt.Sprintf("%d rounds", s.Rounds))
	}
	for i := range parts {
		parts[i] = StyleDim.Render(parts[i])
	}
	parts = append(parts, statusStyle(s.Status).Render(string(s.Status)))
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

func statusStyle(s transport.Status) lipgloss.Style {
	switch s {
	case transport.StatusOptimal:
		return styleOptimal
	case transport.StatusIterationCap:
		return styleCapped
	}
	return styleInitial
}

// formatCost prints v with as few digits as round-trip exactly.
func formatCost(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// tableauMarks highlights cells when rendering a tableau.
type tableauMarks struct {
	Entering *transport.Pos
	Loop     transport.Path
}

// renderTableau draws an allocation as a bordered table with supply and
// demand margins. When costs is set, each cell also shows its unit cost.
func renderTableau(t *transport.Tableau, costs *transport.Matrix, marks tableauMarks) string {
	rows, cols := t.Rows(), t.Cols()

	headers := make([]string, 0, cols+2)
	headers = append(headers, "")
	for j := 0; j < cols; j++ {
		headers = append(headers, fmt.Sprintf("D%d", j+1))
	}
	headers = append(headers, "Supply")

	rowSums, colSums := t.RowSums(), t.ColSums()
	data := make([][]string, 0, rows+1)
	for i := 0; i < rows; i++ {
		line := make([]string, 0, cols+2)
		line = append(line, fmt.Sprintf("S%d", i+1))
		for j := 0; j < cols; j++ {
			cell := transport.FormatCell(t.At(i, j))
			if costs != nil {
				cell += StyleDim.Render(" @" + formatCost(costs.At(i, j)))
			}
			line = append(line, cell)
		}
		line = append(line, formatCost(rowSums[i]))
		data = append(data, line)
	}
	demand := make([]string, 0, cols+2)
	demand = append(demand, "Demand")
	for _, v := range colSums {
		demand = append(demand, formatCost(v))
	}
	demand = append(demand, "")
	data = append(data, demand)

	onLoop := make(map[transport.Pos]bool, len(marks.Loop))
	for _, p := range marks.Loop {
		onLoop[p] = true
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || col == 0 || col == cols+1 || row == rows {
				return styleHeader
			}
			pos := transport.Pos{Row: row, Col: col - 1}
			switch {
			case marks.Entering != nil && *marks.Entering == pos:
				return styleEntering
			case onLoop[pos]:
				return styleLoop
			}
			switch t.At(pos.Row, pos.Col).State {
			case transport.Epsilon:
				return styleEpsilon
			case transport.Empty:
				return styleEmpty
			}
			return styleCell
		})
	return tbl.Render()
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
