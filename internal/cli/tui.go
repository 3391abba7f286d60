package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tafitantsu/Transport-cost/pkg/transport"
)

var (
	frameTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	frameNoteStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	frameDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Frames - one optimizer step each
// =============================================================================

// frame is a single step of a solve: the initial plan, a pivot about to
// happen, or the final plan.
type frame struct {
	Title   string
	Tableau *transport.Tableau
	Marks   tableauMarks
	Cost    float64
	Note    string
}

// buildFrames turns a recorded solve into frames. Each pivot is shown on the
// tableau it starts from, with the entering cell and its loop highlighted.
func buildFrames(method transport.Method, initial *transport.Solution, pivots []transport.PivotEvent, final *transport.Solution) []frame {
	frames := make([]frame, 0, len(pivots)+2)
	frames = append(frames, frame{
		Title:   fmt.Sprintf("Initial plan (%s)", method),
		Tableau: initial.Allocation,
		Cost:    initial.TotalCost,
		Note:    fmt.Sprintf("%d basic cells, %d ε", initial.Allocation.BasicCount(), initial.Allocation.EpsilonCount()),
	})

	before, cost := initial.Allocation, initial.TotalCost
	for _, ev := range pivots {
		entering := ev.Entering
		note := fmt.Sprintf("enter %s  δ=%s  θ=%s", entering, formatCost(ev.Delta), formatCost(ev.Theta))
		if ev.Left {
			note += fmt.Sprintf("  leave %s", ev.Leaving)
		}
		note += fmt.Sprintf("  → cost %s", formatCost(ev.Cost))
		frames = append(frames, frame{
			Title:   fmt.Sprintf("Round %d", ev.Round),
			Tableau: before,
			Marks:   tableauMarks{Entering: &entering, Loop: ev.Path},
			Cost:    cost,
			Note:    note,
		})
		before, cost = ev.After, ev.Cost
	}

	if final != nil {
		frames = append(frames, frame{
			Title:   fmt.Sprintf("Final plan (%s)", final.Status),
			Tableau: final.Allocation,
			Cost:    final.TotalCost,
			Note:    fmt.Sprintf("%d rounds", final.Rounds),
		})
	}
	return frames
}

// renderFrame draws a frame without any key help.
func renderFrame(f frame, costs transport.Matrix) string {
	var b strings.Builder
	b.WriteString(frameTitleStyle.Render(f.Title))
	b.WriteString(frameDimStyle.Render("  cost " + formatCost(f.Cost)))
	b.WriteString("\n")
	b.WriteString(renderTableau(f.Tableau, &costs, f.Marks))
	b.WriteString("\n")
	b.WriteString(frameNoteStyle.Render(f.Note))
	return b.String()
}

// =============================================================================
// InspectModel - Interactive round stepping
// =============================================================================

// InspectModel is the bubbletea model for stepping through a solve.
type InspectModel struct {
	Frames []frame
	Costs  transport.Matrix
	Index  int
}

// NewInspectModel creates a model positioned on the first frame.
func NewInspectModel(frames []frame, costs transport.Matrix) InspectModel {
	return InspectModel{Frames: frames, Costs: costs}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "p":
			if m.Index > 0 {
				m.Index--
			}
		case "right", "l", "n", " ":
			if m.Index < len(m.Frames)-1 {
				m.Index++
			}
		case "home", "g":
			m.Index = 0
		case "end", "G":
			m.Index = len(m.Frames) - 1
		}
	}
	return m, nil
}

func (m InspectModel) View() string {
	if len(m.Frames) == 0 {
		return frameDimStyle.Render("nothing to show") + "\n"
	}
	var b strings.Builder
	b.WriteString(renderFrame(m.Frames[m.Index], m.Costs))
	b.WriteString("\n\n")
	b.WriteString(frameDimStyle.Render(fmt.Sprintf("[%d/%d]  ←/→ step  g/G first/last  q quit", m.Index+1, len(m.Frames))))
	b.WriteString("\n")
	return b.String()
}
