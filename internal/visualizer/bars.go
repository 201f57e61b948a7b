package visualizer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var blockChars = []rune(" ▁▂▃▄▅▆▇█")

const (
	barCellWidth = 2
	capRune      = '▔'
)

type rgb struct{ r, g, b float64 }

var barGradient = []rgb{
	{0, 174, 255},
	{20, 255, 161},
	{255, 230, 92},
	{255, 80, 60},
}

// BarRenderer draws bar heights as columns of block glyphs. Each bar
// carries a peak cap that springs toward the bar top, so it lingers briefly
// after a drop.
type BarRenderer struct {
	rows   int
	caps   springField
	styles []lipgloss.Style
	cap    lipgloss.Style
}

// NewBarRenderer creates a renderer drawing rows terminal lines, animated
// at fps frames per second.
func NewBarRenderer(rows, fps int) *BarRenderer {
	rows = max(rows, 1)
	r := &BarRenderer{
		rows: rows,
		caps: newSpringField(max(fps, 1), 6.0, 0.5),
		cap:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFCD2")),
	}
	r.styles = make([]lipgloss.Style, rows)
	for row := range rows {
		t := 0.0
		if rows > 1 {
			t = float64(row) / float64(rows-1)
		}
		r.styles[row] = lipgloss.NewStyle().Foreground(lipgloss.Color(gradientHex(t)))
	}
	return r
}

// Rows returns the number of lines Render produces.
func (r *BarRenderer) Rows() int { return r.rows }

// Render draws one frame. Heights outside [MinHeight, MaxHeight] are
// clamped.
func (r *BarRenderer) Render(heights []float64) string {
	r.caps.resize(len(heights))

	levels := make([]float64, len(heights))
	capRows := make([]int, len(heights))
	for i, h := range heights {
		levels[i] = clampHeight(h) / MaxHeight * float64(r.rows)
		c := r.caps.step(i, levels[i])
		capRows[i] = -1
		if c > levels[i]+0.5 {
			capRows[i] = min(int(c), r.rows-1)
		}
	}

	lines := make([]string, r.rows)
	for row := range r.rows {
		fromBottom := r.rows - 1 - row
		var line strings.Builder
		for i, level := range levels {
			if i > 0 {
				line.WriteByte(' ')
			}
			ch := cellRune(level, float64(fromBottom))
			style := r.styles[fromBottom]
			if ch == ' ' && capRows[i] == fromBottom {
				ch = capRune
				style = r.cap
			}
			line.WriteString(style.Render(strings.Repeat(string(ch), barCellWidth)))
		}
		lines[row] = line.String()
	}
	return strings.Join(lines, "\n")
}

// Reset drops every cap to the floor.
func (r *BarRenderer) Reset() {
	r.caps.settle(MinHeight / MaxHeight * float64(r.rows))
}

func cellRune(level, fromBottom float64) rune {
	switch {
	case level >= fromBottom+1:
		return blockChars[len(blockChars)-1]
	case level > fromBottom:
		frac := level - fromBottom
		return blockChars[int(frac*float64(len(blockChars)-1))]
	default:
		return ' '
	}
}

func gradientHex(t float64) string {
	t = max(0, min(1, t))
	seg := t * float64(len(barGradient)-1)
	i := min(int(seg), len(barGradient)-2)
	f := seg - float64(i)
	a, b := barGradient[i], barGradient[i+1]
	return fmt.Sprintf("#%02X%02X%02X",
		uint8(a.r+(b.r-a.r)*f),
		uint8(a.g+(b.g-a.g)*f),
		uint8(a.b+(b.b-a.b)*f))
}
