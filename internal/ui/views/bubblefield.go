package views

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// bubble is a single particle in the idle animation.
type bubble struct {
	x     float64
	y     float64
	speed float64
	sway  float64
	phase float64
	depth int
}

// BubbleField animates rising bubbles on the idle screen. It is purely
// decorative: any frame can be replaced with static text without
// affecting the rest of the view.
type BubbleField struct {
	width   int
	height  int
	bubbles []bubble
	rng     *rand.Rand
	frame   int
	enabled bool
}

// Glyph per depth, far to near.
var bubbleGlyphs = [...]string{"·", "∘", "○"}

// NewBubbleField creates a field with the given particle count.
// A zero count or enabled=false yields a field that renders nothing.
func NewBubbleField(count int, enabled bool) *BubbleField {
	f := &BubbleField{
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		enabled: enabled && count > 0,
	}
	if f.enabled {
		f.bubbles = make([]bubble, count)
	}
	return f
}

// Count returns the number of particles in the field.
func (f *BubbleField) Count() int {
	return len(f.bubbles)
}

// Resize fits the field to a new canvas and rescatters the particles.
func (f *BubbleField) Resize(width, height int) {
	f.width = width
	f.height = height
	if !f.enabled || width <= 0 || height <= 0 {
		return
	}
	for i := range f.bubbles {
		f.bubbles[i] = f.spawn(true)
	}
}

// Advance moves every particle one animation step. Particles that float
// off the top respawn below the bottom edge.
func (f *BubbleField) Advance() {
	if !f.enabled || f.width <= 0 || f.height <= 0 {
		return
	}
	f.frame++
	for i := range f.bubbles {
		b := &f.bubbles[i]
		b.y -= b.speed
		if b.y < 0 {
			f.bubbles[i] = f.spawn(false)
		}
	}
}

func (f *BubbleField) spawn(anywhere bool) bubble {
	b := bubble{
		x:     f.rng.Float64() * float64(f.width),
		y:     float64(f.height) + f.rng.Float64()*3,
		speed: 0.15 + f.rng.Float64()*0.35,
		sway:  f.rng.Float64() * 1.5,
		phase: f.rng.Float64() * 2 * math.Pi,
		depth: f.rng.Intn(len(bubbleGlyphs)),
	}
	if anywhere {
		b.y = f.rng.Float64() * float64(f.height)
	}
	return b
}

// Render draws the current frame onto a width x height canvas.
func (f *BubbleField) Render(styles *Styles) string {
	if !f.enabled || f.width <= 0 || f.height <= 0 {
		return ""
	}

	// Nearer bubbles win a contested cell.
	cells := make(map[[2]int]int, len(f.bubbles))
	for i := range f.bubbles {
		b := &f.bubbles[i]
		x := int(b.x + math.Sin(b.phase+float64(f.frame)*0.08)*b.sway)
		y := int(b.y)
		if x < 0 || x >= f.width || y < 0 || y >= f.height {
			continue
		}
		pos := [2]int{x, y}
		if prev, ok := cells[pos]; !ok || b.depth > prev {
			cells[pos] = b.depth
		}
	}

	var sb strings.Builder
	for y := 0; y < f.height; y++ {
		if y > 0 {
			sb.WriteString("\n")
		}
		for x := 0; x < f.width; x++ {
			depth, ok := cells[[2]int{x, y}]
			if !ok {
				sb.WriteString(" ")
				continue
			}
			sb.WriteString(f.shade(styles, depth).Render(bubbleGlyphs[depth]))
		}
	}
	return sb.String()
}

func (f *BubbleField) shade(styles *Styles, depth int) lipgloss.Style {
	switch depth {
	case 2:
		return styles.BubbleNear
	case 1:
		return styles.BubbleMid
	default:
		return styles.BubbleFar
	}
}
