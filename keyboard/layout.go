// Package keyboard models the on-screen keyboard: key geometry, hit
// testing, control buttons and key travel animation.
package keyboard

// Rect is an axis-aligned rectangle in screen units.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r. The right and bottom edges
// are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Key is one key of the layout.
type Key struct {
	Note  int
	Black bool
	Rect  Rect
}

// ButtonKind identifies a control button.
type ButtonKind int

const (
	ButtonTimbre ButtonKind = iota
	ButtonOctaveDown
	ButtonOctaveUp
)

// Button is a clickable control. Index is the timbre index for
// ButtonTimbre and unused otherwise.
type Button struct {
	Kind  ButtonKind
	Index int
	Rect  Rect
}

// Geometry sets the size and placement of a layout.
type Geometry struct {
	X, Y         float64
	WhiteWidth   float64
	WhiteHeight  float64
	BlackWidth   float64
	BlackHeight  float64
	ButtonY      float64
	ButtonWidth  float64
	ButtonHeight float64
	ButtonGap    float64
}

// DefaultGeometry returns the pixel geometry used by the desktop app.
func DefaultGeometry() Geometry {
	return Geometry{
		X:            24,
		Y:            150,
		WhiteWidth:   38,
		WhiteHeight:  200,
		BlackWidth:   24,
		BlackHeight:  124,
		ButtonY:      96,
		ButtonWidth:  120,
		ButtonHeight: 32,
		ButtonGap:    12,
	}
}

// IsBlack reports whether a MIDI note is a black key.
func IsBlack(note int) bool {
	switch ((note % 12) + 12) % 12 {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}

// Layout places count keys starting at firstNote, plus one button per
// timbre and the two octave buttons.
type Layout struct {
	Keys    []Key
	Buttons []Button
	geo     Geometry
	whites  int
}

// NewLayout builds a layout. The first note should be a white key; a black
// first key is drawn half outside the left edge.
func NewLayout(firstNote, count, timbres int, g Geometry) *Layout {
	l := &Layout{geo: g, Keys: make([]Key, 0, count)}
	for i := 0; i < count; i++ {
		note := firstNote + i
		if IsBlack(note) {
			cx := g.X + float64(l.whites)*g.WhiteWidth
			l.Keys = append(l.Keys, Key{
				Note:  note,
				Black: true,
				Rect:  Rect{X: cx - g.BlackWidth/2, Y: g.Y, W: g.BlackWidth, H: g.BlackHeight},
			})
			continue
		}
		l.Keys = append(l.Keys, Key{
			Note: note,
			Rect: Rect{X: g.X + float64(l.whites)*g.WhiteWidth, Y: g.Y, W: g.WhiteWidth, H: g.WhiteHeight},
		})
		l.whites++
	}

	x := g.X
	for i := 0; i < timbres; i++ {
		l.Buttons = append(l.Buttons, Button{
			Kind:  ButtonTimbre,
			Index: i,
			Rect:  Rect{X: x, Y: g.ButtonY, W: g.ButtonWidth, H: g.ButtonHeight},
		})
		x += g.ButtonWidth + g.ButtonGap
	}

	right := g.X + float64(l.whites)*g.WhiteWidth
	small := g.ButtonHeight
	l.Buttons = append(l.Buttons,
		Button{Kind: ButtonOctaveDown, Rect: Rect{X: right - 2*small - g.ButtonGap, Y: g.ButtonY, W: small, H: small}},
		Button{Kind: ButtonOctaveUp, Rect: Rect{X: right - small, Y: g.ButtonY, W: small, H: small}},
	)
	return l
}

// Size returns the extent of the layout including its left/top origin
// margin, mirrored on the right and bottom.
func (l *Layout) Size() (w, h float64) {
	return 2*l.geo.X + float64(l.whites)*l.geo.WhiteWidth, l.geo.Y + l.geo.WhiteHeight + l.geo.X
}

// KeyAt returns the index into Keys of the key under (x, y). Black keys sit
// on top of white keys and are tested first.
func (l *Layout) KeyAt(x, y float64) (int, bool) {
	for i := range l.Keys {
		if l.Keys[i].Black && l.Keys[i].Rect.Contains(x, y) {
			return i, true
		}
	}
	for i := range l.Keys {
		if !l.Keys[i].Black && l.Keys[i].Rect.Contains(x, y) {
			return i, true
		}
	}
	return 0, false
}

// NoteAt returns the MIDI note under (x, y).
func (l *Layout) NoteAt(x, y float64) (int, bool) {
	i, ok := l.KeyAt(x, y)
	if !ok {
		return 0, false
	}
	return l.Keys[i].Note, true
}

// ButtonAt returns the button under (x, y).
func (l *Layout) ButtonAt(x, y float64) (Button, bool) {
	for _, b := range l.Buttons {
		if b.Rect.Contains(x, y) {
			return b, true
		}
	}
	return Button{}, false
}
