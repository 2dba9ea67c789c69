package mirror

import "github.com/gridcast/gridcast/internal/segment"

// The mirror exposes six logical colors mixed from the RGB primaries. A cell
// color is a channel mask scaled by an intensity level; bold raises the
// foreground to full intensity, dim halves whatever would have been shown.
type colorIndex uint8

const (
	colorBlack colorIndex = iota
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorWhite

	colorCount = 6
	pairCount  = colorCount * colorCount
)

var colorMasks = [colorCount][3]uint8{
	colorBlack:  {0, 0, 0},
	colorRed:    {1, 0, 0},
	colorGreen:  {0, 1, 0},
	colorYellow: {1, 1, 0},
	colorBlue:   {0, 0, 1},
	colorWhite:  {1, 1, 1},
}

const (
	levelNormal = 0xaa
	levelFull   = 0xff
)

func colorRGB(idx colorIndex, level uint8) segment.RGB {
	mask := colorMasks[idx]
	return segment.RGB{
		Red:   mask[0] * level,
		Green: mask[1] * level,
		Blue:  mask[2] * level,
	}
}

func halveRGB(c segment.RGB) segment.RGB {
	return segment.RGB{Red: c.Red / 2, Green: c.Green / 2, Blue: c.Blue / 2}
}

type colorPair struct {
	fg, bg colorIndex
}

// initColorPairs builds the fixed pair table. The rendering layer's pair 0
// is an opaque "default" sentinel; the table maps it onto the actual default
// combination and gives that combination's natural slot the identity pair 0
// would otherwise hold, so slot 0 always reflects real default colors.
func (m *Mirror) initColorPairs() {
	for fg := colorIndex(0); fg < colorCount; fg++ {
		for bg := colorIndex(0); bg < colorCount; bg++ {
			m.pairs[int(fg)*colorCount+int(bg)] = colorPair{fg: fg, bg: bg}
		}
	}
	natural := int(m.defaultFg)*colorCount + int(m.defaultBg)
	m.pairs[natural] = m.pairs[0]
	m.pairs[0] = colorPair{fg: m.defaultFg, bg: m.defaultBg}
}

// convertCell maps a rendered cell to its canonical segment representation:
// reverse swaps the logical colors first, then intensity adjustments apply.
func (m *Mirror) convertCell(c Cell) segment.Character {
	pair := m.pairs[((c.Pair%pairCount)+pairCount)%pairCount]
	fg, bg := pair.fg, pair.bg
	if c.Attr&AttrReverse != 0 {
		fg, bg = bg, fg
	}
	fgLevel := uint8(levelNormal)
	if c.Attr&(AttrBold|AttrStandout) != 0 {
		fgLevel = levelFull
	}
	fgRGB := colorRGB(fg, fgLevel)
	bgRGB := colorRGB(bg, levelNormal)
	if c.Attr&AttrDim != 0 {
		fgRGB = halveRGB(fgRGB)
		bgRGB = halveRGB(bgRGB)
	}
	return segment.Character{
		Codepoint:  c.Rune,
		Foreground: fgRGB,
		Background: bgRGB,
		Alpha:      0xff,
		Blink:      c.Attr&AttrBlink != 0,
		Underline:  c.Attr&AttrUnderline != 0,
	}
}
