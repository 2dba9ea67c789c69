package mirror

import (
	"testing"

	"github.com/gridcast/gridcast/internal/segment"
)

func pairMirror() *Mirror {
	m := &Mirror{defaultFg: colorWhite, defaultBg: colorBlack}
	m.initColorPairs()
	return m
}

func TestPairZeroReflectsDefaultColors(t *testing.T) {
	m := pairMirror()
	if got := m.pairs[0]; got != (colorPair{fg: colorWhite, bg: colorBlack}) {
		t.Fatalf("pair 0 = %+v, want white on black", got)
	}
	natural := int(colorWhite)*colorCount + int(colorBlack)
	if got := m.pairs[natural]; got != (colorPair{fg: colorBlack, bg: colorBlack}) {
		t.Fatalf("natural slot = %+v, want the displaced pair 0 combination", got)
	}
	// Every other slot keeps its identity mapping.
	slot := int(colorRed)*colorCount + int(colorGreen)
	if got := m.pairs[slot]; got != (colorPair{fg: colorRed, bg: colorGreen}) {
		t.Fatalf("slot %d = %+v, want red on green", slot, got)
	}
}

func TestAttributeMapping(t *testing.T) {
	m := pairMirror()
	pairRedOnGreen := int(colorRed)*colorCount + int(colorGreen)

	plain := m.convertCell(Cell{Rune: 'x', Pair: pairRedOnGreen})
	if plain.Foreground != (segment.RGB{Red: levelNormal}) {
		t.Fatalf("plain foreground = %+v", plain.Foreground)
	}
	if plain.Background != (segment.RGB{Green: levelNormal}) {
		t.Fatalf("plain background = %+v", plain.Background)
	}

	bold := m.convertCell(Cell{Rune: 'x', Pair: pairRedOnGreen, Attr: AttrBold})
	if bold.Foreground != (segment.RGB{Red: levelFull}) {
		t.Fatalf("bold foreground = %+v, want full red", bold.Foreground)
	}
	if bold.Background != plain.Background {
		t.Fatalf("bold changed the background: %+v", bold.Background)
	}

	standout := m.convertCell(Cell{Rune: 'x', Pair: pairRedOnGreen, Attr: AttrStandout})
	if standout.Foreground != bold.Foreground {
		t.Fatalf("standout foreground = %+v, want same as bold", standout.Foreground)
	}

	dim := m.convertCell(Cell{Rune: 'x', Pair: pairRedOnGreen, Attr: AttrDim})
	if dim.Foreground != (segment.RGB{Red: levelNormal / 2}) {
		t.Fatalf("dim foreground = %+v", dim.Foreground)
	}
	if dim.Background != (segment.RGB{Green: levelNormal / 2}) {
		t.Fatalf("dim background = %+v", dim.Background)
	}

	reverse := m.convertCell(Cell{Rune: 'x', Pair: pairRedOnGreen, Attr: AttrReverse})
	if reverse.Foreground != (segment.RGB{Green: levelNormal}) {
		t.Fatalf("reverse foreground = %+v, want green", reverse.Foreground)
	}
	if reverse.Background != (segment.RGB{Red: levelNormal}) {
		t.Fatalf("reverse background = %+v, want red", reverse.Background)
	}

	// Reverse swaps logical colors before bold raises intensity, so the
	// displayed foreground (the old background) is the brightened one.
	reverseBold := m.convertCell(Cell{Rune: 'x', Pair: pairRedOnGreen, Attr: AttrReverse | AttrBold})
	if reverseBold.Foreground != (segment.RGB{Green: levelFull}) {
		t.Fatalf("reverse+bold foreground = %+v, want full green", reverseBold.Foreground)
	}

	flagged := m.convertCell(Cell{Rune: 'x', Attr: AttrBlink | AttrUnderline})
	if !flagged.Blink || !flagged.Underline {
		t.Fatalf("blink/underline flags not mapped: %+v", flagged)
	}
}
