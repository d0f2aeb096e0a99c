package main

import (
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/erd-toolkit/pkg/erd"
	"github.com/ha1tch/erd-toolkit/pkg/geom"
	"github.com/ha1tch/erd-toolkit/pkg/render"
	"github.com/ha1tch/erd-toolkit/pkg/route"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleBox        = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleBoxSel     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleTitle      = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleColumn     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleType       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePK         = tcell.StyleDefault.Foreground(tcell.ColorGold)
	styleFK         = tcell.StyleDefault.Foreground(tcell.ColorSteelBlue)
	styleWire       = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleWireHover  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleWireSel    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleBandHover  = tcell.StyleDefault.Background(tcell.ColorDarkGreen).Foreground(tcell.ColorWhite)
	styleBandSel    = tcell.StyleDefault.Background(tcell.ColorDarkRed).Foreground(tcell.ColorWhite)
	styleRubberBand = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Attribute rows are drawn only when they get a cell row each.
const detailZoom = 0.75

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	scene := render.BuildScene(ed.graph(), metrics, render.State{
		Selection: ed.session.Selection(),
		Hover:     ed.hover,
	})
	ed.drawScene(scene, w, h-2)

	if ed.banding && ed.dragMoved {
		ed.drawRubberBand()
	}

	switch ed.mode {
	case ModeInput:
		ed.drawInputBox(w, h)
	case ModeHelp:
		ed.drawHelp(w, h)
	}

	ed.drawStatusBar(w, h)
}

// canvasClip bounds drawing to the canvas area.
type canvasClip struct {
	ed   *Editor
	w, h int
}

func (c canvasClip) set(x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.ed.screen.SetContent(x, y, r, nil, style)
}

func (c canvasClip) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		c.set(x, y, r, style)
		x++
	}
}

func (ed *Editor) drawScene(s *render.Scene, w, h int) {
	clip := canvasClip{ed: ed, w: w, h: h}

	// Connections first so tables draw on top
	for _, wire := range s.Wires {
		ed.drawWire(clip, wire)
	}
	for _, box := range s.Boxes {
		ed.drawBox(clip, box)
	}
}

func wireStyle(t render.Tone) tcell.Style {
	switch t {
	case render.ToneHover:
		return styleWireHover
	case render.ToneSelected:
		return styleWireSel
	}
	return styleWire
}

func (ed *Editor) drawWire(clip canvasClip, wire render.Wire) {
	style := wireStyle(wire.Tone)
	cells := make([][2]int, len(wire.Points))
	for i, p := range wire.Points {
		x, y := ed.worldToCell(p)
		cells[i] = [2]int{x, y}
	}

	for i := 0; i < len(cells)-1; i++ {
		drawCellLine(clip, cells[i], cells[i+1], style)
	}
	for i := 1; i < len(cells)-1; i++ {
		if r, ok := cornerRune(cells[i-1], cells[i], cells[i+1]); ok {
			clip.set(cells[i][0], cells[i][1], r, style)
		}
	}

	if len(cells) > 0 {
		first, last := cells[0], cells[len(cells)-1]
		clip.set(first[0], first[1], glyphRune(wire.Start.Icon, wire.StartSide), style)
		clip.set(last[0], last[1], glyphRune(wire.End.Icon, wire.EndSide), style)
	}
}

// drawCellLine draws a horizontal run then a vertical one.
func drawCellLine(clip canvasClip, a, b [2]int, style tcell.Style) {
	x0, x1 := order(a[0], b[0])
	for x := x0; x <= x1; x++ {
		clip.set(x, a[1], '─', style)
	}
	if a[1] == b[1] {
		return
	}
	y0, y1 := order(a[1], b[1])
	for y := y0; y <= y1; y++ {
		if y != a[1] {
			clip.set(b[0], y, '│', style)
		}
	}
}

func order(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

// cornerRune picks the box-drawing corner joining the segment arriving
// from prev with the one leaving towards next.
func cornerRune(prev, cur, next [2]int) (rune, bool) {
	horizIn := prev[1] == cur[1] && prev[0] != cur[0]
	vertOut := next[0] == cur[0] && next[1] != cur[1]
	vertIn := prev[0] == cur[0] && prev[1] != cur[1]
	horizOut := next[1] == cur[1] && next[0] != cur[0]

	var left, right, up, down bool
	switch {
	case horizIn && vertOut:
		left, right = prev[0] < cur[0], prev[0] > cur[0]
		up, down = next[1] < cur[1], next[1] > cur[1]
	case vertIn && horizOut:
		up, down = prev[1] < cur[1], prev[1] > cur[1]
		left, right = next[0] < cur[0], next[0] > cur[0]
	default:
		return 0, false
	}

	switch {
	case left && down:
		return '┐', true
	case left && up:
		return '┘', true
	case right && down:
		return '┌', true
	case right && up:
		return '└', true
	}
	return 0, false
}

// glyphRune is the single-cell form of an end glyph. A crow's foot opens
// towards the table on the given side.
func glyphRune(icon erd.IconType, side route.Side) rune {
	switch icon {
	case erd.IconZero:
		return 'o'
	case erd.IconManyOne, erd.IconManyZero:
		if side == route.Right {
			return '>'
		}
		return '<'
	}
	return '┼'
}

func (ed *Editor) drawBox(clip canvasClip, b render.Box) {
	x0, y0 := ed.worldToCell(geom.Pt(b.Rect.X, b.Rect.Y))
	x1, y1 := ed.worldToCell(geom.Pt(b.Rect.MaxX(), b.Rect.MaxY()))
	if x1-x0 < 2 {
		x1 = x0 + 2
	}
	if y1-y0 < 1 {
		y1 = y0 + 1
	}

	border := styleBox
	if b.Selected {
		border = styleBoxSel
	}

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			clip.set(x, y, ' ', styleDefault)
		}
	}
	for x := x0 + 1; x < x1; x++ {
		clip.set(x, y0, '─', border)
		clip.set(x, y1, '─', border)
	}
	for y := y0 + 1; y < y1; y++ {
		clip.set(x0, y, '│', border)
		clip.set(x1, y, '│', border)
	}
	clip.set(x0, y0, '┌', border)
	clip.set(x1, y0, '┐', border)
	clip.set(x0, y1, '└', border)
	clip.set(x1, y1, '┘', border)

	clip.text(x0+2, y0, truncate(b.Node.Name, x1-x0-3), styleTitle)

	if ed.view.Zoom < detailZoom {
		return
	}

	if _, hy := ed.worldToCell(geom.Pt(b.Rect.X, b.HeaderY)); hy > y0 && hy < y1 {
		for x := x0 + 1; x < x1; x++ {
			clip.set(x, hy, '─', border)
		}
		clip.set(x0, hy, '├', border)
		clip.set(x1, hy, '┤', border)
	}

	inner := x1 - x0 - 1
	for _, r := range b.Rows {
		_, ry := ed.worldToCell(r.Name.At)
		if ry <= y0 || ry >= y1 {
			continue
		}

		nameStyle, typeStyle := styleColumn, styleType
		switch r.Tone {
		case render.ToneHover:
			nameStyle, typeStyle = styleBandHover, styleBandHover
		case render.ToneSelected:
			nameStyle, typeStyle = styleBandSel, styleBandSel
		}
		if r.Tone != render.ToneNormal {
			for x := x0 + 1; x < x1; x++ {
				clip.set(x, ry, ' ', nameStyle)
			}
		}

		if m := r.Key.Marker(); m != "" {
			ks := stylePK
			if r.Key == render.KeyForeign {
				ks = styleFK
			}
			clip.text(x0+1, ry, m, ks)
		}
		clip.text(x0+4, ry, truncate(r.Name.S, inner-4), nameStyle)
		if t := r.Type.S; t != "" && len(r.Name.S)+len(t)+5 <= inner {
			clip.text(x1-len([]rune(t)), ry, t, typeStyle)
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func (ed *Editor) drawRubberBand() {
	w, h := ed.canvasSize()
	clip := canvasClip{ed: ed, w: w, h: h}
	x0, x1 := order(ed.bandStartX, ed.lastX)
	y0, y1 := order(ed.bandStartY, ed.lastY)
	for x := x0; x <= x1; x++ {
		clip.set(x, y0, '┄', styleRubberBand)
		clip.set(x, y1, '┄', styleRubberBand)
	}
	for y := y0; y <= y1; y++ {
		clip.set(x0, y, '┆', styleRubberBand)
		clip.set(x1, y, '┆', styleRubberBand)
	}
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	fileInfo := "[New]"
	if ed.filename != "" {
		if len(ed.filename) > 30 {
			fileInfo = filepath.Base(ed.filename)
		} else {
			fileInfo = ed.filename
		}
	}
	if ed.modified {
		fileInfo += " *"
	}
	ed.drawString(1, y, fileInfo, styleStatus)

	modeStr := fmt.Sprintf("%s  %d%%", ed.modeString(), int(ed.view.Zoom*100+0.5))
	ed.drawString(w/2-len(modeStr)/2, y, modeStr, styleStatus)

	if ed.message != "" {
		style := styleStatus
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgWarning:
			style = styleMsgWarning
		case MsgSuccess:
			style = styleMsgSuccess
		}
		ed.drawString(w-len([]rune(ed.message))-2, y, ed.message, style)
	}

	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, ed.helpString(), styleHelp)
}

func (ed *Editor) drawInputBox(w, h int) {
	boxW := 60
	if boxW > w-2 {
		boxW = w - 2
	}
	boxX := (w - boxW) / 2
	boxY := (h - 3) / 2

	ed.drawTitledBox(boxX, boxY, boxW, 3, "")
	for x := boxX + 1; x < boxX+boxW-1; x++ {
		ed.screen.SetContent(x, boxY+1, ' ', nil, styleInput)
	}
	ed.drawString(boxX+2, boxY+1, ed.inputPrompt, styleInput)
	ed.drawString(boxX+2+len([]rune(ed.inputPrompt)), boxY+1, ed.inputBuffer+"_", styleInput)
}

var helpLines = []string{
	"Mouse",
	"  click          select table or connection",
	"  drag           move selection",
	"  drag empty     rubber-band select",
	"  right/middle   pan",
	"  wheel          zoom at cursor",
	"",
	"Keys",
	"  n  new table      a  add column     e  rename table",
	"  1  one-to-one     2  one-to-many",
	"  3  many-to-one    4  many-to-many (join table)",
	"  l  auto layout    f  fit view       +/-  zoom",
	"  Del  delete       r  revert         Ctrl+S  save",
	"  q  quit",
}

func (ed *Editor) drawHelp(w, h int) {
	boxW := 56
	boxH := len(helpLines) + 4
	x := (w - boxW) / 2
	y := (h - boxH) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	ed.drawTitledBox(x, y, boxW, boxH, "erdedit")
	for i, line := range helpLines {
		ed.drawString(x+2, y+2+i, line, styleDefault)
	}
}

// drawTitledBox draws a bordered box with optional title
func (ed *Editor) drawTitledBox(x, y, w, h int, title string) {
	ed.screen.SetContent(x, y, '┌', nil, styleBorder)
	for i := 1; i < w-1; i++ {
		ed.screen.SetContent(x+i, y, '─', nil, styleBorder)
	}
	ed.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)

	if title != "" {
		titleX := x + (w-len(title)-2)/2
		ed.screen.SetContent(titleX, y, ' ', nil, styleBorder)
		ed.drawString(titleX+1, y, title, styleTitle)
		ed.screen.SetContent(titleX+1+len(title), y, ' ', nil, styleBorder)
	}

	for row := 1; row < h-1; row++ {
		ed.screen.SetContent(x, y+row, '│', nil, styleBorder)
		for col := 1; col < w-1; col++ {
			ed.screen.SetContent(x+col, y+row, ' ', nil, styleDefault)
		}
		ed.screen.SetContent(x+w-1, y+row, '│', nil, styleBorder)
	}

	ed.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	for i := 1; i < w-1; i++ {
		ed.screen.SetContent(x+i, y+h-1, '─', nil, styleBorder)
	}
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		ed.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (ed *Editor) modeString() string {
	if ed.dragging && ed.dragMoved {
		return "MOVE"
	}
	switch ed.mode {
	case ModeInput:
		return "INPUT"
	case ModeRelate:
		return "RELATE " + ed.relateKind.String()
	case ModeHelp:
		return "HELP"
	}
	switch sel := ed.session.Selection(); sel.Kind {
	case erd.SelectNode:
		if n := ed.session.SelectedNode(); n != nil {
			return "TABLE " + n.Name
		}
	case erd.SelectConnection:
		return "CONNECTION"
	case erd.SelectMulti:
		return fmt.Sprintf("%d SELECTED", len(sel.Multi.Nodes))
	}
	return "CANVAS"
}

func (ed *Editor) helpString() string {
	switch ed.mode {
	case ModeInput:
		return "Enter: confirm  Esc: cancel"
	case ModeRelate:
		return "Click two tables  Esc: cancel"
	case ModeHelp:
		return "Any key: close"
	}
	return "n: table  a: column  1-4: relate  l: layout  Del: delete  ?: help  q: quit"
}
