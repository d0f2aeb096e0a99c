// Command erdedit is a TUI editor for entity-relationship diagrams.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	_ "github.com/joho/godotenv/autoload"

	"github.com/ha1tch/erd-toolkit/internal/config"
	"github.com/ha1tch/erd-toolkit/internal/logging"
	"github.com/ha1tch/erd-toolkit/pkg/canvas"
	"github.com/ha1tch/erd-toolkit/pkg/erd"
	"github.com/ha1tch/erd-toolkit/pkg/erdfile"
	"github.com/ha1tch/erd-toolkit/pkg/geom"
	"github.com/ha1tch/erd-toolkit/pkg/layout"
	"github.com/ha1tch/erd-toolkit/pkg/render"
)

// EnvDebugLog names a file that receives debug logs while the editor runs.
const EnvDebugLog = "ERD_DEBUG_LOG"

// One terminal cell covers cellW x cellH screen units, and text is
// measured on the same grid so rows line up with cells at zoom 1.
const (
	cellW = 8.0
	cellH = 16.0
)

var metrics = render.MonoMetrics{Char: cellW, Row: int(cellH)}

// Mode represents editor mode
type Mode int

const (
	ModeCanvas Mode = iota
	ModeInput
	ModeRelate // picking the two tables of a relation
	ModeHelp
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo MessageType = iota
	MsgError
	MsgSuccess
	MsgWarning
)

// autosaveTick is posted when the autosave delay elapses. Ticks from an
// older generation are stale and ignored.
type autosaveTick struct {
	gen int
}

// Editor holds all editor state
type Editor struct {
	screen   tcell.Screen
	session  *erd.Session
	tester   *canvas.Tester
	view     *canvas.Viewport
	filename string
	modified bool
	mode     Mode
	config   *config.Config

	message     string
	messageType MessageType

	// Mouse state
	leftDown   bool
	dragMoved  bool
	dragging   bool // moving the selection
	banding    bool // rubber-band selection
	panning    bool
	lastX      int
	lastY      int
	bandStartX int
	bandStartY int
	hover      *erd.Connection

	// Relation picking
	relateKind erd.RelationKind
	relateFrom *erd.Node

	// Text input
	inputPrompt string
	inputBuffer string
	inputApply  func(string) error

	// Persistence
	saved       *erd.Snapshot
	autosaveGen int
	timer       *time.Timer
}

func main() {
	logOut := io.Discard
	verbose := false
	if path := os.Getenv(EnvDebugLog); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			defer f.Close()
			logOut, verbose = f, true
		}
	}
	logging.Setup(logOut, verbose)

	cfg, err := config.Load()
	if err != nil {
		logging.WithFile(config.Path()).Warnf("ignoring config: %v", err)
	}

	g := erd.New()
	var filename string
	var loadErr error
	if len(os.Args) > 1 {
		filename = os.Args[1]
		g, loadErr = loadGraph(filename)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.Clear()

	ed := newEditor(screen, g, filename, cfg)
	switch {
	case loadErr != nil && errors.Is(loadErr, os.ErrNotExist):
		ed.showMessage("New file", MsgInfo)
	case loadErr != nil:
		ed.showMessage("Could not read file, starting empty", MsgWarning)
	}
	ed.fitView()

	ed.run()
	ed.flush()

	screen.Fini()

	if filename != "" {
		if abs, err := filepath.Abs(filename); err == nil {
			cfg.Editor.LastDir = filepath.Dir(abs)
			if err := config.Save(cfg); err != nil {
				logging.Log.Warnf("saving config: %v", err)
			}
		}
	}
}

// loadGraph reads a diagram, falling back to an empty graph.
func loadGraph(path string) (*erd.Graph, error) {
	g, report, err := erdfile.LoadOrEmpty(path)
	if err != nil {
		logging.WithFile(path).Warnf("starting empty: %v", err)
	}
	if report.DroppedConnections > 0 {
		logging.WithFile(path).Warnf("dropped %d dangling connection(s)", report.DroppedConnections)
	}
	return g, err
}

func newEditor(screen tcell.Screen, g *erd.Graph, filename string, cfg *config.Config) *Editor {
	if cfg == nil {
		cfg = config.Default()
	}
	ed := &Editor{
		screen:   screen,
		session:  erd.NewSession(g),
		tester:   canvas.NewTester(g, metrics.RowHeight()),
		view:     canvas.NewViewport(),
		filename: filename,
		config:   cfg,
		saved:    g.Snapshot(),
	}
	render.Measure(g, metrics)
	g.OnChange(ed.markDirty)
	ed.session.OnSelect(func(sel erd.Selection) {
		logging.Log.Debugf("selection kind=%d", sel.Kind)
	})
	return ed
}

func (ed *Editor) graph() *erd.Graph {
	return ed.session.Graph
}

func (ed *Editor) run() {
	for {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		case *tcell.EventInterrupt:
			ed.handleInterrupt(ev.Data())
		}
	}
}

// Change tracking and autosave

// markDirty records a graph change and restarts the autosave delay.
func (ed *Editor) markDirty() {
	ed.modified = true
	ed.autosaveGen++
	if !ed.config.Editor.Autosave || ed.filename == "" || ed.screen == nil {
		return
	}
	if ed.timer != nil {
		ed.timer.Stop()
	}
	gen := ed.autosaveGen
	screen := ed.screen
	ed.timer = time.AfterFunc(ed.config.AutosaveDelay(), func() {
		screen.PostEvent(tcell.NewEventInterrupt(autosaveTick{gen: gen}))
	})
}

// markClean records that the graph matches the file and cancels any
// pending autosave.
func (ed *Editor) markClean() {
	ed.modified = false
	ed.autosaveGen++
	if ed.timer != nil {
		ed.timer.Stop()
		ed.timer = nil
	}
}

// flush writes pending changes on exit when autosave is on.
func (ed *Editor) flush() {
	if !ed.modified || ed.filename == "" || !ed.config.Editor.Autosave {
		return
	}
	if err := ed.saveFile(ed.filename); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving %s: %v\n", ed.filename, err)
	}
}

func (ed *Editor) handleInterrupt(data interface{}) {
	tick, ok := data.(autosaveTick)
	if !ok || tick.gen != ed.autosaveGen || !ed.modified {
		return
	}
	if err := ed.saveFile(ed.filename); err != nil {
		ed.showMessage("Autosave failed: "+err.Error(), MsgError)
		return
	}
	ed.showMessage("Autosaved", MsgInfo)
}

// Keyboard

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlS {
		ed.save()
		return false
	}
	if ev.Key() == tcell.KeyCtrlQ || ev.Key() == tcell.KeyCtrlC {
		return true
	}

	switch ed.mode {
	case ModeInput:
		return ed.handleInputKey(ev)
	case ModeHelp:
		ed.mode = ModeCanvas
		return false
	case ModeRelate:
		if ev.Key() == tcell.KeyEscape {
			ed.cancelRelate()
			return false
		}
	}
	return ed.handleCanvasKey(ev)
}

func (ed *Editor) handleCanvasKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		ed.deleteSelected()
		return false
	case tcell.KeyEscape:
		ed.session.ClearSelection()
		return false
	case tcell.KeyUp:
		ed.view.PanBy(0, cellH*2)
		return false
	case tcell.KeyDown:
		ed.view.PanBy(0, -cellH*2)
		return false
	case tcell.KeyLeft:
		ed.view.PanBy(cellW*4, 0)
		return false
	case tcell.KeyRight:
		ed.view.PanBy(-cellW*4, 0)
		return false
	case tcell.KeyF2:
		ed.startRename()
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case 'l':
		ed.autoLayout()
	case 'f':
		ed.fitView()
	case 'r':
		ed.revert()
	case 'n':
		ed.startNewTable()
	case 'a':
		ed.startAddColumn()
	case 'e':
		ed.startRename()
	case '1':
		ed.startRelate(erd.RelateOneToOne)
	case '2':
		ed.startRelate(erd.RelateOneToMany)
	case '3':
		ed.startRelate(erd.RelateManyToOne)
	case '4':
		ed.startRelate(erd.RelateManyToMany)
	case '+', '=':
		ed.zoomCenter(canvas.WheelZoom)
	case '-':
		ed.zoomCenter(1 / canvas.WheelZoom)
	case '?':
		ed.mode = ModeHelp
	}
	return false
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeCanvas
		ed.inputApply = nil
	case tcell.KeyEnter:
		apply := ed.inputApply
		text := ed.inputBuffer
		ed.mode = ModeCanvas
		ed.inputApply = nil
		if apply != nil {
			if err := apply(text); err != nil {
				ed.showMessage(err.Error(), MsgError)
			}
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(ed.inputBuffer); len(r) > 0 {
			ed.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	}
	return false
}

func (ed *Editor) prompt(label, initial string, apply func(string) error) {
	ed.mode = ModeInput
	ed.inputPrompt = label
	ed.inputBuffer = initial
	ed.inputApply = apply
}

// Mouse

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		ed.view.Wheel(cellCenter(x, y), -1)
		return
	case buttons&tcell.WheelDown != 0:
		ed.view.Wheel(cellCenter(x, y), 1)
		return
	}

	// Middle or right drag pans
	if buttons&(tcell.Button2|tcell.Button3) != 0 {
		if ed.panning {
			ed.view.PanBy(float64(x-ed.lastX)*cellW, float64(y-ed.lastY)*cellH)
		}
		ed.panning = true
		ed.lastX, ed.lastY = x, y
		return
	}
	ed.panning = false

	if buttons&tcell.Button1 != 0 {
		if !ed.leftDown {
			ed.leftDown = true
			ed.dragMoved = false
			ed.lastX, ed.lastY = x, y
			ed.pressAt(x, y)
			return
		}
		if x == ed.lastX && y == ed.lastY {
			return
		}
		ed.dragMoved = true
		if ed.dragging {
			dx, dy := ed.view.ScreenDelta(float64(x-ed.lastX)*cellW, float64(y-ed.lastY)*cellH)
			ed.session.MoveSelection(dx, dy)
		}
		ed.lastX, ed.lastY = x, y
		return
	}

	// Release
	if ed.leftDown {
		ed.leftDown = false
		if ed.banding {
			ed.banding = false
			if ed.dragMoved {
				a := ed.cellToWorld(ed.bandStartX, ed.bandStartY)
				b := ed.cellToWorld(x, y)
				ed.session.Select(ed.tester.SelectIn(a, b))
			} else {
				ed.session.ClearSelection()
			}
		}
		ed.dragging = false
		return
	}

	// Motion with no buttons: hover
	ed.hover = ed.tester.HitConnection(ed.cellToWorld(x, y))
}

func (ed *Editor) pressAt(x, y int) {
	p := ed.cellToWorld(x, y)

	if ed.mode == ModeRelate {
		if n := ed.tester.HitNode(p); n != nil {
			ed.pickRelate(n)
		}
		return
	}

	hit := ed.tester.Hit(p)
	if hit.IsNone() {
		ed.banding = true
		ed.bandStartX, ed.bandStartY = x, y
		return
	}
	// Clicking inside the current multi-selection keeps it for dragging
	if cur := ed.session.Selection(); cur.Kind == erd.SelectMulti && cur.IsSelected(hit) {
		ed.dragging = true
		return
	}
	ed.session.Select(hit)
	ed.dragging = true
}

// Coordinates

func cellCenter(x, y int) geom.Point {
	return geom.Pt(float64(x)*cellW+cellW/2, float64(y)*cellH+cellH/2)
}

func (ed *Editor) cellToWorld(x, y int) geom.Point {
	return ed.view.ScreenToWorld(cellCenter(x, y))
}

func (ed *Editor) worldToCell(p geom.Point) (int, int) {
	s := ed.view.WorldToScreen(p)
	return floorDiv(s.X, cellW), floorDiv(s.Y, cellH)
}

func floorDiv(v, d float64) int {
	q := v / d
	i := int(q)
	if q < 0 && float64(i) != q {
		i--
	}
	return i
}

func (ed *Editor) canvasSize() (int, int) {
	w, h := ed.screen.Size()
	return w, h - 2
}

func (ed *Editor) zoomCenter(factor float64) {
	w, h := ed.canvasSize()
	ed.view.ZoomAt(cellCenter(w/2, h/2), factor)
}

func (ed *Editor) fitView() {
	g := ed.graph()
	if g.Len() == 0 {
		return
	}
	render.Measure(g, metrics)
	w, h := ed.canvasSize()
	ed.view.Fit(g.Bounds(), float64(w)*cellW, float64(h)*cellH)
}

// Editing

func (ed *Editor) deleteSelected() {
	if ed.session.Selection().IsNone() {
		return
	}
	ed.session.DeleteSelection()
	ed.hover = nil
	ed.showMessage("Deleted", MsgSuccess)
}

func (ed *Editor) autoLayout() {
	g := ed.graph()
	if g.Len() == 0 {
		return
	}
	render.Measure(g, metrics)
	layout.ForceDirected(g)
	ed.fitView()
	ed.showMessage("Layout applied", MsgSuccess)
}

func (ed *Editor) revert() {
	if !ed.modified {
		return
	}
	ed.saved.LoadInto(ed.graph())
	ed.session.ClearSelection()
	ed.hover = nil
	ed.markClean()
	ed.showMessage("Reverted to last save", MsgWarning)
}

func (ed *Editor) startNewTable() {
	w, h := ed.canvasSize()
	pos := ed.cellToWorld(w/2, h/2)
	ed.prompt("New table: ", "", func(name string) error {
		name = strings.TrimSpace(name)
		g := ed.graph()
		if err := erd.ValidateTableName(g, name, nil); err != nil {
			return err
		}
		n := g.AddNode(erd.NewNode(name, pos,
			erd.Attribute{Name: "id", Type: "int", PrimaryKey: true, AutoIncrement: true}))
		render.MeasureNode(n, metrics)
		ed.session.Select(erd.NodeSelection(n.ID))
		g.Changed()
		ed.showMessage("Created "+name, MsgSuccess)
		return nil
	})
}

// startAddColumn prompts for "name type" and appends the column to the
// selected table. A trailing "?" marks it nullable. Existing column
// names are refused.
func (ed *Editor) startAddColumn() {
	n := ed.session.SelectedNode()
	if n == nil {
		ed.showMessage("Select a table first", MsgWarning)
		return
	}
	ed.prompt("Column (name type): ", "", func(text string) error {
		a, err := parseColumn(text)
		if err != nil {
			return err
		}
		if n.AttrIndex(a.Name) >= 0 {
			return fmt.Errorf("column %q already exists in %s", a.Name, n.Name)
		}
		n.AddAttribute(a)
		render.MeasureNode(n, metrics)
		ed.graph().Changed()
		return nil
	})
}

func parseColumn(text string) (erd.Attribute, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return erd.Attribute{}, errors.New("column name required")
	}
	a := erd.Attribute{Name: fields[0]}
	if len(fields) > 1 {
		a.Type = strings.Join(fields[1:], " ")
	}
	if strings.HasSuffix(a.Type, "?") {
		a.Type = strings.TrimSuffix(a.Type, "?")
		a.Nullable = true
	}
	return a, nil
}

func (ed *Editor) startRename() {
	n := ed.session.SelectedNode()
	if n == nil {
		ed.showMessage("Select a table first", MsgWarning)
		return
	}
	ed.prompt("Rename table: ", n.Name, func(name string) error {
		if err := ed.graph().Rename(n, name); err != nil {
			return err
		}
		render.MeasureNode(n, metrics)
		return nil
	})
}

func (ed *Editor) startRelate(kind erd.RelationKind) {
	ed.mode = ModeRelate
	ed.relateKind = kind
	ed.relateFrom = nil
	ed.showMessage(fmt.Sprintf("%s: click the first table", kind), MsgInfo)
}

func (ed *Editor) pickRelate(n *erd.Node) {
	if ed.relateFrom == nil {
		ed.relateFrom = n
		ed.session.Select(erd.NodeSelection(n.ID))
		ed.showMessage(fmt.Sprintf("%s: click the second table", ed.relateKind), MsgInfo)
		return
	}

	from := ed.relateFrom
	ed.mode = ModeCanvas
	ed.relateFrom = nil
	join, err := ed.graph().Relate(from, n, ed.relateKind)
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	render.Measure(ed.graph(), metrics)
	if join != nil {
		ed.session.Select(erd.NodeSelection(join.ID))
		ed.showMessage("Created "+join.Name, MsgSuccess)
		return
	}
	ed.showMessage(fmt.Sprintf("Related %s %s %s", from.Name, ed.relateKind, n.Name), MsgSuccess)
}

func (ed *Editor) cancelRelate() {
	ed.mode = ModeCanvas
	ed.relateFrom = nil
	ed.showMessage("Cancelled", MsgInfo)
}

// File operations

func (ed *Editor) save() {
	if ed.filename == "" {
		dir := ed.config.Editor.LastDir
		ed.prompt("Save as: ", filepath.Join(dir, "diagram.erd.json"), func(path string) error {
			path = strings.TrimSpace(path)
			if path == "" {
				return errors.New("file name required")
			}
			ed.filename = path
			return ed.saveAndReport()
		})
		return
	}
	if err := ed.saveAndReport(); err != nil {
		ed.showMessage(err.Error(), MsgError)
	}
}

func (ed *Editor) saveAndReport() error {
	if err := ed.saveFile(ed.filename); err != nil {
		return err
	}
	ed.showMessage("Saved "+filepath.Base(ed.filename), MsgSuccess)
	return nil
}

func (ed *Editor) saveFile(path string) error {
	if err := erdfile.WriteFile(path, ed.graph()); err != nil {
		logging.WithFile(path).Errorf("save: %v", err)
		return err
	}
	ed.saved = ed.graph().Snapshot()
	ed.markClean()
	logging.WithFile(path).Debug("saved")
	return nil
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
}
