package frontend

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"netcode/internal/sim"
)

// keymap translates a single typed rune into the button it holds down
// until the next line. There's no raw terminal mode here — input
// arrives one line at a time, which is the CLI-appropriate analogue of
// original_source/keyboard.hpp's per-frame key state.
var keymap = map[rune]sim.Buttons{
	'w': sim.Forward,
	's': sim.Backward,
	'a': sim.StrafeLeft,
	'd': sim.StrafeRight,
	'r': sim.MoveUp,
	'f': sim.MoveDown,
	'q': sim.Quit,
	'1': sim.ToggleDebug,
	'2': sim.TogglePredict,
}

// StdinInput is a line-oriented InputSource: each line of stdin sets
// the buttons held for every frame until the next line arrives. It has
// no mouse, so MouseDelta is always zero.
type StdinInput struct {
	mu       sync.Mutex
	buttons  sim.Buttons
	quit     bool
	released map[sim.Buttons]bool
}

// NewStdinInput starts a background reader over r (os.Stdin in
// production).
func NewStdinInput(r io.Reader) *StdinInput {
	in := &StdinInput{released: make(map[sim.Buttons]bool)}
	go in.readLoop(r)
	return in
}

func (in *StdinInput) readLoop(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))

		in.mu.Lock()
		var next sim.Buttons
		for _, ch := range line {
			if b, ok := keymap[ch]; ok {
				next |= b
			}
		}
		// Toggle buttons fire once per line rather than being held.
		for _, toggle := range []sim.Buttons{sim.ToggleDebug, sim.TogglePredict} {
			if next.Has(toggle) {
				in.released[toggle] = true
				next &^= toggle
			}
		}
		if next.Has(sim.Quit) {
			in.quit = true
		}
		in.buttons = next
		in.mu.Unlock()
	}
}

// PollEvents is a no-op: StdinInput's reader goroutine updates state
// asynchronously as lines arrive.
func (in *StdinInput) PollEvents() {}

// QuitRequested reports whether a "q" line has been seen.
func (in *StdinInput) QuitRequested() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.quit
}

// ButtonReleasedEdge consumes a pending one-shot toggle.
func (in *StdinInput) ButtonReleasedEdge(b sim.Buttons) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.released[b] {
		delete(in.released, b)
		return true
	}
	return false
}

// PressedButtons returns the movement buttons held by the most recent
// line.
func (in *StdinInput) PressedButtons() sim.Buttons {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.buttons
}

// MouseDelta is always zero: StdinInput has no pointing device.
func (in *StdinInput) MouseDelta() (yaw, pitch float32) { return 0, 0 }

// TextPresenter renders a world as a plain-text table, at most once
// per minInterval to keep a fast frame loop from flooding the
// terminal. It queries the terminal width via golang.org/x/term so
// rows truncate cleanly on narrow terminals and fall back to 80
// columns when stdout isn't a terminal (e.g. piped to a file).
type TextPresenter struct {
	out         io.Writer
	minInterval time.Duration
	lastDraw    time.Time
	buf         strings.Builder
}

// NewTextPresenter renders to out, at most once per minInterval.
func NewTextPresenter(out io.Writer, minInterval time.Duration) *TextPresenter {
	return &TextPresenter{out: out, minInterval: minInterval}
}

func (p *TextPresenter) Clear() {
	p.buf.Reset()
}

func (p *TextPresenter) DrawWorld(w *sim.World, localPlayerID uint8, raw bool) {
	label := "world"
	if raw {
		label = "world (raw)"
	}
	width := terminalWidth()

	fmt.Fprintf(&p.buf, "-- %s --\n", label)
	for _, pl := range w.Players() {
		you := ""
		if pl.ID == localPlayerID {
			you = " (you)"
		}
		line := fmt.Sprintf("  #%-3d x=%7.2f y=%7.2f z=%7.2f yaw=%6.2f%s", pl.ID, pl.X, pl.Y, pl.Z, pl.Yaw, you)
		if len(line) > width {
			line = line[:width]
		}
		p.buf.WriteString(line)
		p.buf.WriteByte('\n')
	}
}

func (p *TextPresenter) Present() {
	if time.Since(p.lastDraw) < p.minInterval {
		return
	}
	io.WriteString(p.out, p.buf.String())
	p.lastDraw = time.Now()
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 80
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
