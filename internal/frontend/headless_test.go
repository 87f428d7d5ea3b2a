package frontend

import (
	"io"
	"strings"
	"testing"
	"time"

	"netcode/internal/sim"
)

func TestStdinInputTranslatesLineToButtons(t *testing.T) {
	// Lines are fed one at a time: each line replaces the held buttons,
	// so "q" must not arrive before "wd" has been observed.
	pr, pw := io.Pipe()
	defer pw.Close()
	in := NewStdinInput(pr)
	go pw.Write([]byte("wd\n"))

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if in.PressedButtons().Has(sim.Forward | sim.StrafeRight) {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !in.PressedButtons().Has(sim.Forward | sim.StrafeRight) {
		t.Fatalf("buttons = %v, want Forward|StrafeRight", in.PressedButtons())
	}

	go pw.Write([]byte("q\n"))
	deadline = time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if in.QuitRequested() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("quit was never observed after a \"q\" line")
}

func TestStdinInputOneShotToggle(t *testing.T) {
	r := strings.NewReader("1\n")
	in := NewStdinInput(r)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if in.ButtonReleasedEdge(sim.ToggleDebug) {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("ToggleDebug edge was never observed")
}

func TestTextPresenterRespectsMinInterval(t *testing.T) {
	var buf strings.Builder
	p := NewTextPresenter(&buf, time.Hour)

	w := sim.New(5, 5, 2, 3, 255)
	w.AddPlayer(sim.Player{Color: 1})

	p.Clear()
	p.DrawWorld(w, 0, false)
	p.Present()
	first := buf.String()
	if first == "" {
		t.Fatal("expected first Present to write output")
	}

	p.Clear()
	p.DrawWorld(w, 0, false)
	p.Present()
	if buf.String() != first {
		t.Fatal("second Present within minInterval should not have written again")
	}
}
