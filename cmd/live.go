package cmd

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/achilleasa/polaris-bench/benchmark"
	"github.com/achilleasa/polaris-bench/display"
	"golang.org/x/term"
)

const clearScreen = "\033[H\033[2J"

// A liveView redraws the metric cards for every snapshot when attached to a
// terminal. Otherwise each snapshot is logged as a single line.
type liveView struct {
	mu          sync.Mutex
	out         io.Writer
	interactive bool
}

func newLiveView(out *os.File) *liveView {
	return &liveView{
		out:         out,
		interactive: term.IsTerminal(int(out.Fd())),
	}
}

func (v *liveView) Update(snap benchmark.Snapshot) {
	if !v.interactive {
		logger.Infof(
			"#%d frame %s ms, render %s ms, camera %s ms",
			snap.Seq,
			display.Millis(snap.FrameTime.Average),
			display.Millis(snap.RenderTime.Average),
			display.Millis(snap.CameraRenderTime.Average),
		)
		return
	}

	var buf bytes.Buffer
	buf.WriteString(clearScreen)
	if err := display.Write(&buf, benchmark.MetricCards(&snap)...); err != nil {
		logger.Warningf("could not render metrics: %v", err)
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.out.Write(buf.Bytes())
}
