package sequencer

import "go-pentaseq/debug"

// Driver turns a step of the grid into playback.
type Driver struct {
	tones  ToneSource
	out    Output
	report func(step int)
}

// NewDriver creates a driver. report is told which column just played.
func NewDriver(tones ToneSource, out Output, report func(step int)) *Driver {
	if out == nil {
		out = Discard{}
	}
	return &Driver{tones: tones, out: out, report: report}
}

// Step dispatches every pitch enabled at step, reports step as the active
// column and returns the following step. Dispatches don't wait for the
// output, so overlapping clips and slow devices never hold up the clock.
func (d *Driver) Step(g *Grid, step int) int {
	pitches := g.Column(step)
	for _, p := range pitches {
		buf, ok := d.tones.Buffer(p)
		if !ok {
			debug.Log("driver", "no tone for pitch %d", p)
			continue
		}
		go d.out.Play(p, buf)
	}
	if len(pitches) > 0 {
		debug.LogEvery(16, "driver", "step=%d dispatched=%v", step, pitches)
	}

	if d.report != nil {
		d.report(step)
	}
	return (step + 1) % g.Steps()
}
