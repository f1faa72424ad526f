package renderer

import "time"

// Animator drives the two scalar vertex attributes of the bowtie. Every tick
// moves Offset through [-1, 1] and Mix through [0, 1], reversing direction
// once a value has left its range. While paused the values hold still but
// the range check keeps running, so a paused value outside its range keeps
// flipping direction every tick.
type Animator struct {
	Offset  float32
	Mix     float32
	Enabled bool

	offsetStep float32
	mixStep    float32
	period     time.Duration
	pending    time.Duration
}

func NewAnimator(step float32, period time.Duration) *Animator {
	return &Animator{
		Enabled:    true,
		offsetStep: step,
		mixStep:    step,
		period:     period,
	}
}

// Toggle pauses or resumes the animation.
func (a *Animator) Toggle() {
	a.Enabled = !a.Enabled
}

// Tick advances the animation by one timer period.
func (a *Animator) Tick() {
	if a.Enabled {
		a.Offset += a.offsetStep
	}
	if a.Offset > 1 || a.Offset < -1 {
		a.offsetStep = -a.offsetStep
	}

	if a.Enabled {
		a.Mix += a.mixStep
	}
	if a.Mix > 1 || a.Mix < 0 {
		a.mixStep = -a.mixStep
	}
}

// Advance runs one Tick per whole timer period contained in the elapsed time
// plus whatever was left over from earlier calls. It returns the number of
// ticks run.
func (a *Animator) Advance(elapsed time.Duration) int {
	if a.period <= 0 {
		return 0
	}
	a.pending += elapsed
	n := 0
	for a.pending >= a.period {
		a.pending -= a.period
		a.Tick()
		n++
	}
	return n
}

// Color is the constant value fed to vertex attribute 1.
func (a *Animator) Color() [3]float32 {
	return [3]float32{a.Mix, 0, 1 - a.Mix}
}
