// Package clock manages simulation time as seconds since midnight,
// advanced in fixed-size steps by the supervisor.
package clock

import (
	"fmt"

	"github.com/assuntaDC/mnms-go/utils/config"
)

// Day is the length of a simulated day in seconds. It doubles as the
// "not served today" horizon for mobility service quotes.
const Day float64 = 86400

// Clock drives the simulation over fixed steps of DT seconds.
// The simulated interval is [START_STEP, END_STEP) in steps.
type Clock struct {
	DT         float64 // duration of one step (seconds)
	START_STEP int32   // first step
	END_STEP   int32   // last step (exclusive)

	T    float64 // current time (seconds since midnight)
	Step int32   // current step
}

// New builds a clock from the control step configuration.
func New(stepConfig config.ControlStep) *Clock {
	c := &Clock{
		DT:         stepConfig.Interval,
		START_STEP: stepConfig.Start,
		END_STEP:   stepConfig.Start + stepConfig.Total,
	}
	c.Init()
	return c
}

// Init resets the clock to the start of the simulated interval.
func (c *Clock) Init() {
	c.Step = c.START_STEP
	c.T = float64(c.Step) * c.DT
}

// Tick advances the clock by one step.
func (c *Clock) Tick() {
	c.Step++
	c.T = float64(c.Step) * c.DT
}

// Done reports whether the simulated interval is over.
func (c *Clock) Done() bool {
	return c.Step >= c.END_STEP
}

func (c *Clock) String() string {
	return fmt.Sprintf("Clock{Step:%d T:%s}", c.Step, Format(c.T))
}

// Parse converts an HH:MM:SS (or HH:MM) timetable entry into seconds
// since midnight.
func Parse(s string) (float64, error) {
	var h, m int
	var sec float64
	if _, err := fmt.Sscanf(s, "%d:%d:%f", &h, &m, &sec); err != nil {
		sec = 0
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("invalid time %q: %w", s, err)
		}
	}
	if h < 0 || m < 0 || m > 59 || sec < 0 || sec >= 60 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return float64(h)*3600 + float64(m)*60 + sec, nil
}

// MustParse is Parse for trusted literals, panicking on error.
func MustParse(s string) float64 {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Format renders seconds since midnight as HH:MM:SS.
func Format(t float64) string {
	sec := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, sec/60%60, sec%60)
}
