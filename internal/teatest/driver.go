// Package teatest drives bubbletea models in tests without a tea.Program.
//
// Messages go straight to Update and the returned Cmds are run and fed back
// until none are left. Cmds that do not return within the driver's timeout
// are dropped; so are animation messages (spinner ticks, cursor blinks),
// which would otherwise schedule themselves forever.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many Cmd generations one Send may produce.
const MaxDrainDepth = 100

// DefaultCmdTimeout suits Cmds that only build a message. Timer Cmds
// (blinks, spinner ticks) take far longer and are skipped.
const DefaultCmdTimeout = 10 * time.Millisecond

// Driver holds a model and feeds it messages.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg comes out of a Cmd. Later sends
	// are ignored, as they would be by a stopped program.
	Quitting bool

	cmdTimeout time.Duration
}

// Option configures a Driver.
type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// WithCmdTimeout sets how long a Cmd may run. Raise it for models whose
// Cmds do I/O, but keep it under the spinner interval or every tick is
// waited out before being dropped.
func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) { d.cmdTimeout = timeout }
}

// New wraps model. Call DrainInit to run its Init Cmd.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, cmdTimeout: DefaultCmdTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DrainInit runs the model's Init Cmd and everything it leads to.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init())
}

// Send delivers msg and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.drain(cmd)
}

// namedKeys maps the names tea.KeyMsg.String reports to key types.
var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"backspace": tea.KeyBackspace,
	"ctrl+c":    tea.KeyCtrlC,
	"space":     tea.KeySpace,
}

// Key builds the KeyMsg for a key name such as "enter", "shift+tab" or
// "ctrl+c". Anything else is sent as the runes it contains.
func Key(name string) tea.KeyMsg {
	if t, ok := namedKeys[name]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

// Press sends each named key in turn. See Key for the names.
func (d *Driver) Press(keys ...string) {
	d.T.Helper()
	for _, k := range keys {
		d.Send(Key(k))
	}
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Resize delivers a WindowSizeMsg.
func (d *Driver) Resize(w, h int) {
	d.T.Helper()
	d.Send(tea.WindowSizeMsg{Width: w, Height: h})
}

// View renders the model.
func (d *Driver) View() string {
	return d.Model.View()
}

type pendingCmd struct {
	cmd   tea.Cmd
	depth int
}

// drain runs cmd and its descendants depth first, batch members in order.
func (d *Driver) drain(cmd tea.Cmd) {
	d.T.Helper()
	stack := []pendingCmd{{cmd: cmd}}
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if next.cmd == nil || d.Quitting {
			continue
		}
		if next.depth >= MaxDrainDepth {
			d.T.Logf("teatest: drain depth limit (%d) reached", MaxDrainDepth)
			continue
		}

		msg := runCmd(next.cmd, d.cmdTimeout)
		switch msg := msg.(type) {
		case nil:
		case tea.BatchMsg:
			for i := len(msg) - 1; i >= 0; i-- {
				stack = append(stack, pendingCmd{cmd: msg[i], depth: next.depth + 1})
			}
		case tea.QuitMsg:
			d.Quitting = true
			d.Model, _ = d.Model.Update(msg)
		default:
			if isAnimation(msg) {
				continue
			}
			var follow tea.Cmd
			d.Model, follow = d.Model.Update(msg)
			stack = append(stack, pendingCmd{cmd: follow, depth: next.depth + 1})
		}
	}
}

// runCmd runs cmd, giving up after timeout.
func runCmd(cmd tea.Cmd, timeout time.Duration) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		return nil
	}
}

// isAnimation reports spinner ticks and cursor blinks; bubbles keeps the
// blink message types unexported, so those are matched by name.
func isAnimation(msg tea.Msg) bool {
	if _, ok := msg.(spinner.TickMsg); ok {
		return true
	}
	name := fmt.Sprintf("%T", msg)
	return strings.Contains(name, "Blink") || strings.Contains(name, "blink")
}
