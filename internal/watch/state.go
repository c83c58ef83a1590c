package watch

import "fmt"

// State is the lifecycle state of one watch scope
type State string

const (
	StateIdle       State = "idle"
	StateDebouncing State = "debouncing"
	StateRunning    State = "running"
)

// Event drives the scope state machine
type Event string

const (
	EventChange          Event = "change"
	EventDebounceElapsed Event = "debounce_elapsed"
	EventRunFinished     Event = "run_finished"
)

// Action tells the scheduler loop what to do after a transition
type Action string

const (
	ActionNone        Action = "none"
	ActionResetTimer  Action = "reset_timer"
	ActionStartRun    Action = "start_run"
	ActionMarkPending Action = "mark_pending"
)

type transition struct {
	// guard selects between transitions sharing a (state, event) pair; nil always matches
	guard  func(m *Machine) bool
	to     State
	action Action
}

func hasPending(m *Machine) bool { return m.pending }
func noPending(m *Machine) bool  { return !m.pending }

// transitions is the complete table. Pairs missing here are rejected.
var transitions = map[State]map[Event][]transition{
	StateIdle: {
		EventChange: {{to: StateDebouncing, action: ActionResetTimer}},
	},
	StateDebouncing: {
		EventChange:          {{to: StateDebouncing, action: ActionResetTimer}},
		EventDebounceElapsed: {{to: StateRunning, action: ActionStartRun}},
	},
	StateRunning: {
		EventChange: {{to: StateRunning, action: ActionMarkPending}},
		EventRunFinished: {
			{guard: hasPending, to: StateRunning, action: ActionStartRun},
			{guard: noPending, to: StateIdle, action: ActionNone},
		},
	},
}

// Machine holds the state of one scope. Changes arriving during a run
// collapse into a single pending flag, so at most one follow-up run is queued.
// It is not safe for concurrent use; the scope loop owns it.
type Machine struct {
	state   State
	pending bool
}

// NewMachine returns a machine in the idle state
func NewMachine() *Machine {
	return &Machine{state: StateIdle}
}

// State returns the current state
func (m *Machine) State() State {
	return m.state
}

// Pending reports whether a follow-up run is queued
func (m *Machine) Pending() bool {
	return m.pending
}

// Fire applies event and returns the action the caller must perform
func (m *Machine) Fire(event Event) (Action, error) {
	candidates, ok := transitions[m.state][event]
	if !ok {
		return ActionNone, fmt.Errorf("disallowed transition: %s on %s", event, m.state)
	}
	for _, t := range candidates {
		if t.guard != nil && !t.guard(m) {
			continue
		}
		m.state = t.to
		switch t.action {
		case ActionMarkPending:
			m.pending = true
		case ActionStartRun:
			m.pending = false
		}
		return t.action, nil
	}
	return ActionNone, fmt.Errorf("no transition matched: %s on %s", event, m.state)
}

// DropPending discards a queued follow-up run
func (m *Machine) DropPending() {
	m.pending = false
}
