package session

import (
	"context"

	"github.com/matzehuels/jray/pkg/graph"
	"github.com/matzehuels/jray/pkg/visibility"
)

// Command is a typed request from a render surface.
type Command interface {
	// Name identifies the command in logs and the HTTP API.
	Name() string
	// exec runs with s.mu held.
	exec(ctx context.Context, s *Session) Reply
}

// Reply is the result of a command: the state after it ran plus
// command-specific details.
type Reply struct {
	State     State           `json:"state"`
	Err       error           `json:"-"`
	Action    string          `json:"action,omitempty"`    // ToggleCommand
	Edit      EditStatus      `json:"edit,omitempty"`      // EditCommand
	Match     *graph.Match    `json:"match,omitempty"`     // SearchCommand
	Direction graph.Direction `json:"direction,omitempty"` // direction commands
}

// SetTextCommand replaces the source text.
type SetTextCommand struct{ Text string }

// GenerateCommand regenerates from the current source.
type GenerateCommand struct{}

// ToggleDirectionCommand switches between LR and TB.
type ToggleDirectionCommand struct{}

// SetDirectionCommand selects a flow direction.
type SetDirectionCommand struct{ Direction graph.Direction }

// ToggleCommand collapses or expands a node.
type ToggleCommand struct{ NodeID string }

// EditCommand writes a raw value into a node.
type EditCommand struct {
	NodeID string
	Value  string
}

// FormatCommand prettifies the source.
type FormatCommand struct{}

// SearchCommand looks a node up by label or value.
type SearchCommand struct{ Query string }

func (SetTextCommand) Name() string         { return "set_text" }
func (GenerateCommand) Name() string        { return "generate" }
func (ToggleDirectionCommand) Name() string { return "toggle_direction" }
func (SetDirectionCommand) Name() string    { return "set_direction" }
func (ToggleCommand) Name() string          { return "toggle" }
func (EditCommand) Name() string            { return "edit" }
func (FormatCommand) Name() string          { return "format" }
func (SearchCommand) Name() string          { return "search" }

func (c SetTextCommand) exec(ctx context.Context, s *Session) Reply {
	return Reply{Err: s.setTextLocked(ctx, c.Text)}
}

func (GenerateCommand) exec(ctx context.Context, s *Session) Reply {
	return Reply{Err: s.generateLocked(ctx)}
}

func (ToggleDirectionCommand) exec(ctx context.Context, s *Session) Reply {
	d, err := s.toggleDirectionLocked(ctx)
	return Reply{Direction: d, Err: err}
}

func (c SetDirectionCommand) exec(ctx context.Context, s *Session) Reply {
	err := s.setDirectionLocked(ctx, c.Direction)
	return Reply{Direction: s.dir, Err: err}
}

func (c ToggleCommand) exec(ctx context.Context, s *Session) Reply {
	a, err := s.toggleLocked(ctx, c.NodeID)
	if a == visibility.None {
		return Reply{Err: err}
	}
	return Reply{Action: a.String(), Err: err}
}

func (c EditCommand) exec(ctx context.Context, s *Session) Reply {
	st, err := s.editLocked(ctx, c.NodeID, c.Value)
	return Reply{Edit: st, Err: err}
}

func (FormatCommand) exec(ctx context.Context, s *Session) Reply {
	return Reply{Err: s.formatLocked(ctx)}
}

func (c SearchCommand) exec(_ context.Context, s *Session) Reply {
	m, ok := graph.Find(s.nodes, c.Query)
	if !ok {
		return Reply{}
	}
	return Reply{Match: &m}
}

// Dispatch runs cmd and returns its reply with the resulting state. The
// state is taken before any other operation can run, so it reflects cmd
// and nothing after it.
func (s *Session) Dispatch(ctx context.Context, cmd Command) Reply {
	r := s.dispatchLocked(ctx, cmd)
	if r.Err != nil {
		s.logger.Debug("command failed", "session", s.id, "command", cmd.Name(), "err", r.Err)
	}
	return r
}

func (s *Session) dispatchLocked(ctx context.Context, cmd Command) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := cmd.exec(ctx, s)
	r.State = s.stateLocked()
	return r
}

// Envelope carries a command over a channel together with where to send
// the reply. Reply may be nil when the sender does not wait.
type Envelope struct {
	Command Command
	Reply   chan<- Reply
}

// Run executes commands from in, one at a time and in order, until in is
// closed or ctx is done. An unbuffered Reply channel holds up the loop
// until the reply is read.
func (s *Session) Run(ctx context.Context, in <-chan Envelope) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env, ok := <-in:
			if !ok {
				return nil
			}
			r := s.Dispatch(ctx, env.Command)
			if env.Reply == nil {
				continue
			}
			select {
			case env.Reply <- r:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
