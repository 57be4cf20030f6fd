package server

import (
	"github.com/matzehuels/jray/pkg/errors"
	"github.com/matzehuels/jray/pkg/graph"
	"github.com/matzehuels/jray/pkg/session"
)

// CommandRequest is the wire form of a session command. Which fields are
// read depends on Name.
type CommandRequest struct {
	Name      string  `json:"command"`
	Text      *string `json:"text,omitempty"`      // set_text
	NodeID    string  `json:"node_id,omitempty"`   // toggle, edit
	Value     *string `json:"value,omitempty"`     // edit
	Query     string  `json:"query,omitempty"`     // search
	Direction string  `json:"direction,omitempty"` // set_direction
}

// Command converts the request to a typed command.
// Returns INVALID_INPUT for unknown names or missing arguments.
func (c CommandRequest) Command() (session.Command, error) {
	switch c.Name {
	case session.SetTextCommand{}.Name():
		if c.Text == nil {
			return nil, missing(c.Name, "text")
		}
		return session.SetTextCommand{Text: *c.Text}, nil
	case session.GenerateCommand{}.Name():
		return session.GenerateCommand{}, nil
	case session.ToggleDirectionCommand{}.Name():
		return session.ToggleDirectionCommand{}, nil
	case session.SetDirectionCommand{}.Name():
		d, err := graph.ParseDirection(c.Direction)
		if err != nil {
			return nil, err
		}
		return session.SetDirectionCommand{Direction: d}, nil
	case session.ToggleCommand{}.Name():
		if c.NodeID == "" {
			return nil, missing(c.Name, "node_id")
		}
		return session.ToggleCommand{NodeID: c.NodeID}, nil
	case session.EditCommand{}.Name():
		if c.NodeID == "" {
			return nil, missing(c.Name, "node_id")
		}
		if c.Value == nil {
			return nil, missing(c.Name, "value")
		}
		return session.EditCommand{NodeID: c.NodeID, Value: *c.Value}, nil
	case session.FormatCommand{}.Name():
		return session.FormatCommand{}, nil
	case session.SearchCommand{}.Name():
		return session.SearchCommand{Query: c.Query}, nil
	case "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "command name is required")
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown command %q", c.Name)
}

func missing(cmd, field string) error {
	return errors.New(errors.ErrCodeInvalidInput, "%s: %s is required", cmd, field)
}
