package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jray/pkg/errors"
	"github.com/matzehuels/jray/pkg/graph"
	"github.com/matzehuels/jray/pkg/nodeid"
	"github.com/matzehuels/jray/pkg/session"
	"github.com/matzehuels/jray/pkg/visibility"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		direction string
		flags     layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "explore [file.json]",
		Short: "Browse and edit a JSON document in the terminal",
		Long: `Browse and edit a JSON document in the terminal.

The document is shown as a tree of nodes. Collapse and expand containers,
edit scalar values in place (the original type is kept), search by label
or value, and write the result back to the file.

Keys:
  ↑/↓ j/k   move           enter/space  collapse or expand
  e         edit value     /            search
  d         flip direction f            format source
  w         write file     q            quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args[0], direction, flags)
		},
	}

	cmd.Flags().StringVarP(&direction, "direction", "d", "", "flow direction: LR, TB (default from config)")
	flags.register(cmd)
	return cmd
}

func (c *CLI) runExplore(ctx context.Context, path, direction string, flags layoutFlags) error {
	if path == stdio {
		return errors.New(errors.ErrCodeInvalidInput, "explore needs a file, not stdin")
	}
	text, err := readSource(path, nil)
	if err != nil {
		return err
	}

	dir := c.Config.FlowDirection()
	if direction != "" {
		if dir, err = graph.ParseDirection(direction); err != nil {
			return err
		}
	}

	manager, closeCache, err := c.newLayoutManager(ctx, flags)
	if err != nil {
		return err
	}
	defer closeCache()

	// Log lines would tear the alternate screen.
	c.Logger.SetOutput(io.Discard)

	s := session.New(
		session.WithLogger(c.Logger),
		session.WithLayout(manager),
		session.WithDirection(dir),
	)
	if err := s.SetText(ctx, text); err != nil && !errors.Recoverable(err) {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	in := make(chan session.Envelope)
	go s.Run(ctx, in)

	m := newExplorerModel(ctx, path, in, s.Snapshot())
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("explorer: %w", err)
	}
	return nil
}

// =============================================================================
// explorerModel - Interactive tree view over a session
// =============================================================================

type explorerMode int

const (
	modeBrowse explorerMode = iota
	modeEdit
	modeSearch
)

// replyMsg delivers the reply to a session command.
type replyMsg struct {
	command session.Command
	reply   session.Reply
}

// writtenMsg reports the outcome of writing the source back to disk.
type writtenMsg struct{ err error }

type explorerRow struct {
	node      graph.Node
	depth     int
	collapsed bool
}

type explorerModel struct {
	ctx  context.Context
	path string
	in   chan<- session.Envelope

	state  session.State
	saved  string // text as last read from or written to disk
	rows   []explorerRow
	cursor int
	offset int
	height int

	mode   explorerMode
	input  textinput.Model
	status string
	failed bool
}

func newExplorerModel(ctx context.Context, path string, in chan<- session.Envelope, st session.State) explorerModel {
	ti := textinput.New()
	ti.CharLimit = 4096
	ti.Width = 60

	m := explorerModel{
		ctx:    ctx,
		path:   path,
		in:     in,
		saved:  st.Text,
		height: 20,
		input:  ti,
	}
	m.setState(st)
	if !st.Valid {
		m.status, m.failed = st.Error, true
	}
	return m
}

func (m explorerModel) Init() tea.Cmd {
	return nil
}

// send hands cmd to the session loop and waits for its reply.
func (m explorerModel) send(cmd session.Command) tea.Cmd {
	ctx, in := m.ctx, m.in
	return func() tea.Msg {
		reply := make(chan session.Reply, 1)
		select {
		case in <- session.Envelope{Command: cmd, Reply: reply}:
		case <-ctx.Done():
			return nil
		}
		select {
		case r := <-reply:
			return replyMsg{command: cmd, reply: r}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m explorerModel) write() tea.Cmd {
	path, text := m.path, m.state.Text
	return func() tea.Msg {
		return writtenMsg{err: writeOutput(path, io.Discard, []byte(text))}
	}
}

func (m explorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
		m.scroll()
		return m, nil
	case replyMsg:
		m.handleReply(msg)
		return m, nil
	case writtenMsg:
		if msg.err != nil {
			m.status, m.failed = errors.UserMessage(msg.err), true
			return m, nil
		}
		m.saved = m.state.Text
		m.status, m.failed = "wrote "+m.path, false
		return m, nil
	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m explorerModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.scroll()
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.scroll()
		}
	case "enter", " ":
		if row, ok := m.current(); ok && row.node.IsContainer() {
			return m, m.send(session.ToggleCommand{NodeID: row.node.ID})
		}
	case "e":
		row, ok := m.current()
		if !ok || row.node.IsContainer() {
			m.status, m.failed = "only scalar values can be edited", true
			return m, nil
		}
		m.mode = modeEdit
		m.input.Prompt = row.node.Label + ": "
		m.input.SetValue(row.node.Value)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "/":
		m.mode = modeSearch
		m.input.Prompt = "/"
		m.input.SetValue("")
		return m, m.input.Focus()
	case "d":
		return m, m.send(session.ToggleDirectionCommand{})
	case "f":
		return m, m.send(session.FormatCommand{})
	case "w":
		return m, m.write()
	}
	return m, nil
}

func (m explorerModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		mode := m.mode
		m.mode = modeBrowse
		m.input.Blur()
		if mode == modeSearch {
			return m, m.send(session.SearchCommand{Query: value})
		}
		row, ok := m.current()
		if !ok {
			return m, nil
		}
		return m, m.send(session.EditCommand{NodeID: row.node.ID, Value: value})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *explorerModel) handleReply(msg replyMsg) {
	r := msg.reply
	m.setState(r.State)

	switch {
	case r.Err != nil:
		m.status, m.failed = errors.UserMessage(r.Err), true
		return
	case !r.State.Valid:
		m.status, m.failed = r.State.Error, true
		return
	}

	m.failed = false
	switch cmd := msg.command.(type) {
	case session.ToggleCommand:
		m.status = r.Action + " " + cmd.NodeID
	case session.EditCommand:
		m.status = "edit " + string(r.Edit)
		if r.Edit == session.EditDropped {
			m.status += ": " + cmd.NodeID + " no longer exists"
		}
	case session.ToggleDirectionCommand:
		m.status = "direction " + string(r.Direction)
	case session.FormatCommand:
		m.status = "formatted"
	case session.SearchCommand:
		m.showMatch(cmd.Query, r.Match)
	default:
		m.status = ""
	}
	if len(r.State.Fallbacks) > 0 {
		m.status += fmt.Sprintf(" (%d nodes not placed by the layout engine)", len(r.State.Fallbacks))
	}
}

func (m *explorerModel) showMatch(query string, match *graph.Match) {
	if match == nil {
		m.status, m.failed = fmt.Sprintf("no node matches %q", query), true
		return
	}
	for i, row := range m.rows {
		if row.node.ID == match.Node.ID {
			m.cursor = i
			m.scroll()
			m.status = "found " + match.Node.ID
			return
		}
	}
	m.status = "found " + match.Node.ID + " inside a collapsed node"
}

// setState replaces the displayed state and keeps the cursor on the same
// node when it is still visible.
func (m *explorerModel) setState(st session.State) {
	var selected string
	if row, ok := m.current(); ok {
		selected = row.node.ID
	}

	m.state = st
	rows := make([]explorerRow, 0, len(st.Nodes))
	for _, n := range st.Nodes {
		if n.Hidden {
			continue
		}
		rows = append(rows, explorerRow{
			node:      n,
			depth:     len(nodeid.Parse(n.ID)),
			collapsed: n.IsContainer() && visibility.IsCollapsed(st.Nodes, st.Edges, n.ID),
		})
	}
	m.rows = rows

	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
	for i, row := range m.rows {
		if row.node.ID == selected {
			m.cursor = i
			break
		}
	}
	m.scroll()
}

func (m explorerModel) current() (explorerRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return explorerRow{}, false
	}
	return m.rows[m.cursor], true
}

func (m *explorerModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m explorerModel) View() string {
	var b strings.Builder

	title := m.path
	if m.state.Text != m.saved {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s · %d nodes", m.state.Direction, len(m.state.Nodes))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  ⏎ toggle  e edit  / search  d direction  f format  w write  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		line := m.rows[i].render(i == m.cursor)
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.mode != modeBrowse:
		b.WriteString(m.input.View())
	case m.failed:
		b.WriteString(listErrorStyle.Render(m.status))
	default:
		b.WriteString(listDimStyle.Render(m.status))
	}
	return b.String()
}

func (r explorerRow) render(selected bool) string {
	cursor := "  "
	if selected {
		cursor = "› "
	}
	marker := "  "
	if r.node.IsContainer() {
		marker = "▾ "
		if r.collapsed {
			marker = "▸ "
		}
	}
	return fmt.Sprintf("%s%s%s%s: %s", cursor, strings.Repeat("  ", r.depth), marker, r.node.Label, r.node.Value)
}
