// Package session keeps JSON source text and its diagram in sync.
//
// A [Session] owns the source text, the projected nodes and edges, and the
// flow direction. Every operation runs to completion under the session
// mutex, including projection and layout, so readers never observe a
// partial diagram. [Session.Snapshot] returns copies.
//
// # Operations
//
//   - SetText: replace the source (last write wins) and regenerate with
//     positions preserved
//   - Generate: regenerate from the current source with positions preserved
//   - ToggleDirection / SetDirection: switch LR and TB and lay out afresh
//   - Toggle: collapse or expand a node
//   - Edit: write a typed value into the source at a node's path
//   - Format: prettify the source
//   - Search: find a node by label or value
//
// # Failure
//
// Every failure is local. Invalid source text is kept as typed, but the
// diagram stays at the last valid document until the text parses again.
// Edits that fail to coerce, or whose path vanished, leave both text and
// diagram untouched; a vanished path is reported as dropped, not as an
// error. Layout failures never block a regeneration.
//
// # Delivery
//
// Render surfaces either call the methods directly, send typed commands
// through [Session.Dispatch], or feed a channel consumed by [Session.Run].
package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/jray/pkg/edit"
	"github.com/matzehuels/jray/pkg/errors"
	"github.com/matzehuels/jray/pkg/graph"
	"github.com/matzehuels/jray/pkg/jsonvalue"
	"github.com/matzehuels/jray/pkg/layout"
	"github.com/matzehuels/jray/pkg/observability"
	"github.com/matzehuels/jray/pkg/projection"
	"github.com/matzehuels/jray/pkg/visibility"
)

// Session is a single-writer editing session.
type Session struct {
	mu sync.Mutex

	id        string
	text      string // as last written; may be invalid
	nodes     []graph.Node
	edges     []graph.Edge
	dir       graph.Direction
	parseErr  error // set while text does not parse
	fallbacks []string
	version   uint64
	created   time.Time
	touched   time.Time

	layout *layout.Manager
	logger *log.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLayout sets the position continuity manager. Defaults to a manager
// over [layout.Layered].
func WithLayout(m *layout.Manager) Option {
	return func(s *Session) {
		if m != nil {
			s.layout = m
		}
	}
}

// WithDirection sets the initial flow direction. Defaults to LR.
func WithDirection(d graph.Direction) Option {
	return func(s *Session) {
		if d.Valid() {
			s.dir = d
		}
	}
}

// WithID sets the session ID. Defaults to a random UUID.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// New returns an empty session.
func New(opts ...Option) *Session {
	now := time.Now()
	s := &Session{
		id:      uuid.NewString(),
		dir:     graph.DefaultDirection,
		created: now,
		touched: now,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.layout == nil {
		s.layout = layout.NewManager(nil, layout.WithLogger(s.logger))
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State is a consistent copy of a session.
type State struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Valid     bool     `json:"valid"`
	Error     string   `json:"error,omitempty"`     // Parse error while Valid is false
	Fallbacks []string `json:"fallbacks,omitempty"` // Nodes the last layout could not place
	Version   uint64   `json:"version"`
	graph.Snapshot
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Text returns the current source text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Direction returns the current flow direction.
func (s *Session) Direction() graph.Direction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dir
}

// IdleSince returns the time of the last operation.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// SetText replaces the source text and regenerates the diagram, keeping
// the positions of nodes that already existed. Invalid text is stored but
// the diagram is left as it was; the INVALID_JSON error is returned.
func (s *Session) SetText(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setTextLocked(ctx, text)
}

func (s *Session) setTextLocked(ctx context.Context, text string) error {
	if err := errors.ValidateSource(text); err != nil {
		return err
	}
	s.touch()

	s.text = text
	return s.regenerate(ctx, true)
}

// Generate regenerates the diagram from the current source, keeping known
// positions.
func (s *Session) Generate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generateLocked(ctx)
}

func (s *Session) generateLocked(ctx context.Context) error {
	s.touch()
	return s.regenerate(ctx, true)
}

// ToggleDirection switches between LR and TB and recomputes every position.
func (s *Session) ToggleDirection(ctx context.Context) (graph.Direction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toggleDirectionLocked(ctx)
}

func (s *Session) toggleDirectionLocked(ctx context.Context) (graph.Direction, error) {
	s.touch()
	return s.setDirection(ctx, s.dir.Toggle())
}

// SetDirection sets the flow direction and recomputes every position. It
// is a no-op when dir is already current.
func (s *Session) SetDirection(ctx context.Context, dir graph.Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setDirectionLocked(ctx, dir)
}

func (s *Session) setDirectionLocked(ctx context.Context, dir graph.Direction) error {
	if !dir.Valid() {
		return errors.New(errors.ErrCodeInvalidDirection, "unknown direction %q", dir)
	}
	s.touch()
	if dir == s.dir {
		return nil
	}
	_, err := s.setDirection(ctx, dir)
	return err
}

func (s *Session) setDirection(ctx context.Context, dir graph.Direction) (graph.Direction, error) {
	prev := s.dir
	s.dir = dir
	if len(s.nodes) == 0 {
		s.version++
		return dir, nil
	}
	res, err := s.layout.Apply(ctx, s.nodes, s.edges, graph.Positions(s.nodes), dir, false)
	if err != nil && !errors.Is(err, errors.ErrCodeOracleFailure) {
		s.dir = prev
		return prev, err
	}
	s.nodes = res.Nodes
	s.fallbacks = res.Fallbacks
	s.version++
	s.logger.Debug("direction changed", "session", s.id, "direction", dir)
	return dir, nil
}

// Toggle collapses or expands node id. Toggling a leaf does nothing.
// Returns NOT_FOUND for an unknown node.
func (s *Session) Toggle(ctx context.Context, id string) (visibility.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toggleLocked(ctx, id)
}

func (s *Session) toggleLocked(ctx context.Context, id string) (visibility.Action, error) {
	if err := errors.ValidateNodeID(id); err != nil {
		return visibility.None, err
	}
	s.touch()

	if _, ok := graph.Index(s.nodes)[id]; !ok {
		return visibility.None, errors.New(errors.ErrCodeNotFound, "node %s not found", id)
	}
	nodes, edges, action := visibility.ToggleAction(s.nodes, s.edges, id)
	if action == visibility.None {
		return action, nil
	}
	s.nodes, s.edges = nodes, edges
	s.version++
	observability.Session().OnToggle(ctx, action.String())
	s.logger.Debug("toggle", "session", s.id, "node", id, "action", action)
	return action, nil
}

// EditStatus is the outcome of [Session.Edit].
type EditStatus string

const (
	EditApplied EditStatus = observability.EditApplied
	EditNoop    EditStatus = observability.EditNoop
	EditDropped EditStatus = observability.EditDropped
)

// Edit writes raw into the value at path, coerced to that value's type,
// then regenerates with positions preserved.
//
// A path that no longer exists yields EditDropped with a nil error. A value
// that cannot be coerced returns TYPE_COERCION, and invalid current source
// returns INVALID_JSON; in both cases nothing changes.
func (s *Session) Edit(ctx context.Context, path, raw string) (EditStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editLocked(ctx, path, raw)
}

func (s *Session) editLocked(ctx context.Context, path, raw string) (EditStatus, error) {
	if err := errors.ValidateNodeID(path); err != nil {
		return "", err
	}
	if err := errors.ValidateRawValue(raw); err != nil {
		return "", err
	}
	s.touch()
	hooks := observability.Session()

	r, err := edit.ApplyResult(s.text, path, raw)
	switch {
	case errors.Is(err, errors.ErrCodePathNotFound):
		s.logger.Debug("edit dropped", "session", s.id, "path", path, "err", err)
		hooks.OnEdit(ctx, observability.EditDropped)
		return EditDropped, nil
	case err != nil:
		s.logger.Info("edit rejected", "session", s.id, "path", path, "err", errors.UserMessage(err))
		hooks.OnEdit(ctx, observability.EditRejected)
		return "", err
	case !r.Changed:
		hooks.OnEdit(ctx, observability.EditNoop)
		return EditNoop, nil
	}

	prev := s.text
	s.text = r.Text
	if err := s.regenerate(ctx, true); err != nil && !errors.Is(err, errors.ErrCodeOracleFailure) {
		s.text = prev
		return "", err
	}
	hooks.OnEdit(ctx, observability.EditApplied)
	s.logger.Debug("edit applied", "session", s.id, "path", path, "kind", r.Value.Kind())
	return EditApplied, nil
}

// Format rewrites the source in canonical form (two-space indentation,
// original key order). Invalid source returns INVALID_JSON and is left as
// typed.
func (s *Session) Format(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formatLocked(ctx)
}

func (s *Session) formatLocked(ctx context.Context) error {
	s.touch()

	formatted, err := jsonvalue.Format(s.text)
	if err != nil {
		return err
	}
	if formatted == s.text {
		return nil
	}
	s.text = formatted
	return s.regenerate(ctx, true)
}

// Search returns the first node whose label or value contains query.
func (s *Session) Search(query string) (graph.Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return graph.Find(s.nodes, query)
}

// regenerate projects s.text and commits the new diagram. On a parse
// failure only parseErr changes.
func (s *Session) regenerate(ctx context.Context, preserve bool) error {
	start := time.Now()
	nodes, edges, err := projection.ProjectText(s.text)
	observability.Session().OnProject(ctx, len(nodes), time.Since(start), err)
	if err != nil {
		s.parseErr = err
		s.version++
		s.logger.Debug("source does not parse", "session", s.id, "err", err)
		return err
	}

	nodes, edges = visibility.Carry(s.nodes, nodes, edges)
	res, err := s.layout.Apply(ctx, nodes, edges, graph.Positions(s.nodes), s.dir, preserve)
	if err != nil && !errors.Is(err, errors.ErrCodeOracleFailure) {
		return err
	}

	s.nodes, s.edges = res.Nodes, edges
	s.fallbacks = res.Fallbacks
	s.parseErr = nil
	s.version++
	s.logger.Debug("projected", "session", s.id, "nodes", len(nodes), "reused", res.Reused)
	return err
}

func (s *Session) stateLocked() State {
	st := State{
		ID:        s.id,
		Text:      s.text,
		Valid:     s.parseErr == nil,
		Fallbacks: append([]string(nil), s.fallbacks...),
		Version:   s.version,
		Snapshot: graph.Snapshot{
			Nodes:     graph.CloneNodes(s.nodes),
			Edges:     graph.CloneEdges(s.edges),
			Direction: s.dir,
		},
	}
	if st.Nodes == nil {
		st.Nodes = []graph.Node{}
	}
	if st.Edges == nil {
		st.Edges = []graph.Edge{}
	}
	if s.parseErr != nil {
		st.Error = errors.UserMessage(s.parseErr)
	}
	return st
}

func (s *Session) touch() { s.touched = time.Now() }
