package layout

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jray/pkg/errors"
	"github.com/matzehuels/jray/pkg/graph"
	"github.com/matzehuels/jray/pkg/observability"
)

// Anchor offsets added to oracle x coordinates.
const (
	OffsetLeftToRight = 400
	OffsetTopToBottom = 100
)

// Offset returns the x offset applied to oracle coordinates for dir.
func Offset(dir graph.Direction) float64 {
	if dir == graph.TopToBottom {
		return OffsetTopToBottom
	}
	return OffsetLeftToRight
}

// Result is the outcome of [Manager.Apply].
type Result struct {
	Nodes     []graph.Node // Every input node, positioned
	Fallbacks []string     // IDs placed at a last-known or zero coordinate
	Reused    int          // Nodes that kept their previous coordinate
	Consulted bool         // Whether the oracle was called
}

// Manager applies the position continuity policy on top of an oracle.
type Manager struct {
	oracle Oracle
	logger *log.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager returns a manager backed by oracle. A nil oracle means
// [Layered].
func NewManager(oracle Oracle, opts ...Option) *Manager {
	if oracle == nil {
		oracle = Layered{}
	}
	m := &Manager{oracle: oracle, logger: log.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Oracle returns the oracle the manager consults.
func (m *Manager) Oracle() Oracle { return m.oracle }

// Apply positions nodes for dir.
//
// With preserve set, nodes found in previous keep that coordinate and only
// the rest are placed by the oracle. Without it, every node is placed by
// the oracle. Connector sides are set from dir on every node.
//
// The returned Result is always complete. A non-nil error has the code
// ORACLE_FAILURE and means at least one node fell back; INVALID_DIRECTION
// is returned, with no result, for an unknown direction.
func (m *Manager) Apply(ctx context.Context, nodes []graph.Node, edges []graph.Edge, previous map[string]graph.Position, dir graph.Direction, preserve bool) (Result, error) {
	if !dir.Valid() {
		return Result{}, errors.New(errors.ErrCodeInvalidDirection, "unknown direction %q", dir)
	}

	out := graph.CloneNodes(nodes)
	target, source := dir.Sides()
	res := Result{Nodes: out}

	var pending []int
	for i := range out {
		out[i].TargetSide, out[i].SourceSide = target, source
		if preserve {
			if p, ok := previous[out[i].ID]; ok {
				out[i].Position = p
				res.Reused++
				continue
			}
		}
		pending = append(pending, i)
	}
	if len(pending) == 0 {
		return res, nil
	}

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, string(dir), len(nodes))
	start := time.Now()

	positions, oracleErr := m.oracle.Layout(ctx, NewRequest(nodes, edges, dir))
	res.Consulted = true
	offset := Offset(dir)

	for _, i := range pending {
		id := out[i].ID
		if oracleErr == nil {
			if p, ok := positions[id]; ok && finite(p) {
				out[i].Position = graph.Position{X: p.X + offset, Y: p.Y}
				continue
			}
		}
		out[i].Position = previous[id]
		res.Fallbacks = append(res.Fallbacks, id)
	}

	var err error
	if len(res.Fallbacks) > 0 {
		if oracleErr != nil {
			err = errors.Wrap(errors.ErrCodeOracleFailure, oracleErr, "layout %d node(s)", len(res.Fallbacks))
		} else {
			err = errors.New(errors.ErrCodeOracleFailure, "oracle omitted %d node(s)", len(res.Fallbacks))
		}
		m.logger.Warn("layout fell back", "direction", dir, "nodes", len(res.Fallbacks), "err", err)
	}

	elapsed := time.Since(start)
	hooks.OnLayoutComplete(ctx, string(dir), elapsed, len(res.Fallbacks), err)
	m.logger.Debug("layout", "direction", dir, "nodes", len(nodes), "placed", len(pending), "reused", res.Reused, "took", elapsed)
	return res, err
}

func finite(p graph.Position) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
