// Package optimize implements the IR Optimizer (§4.4): a fixed-point
// pipeline of semantics-preserving passes over internal/ir nodes,
// grounded on the pass-pipeline shape of original_source's
// ir_optimizer.rs and enhanced_ir_optimizer.rs, rewritten here as Go
// functions over ir.Node rather than a Rust trait object list.
package optimize

import "github.com/rtfs-lang/rtfs/internal/ir"

// maxDepth bounds recursive descent so pathological (self-referential or
// very deep) inputs can't blow the Go call stack; every pass-internal
// walker checks it before recursing further.
const maxDepth = 100

// maxIterations bounds the fixed-point loop; two iterations suffice in
// practice since each pass already recurses to its own fixed point
// within a single call.
const maxIterations = 2

// Level selects how aggressively the pipeline inlines and runs the
// enhanced control-flow pass. The numeric value is not the inlining size
// threshold; Threshold maps each Level to its budget.
type Level int

const (
	LevelNone Level = iota
	LevelBasic
	LevelAggressive
)

// Threshold returns the inlining size budget associated with a Level:
// None=0 (inlining disabled outright), Basic=5, Aggressive=15.
func (l Level) Threshold() int {
	switch l {
	case LevelBasic:
		return 5
	case LevelAggressive:
		return 15
	default:
		return 0
	}
}

// Stats tallies what a pipeline run actually did, mirroring
// OptimizationStats from the reference implementation.
type Stats struct {
	NodesProcessed       int
	ConstantsFolded      int
	DeadCodeEliminated   int
	FunctionCallsInlined int
	TypeSpecializations  int
}

// Pipeline runs the four core passes (constant folding, DCE, type
// specialization, inlining) to a fixed point, then optionally layers the
// Enhanced control-flow pass for Aggressive mode.
type Pipeline struct {
	Level Level
	Stats Stats
}

// New builds a Pipeline at the given optimization Level.
func New(level Level) *Pipeline {
	return &Pipeline{Level: level}
}

// Optimize runs the pipeline over node to a fixed point, up to
// maxIterations, exiting early once a full round of passes reports no
// change. Each pass tracks its own changed flag rather than diffing
// NodeIds (folding and DCE both preserve the original id where
// possible, so an id-equality check is not a reliable change signal).
func (p *Pipeline) Optimize(node ir.Node) ir.Node {
	for iter := 0; iter < maxIterations; iter++ {
		changed := false

		cf := &constantFolder{pipeline: p}
		node = cf.run(node, 0)
		changed = changed || cf.changed

		dce := &deadCodeEliminator{pipeline: p}
		node = dce.run(node, 0)
		changed = changed || dce.changed

		// Type specialization (pass 3) is a reserved no-op hook per §4.4.

		if p.Level != LevelNone {
			inl := &inliner{pipeline: p, threshold: p.Level.Threshold()}
			node = inl.run(node, 0)
			changed = changed || inl.changed
		}

		if p.Level == LevelAggressive {
			enh := &enhancedPass{pipeline: p, threshold: p.Level.Threshold()}
			node = enh.run(node, 0)
			changed = changed || enh.changed
		}

		if !changed {
			break
		}
	}

	p.Stats.NodesProcessed++
	return node
}
