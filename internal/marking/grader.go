package marking

import "context"

// Q is a minimal view of a question needed for grading.
type Q struct {
	Format string // text, file, diagram, table
	Points []MarkingPoint
}

// Result is the outcome of grading a single submitted answer.
type Result struct {
	Score       ScoreResult
	NeedsManual bool     // true if teacher review is required
	Feedback    []string // optional notes
}

// Strategy grades a single answer format.
type Strategy interface {
	Grade(ctx context.Context, q Q, submitted string) (Result, error)
}

// Grader routes by answer format to the correct Strategy.
type Grader interface {
	Grade(ctx context.Context, q Q, submitted string) (Result, error)
}

type defaultGrader struct {
	strategies map[string]Strategy
}

func (g *defaultGrader) Grade(ctx context.Context, q Q, submitted string) (Result, error) {
	s, ok := g.strategies[q.Format]
	if !ok {
		return Result{
			Score:       ScoreResult{MaxMarks: maxMarks(q.Points), SatisfiedIDs: []string{}, MissedIDs: []string{}},
			NeedsManual: true,
			Feedback:    []string{"no strategy available"},
		}, nil
	}
	return s.Grade(ctx, q, submitted)
}

// Grader options

type Option func(*graderConfig)

type graderConfig struct {
	manualFormats []string
}

// WithManualFormat registers an additional answer format that always routes
// to manual review.
func WithManualFormat(format string) Option {
	return func(c *graderConfig) { c.manualFormats = append(c.manualFormats, format) }
}

// NewGrader installs the built-in strategies: plain text is auto-marked
// against the question's marking points; structured formats whose editors
// live elsewhere (file, diagram, table) are queued for manual review.
func NewGrader(opts ...Option) Grader {
	cfg := &graderConfig{
		manualFormats: []string{"file", "diagram", "table"},
	}
	for _, o := range opts {
		o(cfg)
	}
	st := map[string]Strategy{
		"text": textStrategy{},
	}
	for _, f := range cfg.manualFormats {
		st[f] = manualStrategy{}
	}
	return &defaultGrader{strategies: st}
}

type textStrategy struct{}

func (textStrategy) Grade(_ context.Context, q Q, submitted string) (Result, error) {
	return Result{Score: Score(q.Points, submitted)}, nil
}

type manualStrategy struct{}

func (manualStrategy) Grade(_ context.Context, q Q, _ string) (Result, error) {
	return Result{
		Score:       ScoreResult{MaxMarks: maxMarks(q.Points), SatisfiedIDs: []string{}, MissedIDs: []string{}},
		NeedsManual: true,
		Feedback:    []string{"manual marking required"},
	}, nil
}

func maxMarks(points []MarkingPoint) int {
	sum := 0
	for _, p := range points {
		sum += p.MarkValue
	}
	return sum
}
