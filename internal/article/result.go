package article

// Outcome classifies what a leaf produced.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeDegraded
	OutcomeFatal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeDegraded:
		return "degraded"
	case OutcomeFatal:
		return "fatal"
	}
	return "unknown"
}

// Result is returned by every leaf instead of (Article, error), so that the
// assembler can tell a self-healed failure from one it has to handle.
type Result struct {
	Outcome Outcome
	Article Article
	// Err is the reason for Degraded and the cause for Fatal.
	Err error
}

// Ok wraps a fully successful article.
func Ok(a Article) Result { return Result{Outcome: OutcomeOK, Article: a} }

// Degraded wraps a usable substitute article and the failure it replaced.
func Degraded(a Article, reason error) Result {
	return Result{Outcome: OutcomeDegraded, Article: a, Err: reason}
}

// Fatal wraps a failure with no usable article.
func Fatal(err error) Result { return Result{Outcome: OutcomeFatal, Err: err} }

// Usable reports whether the result carries an article.
func (r Result) Usable() bool { return r.Outcome != OutcomeFatal }
