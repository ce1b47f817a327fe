package mylang

import (
	"errors"
	"io"
	"strings"
)

// ReplSession runs statements typed one line at a time against a single
// environment that lives as long as the session.
type ReplSession struct {
	evaluator_ *Evaluator
	pending_   string
	last_      string
}

func NewReplSession(out io.Writer) *ReplSession {
	ret := ReplSession{}
	ret.evaluator_ = NewEvaluator(NewBindingEnv(), out)
	return &ret
}

func (this *ReplSession) Env() *BindingEnv {
	return this.evaluator_.Env()
}

// Feed adds one line of input. It reports true while the buffered text is an
// unfinished statement; nothing is executed until the statement is complete.
// On error the buffer is dropped, but statements before the failing one
// have already run.
func (this *ReplSession) Feed(line string) (bool, error) {
	text := line
	if this.pending_ != "" {
		text = this.pending_ + "\n" + line
	}
	this.pending_ = ""
	this.last_ = text
	if strings.TrimSpace(text) == "" {
		return false, nil
	}

	program, err := ParseSource(text)
	var synErr *SyntaxError
	if errors.As(err, &synErr) && synErr.Found.Kind == EOF && synErr.Detail == "" {
		this.pending_ = text
		return true, nil
	}
	if err != nil {
		return false, err
	}
	for _, stmt := range program.Statements {
		if _, err := this.evaluator_.Exec(stmt); err != nil {
			return false, err
		}
	}
	return false, nil
}

// / The text the last Feed call worked on, for error positions.
func (this *ReplSession) LastText() string {
	return this.last_
}
