package mylang

import "io"

// RunResult is what one complete run leaves behind. After a failure it holds
// whatever was produced before the failing phase or statement.
type RunResult struct {
	Program *Program
	Env     *BindingEnv
	Printed []int64
}

// Run lexes, parses and evaluates source in a fresh environment, writing
// printed values to out. Each phase completes before the next begins.
func Run(source string, out io.Writer) (*RunResult, error) {
	result := &RunResult{Env: NewBindingEnv()}
	program, err := ParseSource(source)
	if err != nil {
		return result, err
	}
	result.Program = program

	evaluator := NewEvaluator(result.Env, out)
	err = evaluator.Run(program)
	result.Printed = evaluator.Printed()
	return result, err
}
