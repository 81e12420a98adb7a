package rules

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// exprCostLimit bounds the work a single expression may do per document.
const exprCostLimit = 1_000_000

var (
	envOnce sync.Once
	env     *cel.Env
	envErr  error
)

// exprEnv returns the shared CEL environment. Expressions see:
//
//	text  string  extracted document text
//	name  string  file name with extension
//	stem  string  file name without extension
//	ext   string  lower-cased extension without the dot
func exprEnv() (*cel.Env, error) {
	envOnce.Do(func() {
		env, envErr = cel.NewEnv(
			cel.Variable("text", cel.StringType),
			cel.Variable("name", cel.StringType),
			cel.Variable("stem", cel.StringType),
			cel.Variable("ext", cel.StringType),
		)
	})
	return env, envErr
}

// compileExpression type-checks expr and builds a cost-limited program.
func compileExpression(expr string) (cel.Program, error) {
	e, err := exprEnv()
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}
	ast, issues := e.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("expression must evaluate to bool, got %s", ast.OutputType())
	}
	prog, err := e.Program(ast, cel.CostLimit(exprCostLimit))
	if err != nil {
		return nil, fmt.Errorf("program creation error: %w", err)
	}
	return prog, nil
}

// evalExpression runs prog against the facts. Evaluation errors and
// non-bool results count as no match.
func evalExpression(prog cel.Program, facts map[string]any) bool {
	out, _, err := prog.Eval(facts)
	if err != nil {
		return false
	}
	matched, ok := out.Value().(bool)
	return ok && matched
}
