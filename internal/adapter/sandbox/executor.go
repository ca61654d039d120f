// package sandbox executes untrusted student JavaScript in an isolated
// goja interpreter with wall-clock preemption
package sandbox

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/legennd48/backend-js-autograder/internal/core/ports/secondary"
	"github.com/legennd48/backend-js-autograder/internal/domain"
)

// DefaultTimeout bounds a single invocation when the caller passes none
const DefaultTimeout = 2000 * time.Millisecond

// moduleShim provides the CommonJS-style export surface the grading
// contract expects. goja installs no ambient I/O, filesystem, or network,
// so nothing needs to be stripped.
const moduleShim = "var module = { exports: {} };\nvar exports = module.exports;\n"

var _ secondary.CodeExecutor = (*Executor)(nil)

// Executor runs one exported function per call. Every call builds a fresh
// VM; no state survives between invocations.
type Executor struct{}

// NewExecutor creates a new sandbox executor
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute evaluates sourceText, extracts module.exports[functionName] (or
// the sole callable export), and invokes it with the given arguments. The
// timeout is enforced by interrupting the VM, so code that ignores
// cooperative cancellation is still stopped.
func (e *Executor) Execute(sourceText, functionName string, args []domain.Argument, timeout time.Duration) domain.ExecutionOutcome {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	vm := goja.New()
	timer := time.AfterFunc(timeout, func() {
		vm.Interrupt("execution timed out")
	})
	defer timer.Stop()

	if _, err := vm.RunString(moduleShim + sourceText); err != nil {
		return failure(err, timeout)
	}

	fn, ok := lookupExport(vm, functionName)
	if !ok {
		return domain.ExecutionOutcome{Err: fmt.Sprintf("Function '%s' not found or not exported", functionName)}
	}

	callArgs := make([]goja.Value, 0, len(args))
	for _, arg := range args {
		switch arg.Kind {
		case domain.ArgumentCallbackSource:
			// Callback literals are compiled inside this VM so the
			// isolation boundary stays intact
			expr := strings.TrimSpace(arg.Source)
			if !strings.HasPrefix(expr, "function") && !strings.Contains(expr, "=>") {
				return domain.ExecutionOutcome{Err: "Invalid function expression"}
			}
			v, err := vm.RunString("(" + expr + ")")
			if err != nil {
				return failure(err, timeout)
			}
			callArgs = append(callArgs, v)
		default:
			callArgs = append(callArgs, vm.ToValue(arg.Literal))
		}
	}

	res, err := fn(goja.Undefined(), callArgs...)
	if err != nil {
		return failure(err, timeout)
	}
	return domain.ExecutionOutcome{Value: normalize(res)}
}

// lookupExport resolves module.exports[name], falling back to
// module.exports itself when the module's whole export is one callable
func lookupExport(vm *goja.Runtime, name string) (goja.Callable, bool) {
	moduleVal := vm.Get("module")
	if moduleVal == nil || goja.IsUndefined(moduleVal) || goja.IsNull(moduleVal) {
		return nil, false
	}
	exportsVal := moduleVal.ToObject(vm).Get("exports")
	if exportsVal == nil || goja.IsUndefined(exportsVal) || goja.IsNull(exportsVal) {
		return nil, false
	}

	if named := exportsVal.ToObject(vm).Get(name); named != nil {
		if fn, ok := goja.AssertFunction(named); ok {
			return fn, true
		}
	}
	if fn, ok := goja.AssertFunction(exportsVal); ok {
		return fn, true
	}
	return nil, false
}

func failure(err error, timeout time.Duration) domain.ExecutionOutcome {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return domain.ExecutionOutcome{Err: fmt.Sprintf("execution timed out after %dms", timeout.Milliseconds())}
	}

	var exception *goja.Exception
	if errors.As(err, &exception) {
		msg := ""
		if v := exception.Value(); v != nil {
			if obj, ok := v.(*goja.Object); ok {
				if m := obj.Get("message"); m != nil && !goja.IsUndefined(m) {
					msg = m.String()
				}
			}
			if msg == "" {
				msg = v.String()
			}
		}
		if msg == "" {
			msg = "Execution error"
		}
		return domain.ExecutionOutcome{Err: msg}
	}

	return domain.ExecutionOutcome{Err: err.Error()}
}

// normalize converts a goja value to the JSON-representable shapes the
// comparator understands: nil, bool, float64, string, []any, map[string]any
func normalize(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	return normalizeExported(v.Export())
}

func normalizeExported(x any) any {
	switch t := x.(type) {
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = normalizeExported(el)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, el := range t {
			out[k] = normalizeExported(el)
		}
		return out
	default:
		return x
	}
}
