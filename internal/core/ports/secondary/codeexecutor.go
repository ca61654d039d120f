package secondary

import (
	"time"

	"github.com/legennd48/backend-js-autograder/internal/domain"
)

// CodeExecutor runs one named function from untrusted source text inside an
// isolated context. Implementations must build a fresh context per call and
// enforce the timeout with wall-clock preemption.
type CodeExecutor interface {
	Execute(sourceText, functionName string, args []domain.Argument, timeout time.Duration) domain.ExecutionOutcome
}
