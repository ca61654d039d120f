package domain

// ArgumentKind distinguishes plain values from callback source text
type ArgumentKind int

const (
	// ArgumentLiteral is a JSON-representable value passed as-is
	ArgumentLiteral ArgumentKind = iota
	// ArgumentCallbackSource is JavaScript function source compiled inside
	// the sandbox and passed as a callable argument
	ArgumentCallbackSource
)

// Argument is one positional argument for a sandboxed invocation
type Argument struct {
	Kind    ArgumentKind
	Literal any
	Source  string
}

// LiteralArg wraps a plain value
func LiteralArg(v any) Argument {
	return Argument{Kind: ArgumentLiteral, Literal: v}
}

// CallbackArg wraps callback source text
func CallbackArg(src string) Argument {
	return Argument{Kind: ArgumentCallbackSource, Source: src}
}

// ExecutionOutcome is the result of one sandboxed invocation: either a
// JSON-representable value or a failure message. Never both.
type ExecutionOutcome struct {
	Value any
	Err   string
}

// Failed reports whether the invocation produced a failure
func (o ExecutionOutcome) Failed() bool {
	return o.Err != ""
}
