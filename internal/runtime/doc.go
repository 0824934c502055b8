// Package runtime runs the external commands a setup needs (the Python
// interpreter, pip, pytest and the bot entry point) and probes the interpreter
// for its version. The Runner interface lets callers substitute a fake.
package runtime
