package setup

import "fmt"

// Step identifies one stage of the setup run, numbered in execution order.
type Step int

const (
	StepInterpreter Step = iota + 1
	StepDependencies
	StepCredentials
	StepFrameworkConfig
	StepTests
	StepSummary
)

// StepCount is the number of steps in a full run.
const StepCount = int(StepSummary)

var stepNames = map[Step]string{
	StepInterpreter:     "interpreter",
	StepDependencies:    "dependencies",
	StepCredentials:     "credentials",
	StepFrameworkConfig: "framework config",
	StepTests:           "tests",
	StepSummary:         "summary",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// StepError reports the step at which a run aborted.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("aborted at step %d (%s): %v", int(e.Step), e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
