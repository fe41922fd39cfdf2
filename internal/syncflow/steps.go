package syncflow

// Step names one stage of the synchronization sequence.
type Step string

// Steps in execution order.
const (
	StepTrust  Step = "trust"
	StepPull   Step = "pull"
	StepStage  Step = "stage"
	StepPrompt Step = "prompt"
	StepCommit Step = "commit"
	StepPush   Step = "push"
)

var orderedSteps = []Step{StepTrust, StepPull, StepStage, StepPrompt, StepCommit, StepPush}

// Plan returns the steps a run with options will execute, in order.
// The trust step is left out when options disable it.
func Plan(options Options) []Step {
	plannedSteps := make([]Step, 0, len(orderedSteps))
	for _, step := range orderedSteps {
		if step == StepTrust && !options.TrustRepository {
			continue
		}
		plannedSteps = append(plannedSteps, step)
	}
	return plannedSteps
}

func containsStep(steps []Step, target Step) bool {
	for _, step := range steps {
		if step == target {
			return true
		}
	}
	return false
}

// RunsGit reports whether the step invokes git.
func (step Step) RunsGit() bool {
	return step != StepPrompt
}

// StepOutcome records what happened to a single step.
type StepOutcome struct {
	Step      Step
	Arguments []string
	ExitCode  int
	Failure   error
	Skipped   bool
}

// Succeeded reports whether the step ran without failure.
func (outcome StepOutcome) Succeeded() bool {
	return !outcome.Skipped && outcome.Failure == nil
}

// Report summarizes a synchronization run.
type Report struct {
	RepositoryPath string
	Message        string
	Outcomes       []StepOutcome
	Halted         bool
	HaltedStep     Step
	Cancelled      bool
}

// Failures returns the outcomes of steps that ran and failed.
func (report Report) Failures() []StepOutcome {
	var failures []StepOutcome
	for _, outcome := range report.Outcomes {
		if !outcome.Skipped && outcome.Failure != nil {
			failures = append(failures, outcome)
		}
	}
	return failures
}

// Outcome returns the recorded outcome for step.
func (report Report) Outcome(step Step) (StepOutcome, bool) {
	for _, outcome := range report.Outcomes {
		if outcome.Step == step {
			return outcome, true
		}
	}
	return StepOutcome{}, false
}
