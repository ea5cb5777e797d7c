package pipeline

import "fmt"

// Stage names one step of a generation request.
type Stage string

// Generation request stages.
const (
	StageReceived         Stage = "received"
	StageRejected         Stage = "rejected"
	StageChannelsResolved Stage = "channels_resolved"
	StageAIAttempted      Stage = "ai_attempted"
	StageAISucceeded      Stage = "ai_succeeded"
	StageAIFailedFallback Stage = "ai_failed_fallback"
	StageDeterministic    Stage = "deterministic"
	StagePlanComputed     Stage = "plan_computed"
	StagePersisted        Stage = "persisted"
	StageResponded        Stage = "responded"
)

// Stage categories
const (
	CategoryIntake     = "intake"
	CategoryGeneration = "generation"
	CategoryDelivery   = "delivery"
)

// StageDefinition defines metadata for a stage
type StageDefinition struct {
	Name     Stage
	Category string
	// From lists the stages that may directly precede this one. Empty means initial.
	From     []Stage
	Terminal bool
}

// StageRegistry holds all stage definitions
var StageRegistry = map[Stage]StageDefinition{
	StageReceived: {
		Name:     StageReceived,
		Category: CategoryIntake,
	},
	StageRejected: {
		Name:     StageRejected,
		Category: CategoryIntake,
		From:     []Stage{StageReceived},
		Terminal: true,
	},
	StageChannelsResolved: {
		Name:     StageChannelsResolved,
		Category: CategoryIntake,
		From:     []Stage{StageReceived},
	},
	StageAIAttempted: {
		Name:     StageAIAttempted,
		Category: CategoryGeneration,
		From:     []Stage{StageChannelsResolved},
	},
	StageAISucceeded: {
		Name:     StageAISucceeded,
		Category: CategoryGeneration,
		From:     []Stage{StageAIAttempted},
	},
	StageAIFailedFallback: {
		Name:     StageAIFailedFallback,
		Category: CategoryGeneration,
		From:     []Stage{StageAIAttempted},
	},
	StageDeterministic: {
		Name:     StageDeterministic,
		Category: CategoryGeneration,
		From:     []Stage{StageChannelsResolved},
	},
	StagePlanComputed: {
		Name:     StagePlanComputed,
		Category: CategoryGeneration,
		From:     []Stage{StageAISucceeded, StageAIFailedFallback, StageDeterministic},
	},
	StagePersisted: {
		Name:     StagePersisted,
		Category: CategoryDelivery,
		From:     []Stage{StagePlanComputed},
	},
	StageResponded: {
		Name:     StageResponded,
		Category: CategoryDelivery,
		From:     []Stage{StagePersisted},
		Terminal: true,
	},
}

// TransitionError represents a stage change the state machine does not allow
type TransitionError struct {
	From Stage
	To   Stage
}

func (e *TransitionError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("invalid initial stage: %s", e.To)
	}
	return fmt.Sprintf("invalid stage transition: %s -> %s", e.From, e.To)
}

// ValidateTransition checks that to may follow from. An empty from means no stage has run yet.
func ValidateTransition(from, to Stage) error {
	def, ok := StageRegistry[to]
	if !ok {
		return fmt.Errorf("unknown stage: %s", to)
	}

	if from == "" {
		if len(def.From) == 0 {
			return nil
		}
		return &TransitionError{From: from, To: to}
	}

	if prev, ok := StageRegistry[from]; ok && prev.Terminal {
		return &TransitionError{From: from, To: to}
	}
	for _, allowed := range def.From {
		if allowed == from {
			return nil
		}
	}
	return &TransitionError{From: from, To: to}
}

// ValidatePath checks a complete sequence of stages from the initial stage to a terminal one.
func ValidatePath(stages []Stage) error {
	var prev Stage
	for _, s := range stages {
		if err := ValidateTransition(prev, s); err != nil {
			return err
		}
		prev = s
	}
	if def, ok := StageRegistry[prev]; !ok || !def.Terminal {
		return fmt.Errorf("path ends in non-terminal stage: %q", prev)
	}
	return nil
}
