package application

// TransitionPolicy decides whether a status change is permitted.
type TransitionPolicy interface {
	Allow(from, to Status) bool
}

type permitAll struct{}

func (permitAll) Allow(from, to Status) bool { return to.Valid() }

// PermitAll accepts any valid status after any other.
func PermitAll() TransitionPolicy { return permitAll{} }

// DependsOnCurrent reports whether p's decision depends on the status being
// replaced, in which case the write must not outrun a concurrent change.
func DependsOnCurrent(p TransitionPolicy) bool {
	_, free := p.(permitAll)
	return !free
}

// Workflow is a transition graph; staying in the same state is always allowed.
type Workflow map[Status][]Status

func (w Workflow) Allow(from, to Status) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, s := range w[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ReviewWorkflow keeps decided applications final.
var ReviewWorkflow = Workflow{
	StatusPending:     {StatusUnderReview, StatusApproved, StatusRejected},
	StatusUnderReview: {StatusPending, StatusApproved, StatusRejected},
}

// PolicyByName maps a config value to a policy; unknown names fall back to PermitAll.
func PolicyByName(name string) TransitionPolicy {
	switch name {
	case "workflow":
		return ReviewWorkflow
	default:
		return PermitAll()
	}
}
