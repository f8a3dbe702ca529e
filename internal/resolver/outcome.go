package resolver

// Outcome describes how the processing of an event ended.
type Outcome string

const (
	OutcomeUndefined Outcome = ""
	// OutcomeIgnored is returned when the action of the event is not
	// relevant.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeAlreadyResolved is returned when the pull request of the
	// change set was already resolved by an earlier event.
	OutcomeAlreadyResolved Outcome = "already_resolved"
	// OutcomeRejected is returned when the pull request was declined or
	// deleted.
	OutcomeRejected Outcome = "rejected"
	// OutcomeCompletedManualDeploy is returned when the pull request was
	// merged but the change set must be deployed manually.
	OutcomeCompletedManualDeploy Outcome = "completed_manual_deploy"
	// OutcomeDeploymentTriggered is returned when the pull request was
	// merged and a deployment was triggered.
	OutcomeDeploymentTriggered Outcome = "deployment_triggered"
)

func (o Outcome) String() string {
	if o == OutcomeUndefined {
		return "undefined"
	}

	return string(o)
}
