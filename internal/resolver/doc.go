// Package resolver implements the pull request resolution workflow.
//
// A pull request webhook event is processed in a single synchronous pass:
//
//   - the event is validated and the change set ID is extracted from the
//     source branch name,
//   - the free-text action label is classified as merge, decline, delete or
//     ignore,
//   - the change set is marked as not having an open pull request anymore
//     and its run and run configuration are loaded,
//   - for merges without a merge commit ID, the merge-base of the run commit
//     and the integration branch is computed in a temporary history-only
//     clone,
//   - on merges the run commit is rebound to the merge commit,
//   - the outcome is dispatched: declined and deleted pull requests reject
//     the change set, merged ones delete the feature branch and either
//     trigger a deployment or complete the change set and ask for a manual
//     deployment.
//
// Every stage can end the processing early. Errors are not retried, they are
// returned to the caller.
package resolver
