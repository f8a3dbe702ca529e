package logfields

import "go.uber.org/zap"

func ChangeSet(val string) zap.Field {
	return zap.String("change_set_id", val)
}

func Run(val string) zap.Field {
	return zap.String("run_id", val)
}

func PullRequestAction(val string) zap.Field {
	return zap.String("pr.action", val)
}

func Outcome(val string) zap.Field {
	return zap.String("outcome", val)
}
