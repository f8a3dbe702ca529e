package logfields

import "go.uber.org/zap"

func RepositoryOwner(val string) zap.Field {
	return zap.String("github.repository_owner", val)
}
