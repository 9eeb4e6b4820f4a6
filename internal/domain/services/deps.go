package services

import (
	"github.com/casedesk/casedesk/pkg/logger"
)

// Deps is what every entity service shares: one query cache, one
// notification channel and the logger.
type Deps struct {
	Queries  *QueryClient
	Notifier Notifier
	Logger   *logger.Logger
}

type base struct {
	queries *QueryClient
	runner  *mutationRunner
	logger  *logger.Logger
}

func newBase(deps Deps, component string) base {
	log := deps.Logger.With("component", component)
	return base{
		queries: deps.Queries,
		runner:  newMutationRunner(deps.Queries, deps.Notifier, log),
		logger:  log,
	}
}
