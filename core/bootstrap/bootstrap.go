package bootstrap

import (
	"fmt"

	coreconfig "github.com/codewithmemo/memobot/core/config"
	"github.com/codewithmemo/memobot/core/logger"
)

// Options control the generic bootstrap pipeline. The store type is left to
// the application; the pipeline only guarantees ordering: logger first,
// then the backing store.
type Options[S any] struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	OpenStore  func(*coreconfig.Config) (S, error)
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result[S any] struct {
	Store S
}

// Run initializes the logger and opens the application store.
func Run[S any](opts Options[S]) (*Result[S], error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	var res Result[S]
	if opts.OpenStore != nil {
		store, err := opts.OpenStore(opts.Config)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: store initialization failed: %w", err)
		}
		res.Store = store
	}

	return &res, nil
}
