package steps

import (
	"github.com/similigh/auto-assign/internal/core/pipeline"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)   {}
func (nopLogger) Infof(string, ...any)    {}
func (nopLogger) Warningf(string, ...any) {}

func loggerFrom(deps *pipeline.Dependencies) pipeline.Logger {
	if deps == nil || deps.Logger == nil {
		return nopLogger{}
	}
	return deps.Logger
}
