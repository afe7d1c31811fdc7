package radar

import (
	"go.uber.org/zap"
)

// LoggedResolver resolves targets and logs every applied stage at debug level.
type LoggedResolver struct {
	logger *zap.Logger
}

// NewLoggedResolver creates a LoggedResolver that logs to logger.
//
// Precondition: logger must be non-nil.
func NewLoggedResolver(logger *zap.Logger) *LoggedResolver {
	return &LoggedResolver{logger: logger}
}

// Resolve runs Trace and logs each stage and the final target.
//
// Postcondition: Returns the same Resolution and error as Trace.
func (r *LoggedResolver) Resolve(scan Scan, protocols []Protocol) (Resolution, error) {
	res, err := Trace(scan, protocols)
	if err != nil {
		r.logger.Debug("resolution failed",
			zap.Int("scan_size", len(scan)),
			zap.Error(err),
		)
		return res, err
	}
	for _, st := range res.Stages {
		r.logger.Debug("protocol stage applied",
			zap.String("stage", string(st.Stage)),
			zap.String("protocol", string(st.Protocol)),
			zap.Float64("x", st.Candidate.X),
			zap.Float64("y", st.Candidate.Y),
			zap.Int("remaining", st.Remaining),
		)
	}
	r.logger.Debug("target resolved",
		zap.Float64("x", res.Target.X),
		zap.Float64("y", res.Target.Y),
		zap.Bool("matched", res.Matched()),
	)
	return res, nil
}
