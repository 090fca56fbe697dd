package baseindex

import "go.uber.org/zap"

// NewLogger builds a SugaredLogger named for component, suitable for
// passing to WithLogger. It uses zap's production config (JSON output,
// info level) since an index is typically embedded in a longer-running
// service rather than run interactively.
func NewLogger(component string) (*zap.SugaredLogger, error) {
	base, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return base.Named(component).Sugar(), nil
}
