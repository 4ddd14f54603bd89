package pipeline

import (
	"context"
	"fmt"

	"solarconv/internal"
)

// Run dispatches one conversion mode.
func (s *ProcessingService) Run(ctx context.Context, mode internal.Mode) (internal.RunSummary, error) {
	switch mode {
	case internal.ModeMinutePlain:
		return s.RunMinutes(ctx, MinutePlain)
	case internal.ModeMinuteSL:
		return s.RunMinutes(ctx, MinuteSL)
	case internal.ModeDay:
		return s.RunDay(ctx)
	case internal.ModeKaco:
		return s.RunKaco(ctx)
	default:
		return internal.RunSummary{}, fmt.Errorf("unsupported mode: %s", mode)
	}
}
