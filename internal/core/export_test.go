package core

import "context"

// RunRefreshJob exposes one refresh pass to the external tests.
func (s *Service) RunRefreshJob(ctx context.Context, sources []Source) int {
	return s.runRefreshJob(ctx, sources)
}
