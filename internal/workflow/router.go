package workflow

import "context"

// Routing labels returned by Route.
const (
	RoutePlanner   = "planner"
	RouteExecutor  = "executor"
	RouteTerminate = "terminate"
)

// Route is the conditional edge: done runs terminate, runs without a
// pending task go back to the planner, runs with pending work go to the
// executor. Pure function of the state.
func Route(ctx context.Context, s State) string {
	if s.Done {
		return RouteTerminate
	}
	if s.Tree == nil || !s.Tree.Pending() {
		return RoutePlanner
	}
	return RouteExecutor
}
