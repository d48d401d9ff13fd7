package lister

// Default priorities for the usual layering of list configuration. Higher
// numbers win.
const (
	ScopePrioritySystem = 100
	ScopePriorityView   = 200
	ScopePriorityUser   = 300
)

// SystemViewUser stacks application defaults, per-view settings and user
// preferences, and returns the merged Config.
func SystemViewUser(system, view, user Config) (Config, error) {
	stack, err := NewStack(
		NewLayer(NewScope("system", ScopePrioritySystem, WithScopeLabel("System Defaults")), system),
		NewLayer(NewScope("view", ScopePriorityView, WithScopeLabel("View")), view),
		NewLayer(NewScope("user", ScopePriorityUser, WithScopeLabel("User")), user),
	)
	if err != nil {
		return Config{}, err
	}
	return stack.Merge()
}
