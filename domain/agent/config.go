package agent

// Limits bounds the resources a single run may consume.
type Limits struct {
	// MaxSteps is the maximum number of completed tool steps.
	MaxSteps uint `json:"max_steps" yaml:"max_steps"`
	// MaxCost is the maximum accumulated model cost (tokens).
	MaxCost uint `json:"max_cost" yaml:"max_cost"`
}

// Config is the immutable per-run configuration. It is fixed at state
// creation and never changes for the lifetime of the run.
type Config struct {
	Limits Limits `json:"limits"`
	// ToolNames is the set of tools the environment exposes.
	ToolNames []string `json:"tool_names"`
	// Headless forbids ever pausing for human input.
	Headless bool `json:"headless"`
}

// AllowsTool reports whether the named tool is in the configured set.
func (c Config) AllowsTool(name string) bool {
	for _, t := range c.ToolNames {
		if t == name {
			return true
		}
	}
	return false
}

// Equal reports whether two configs are identical, including tool set
// order. Used by the invariant suite to assert config immutability.
func (c Config) Equal(other Config) bool {
	if c.Limits != other.Limits || c.Headless != other.Headless {
		return false
	}
	if len(c.ToolNames) != len(other.ToolNames) {
		return false
	}
	for i := range c.ToolNames {
		if c.ToolNames[i] != other.ToolNames[i] {
			return false
		}
	}
	return true
}
