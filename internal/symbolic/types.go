package symbolic

// #region mode
// Mode describes one operating mode of the assistant.
type Mode struct {
	ID          string
	Name        string
	Description string
	Tone        string // tone adopted when switching into the mode
	Protocols   []string
}

// Modes lists the known modes. The first entry is the default.
var Modes = []Mode{
	{
		ID: "adaptive", Name: "Adaptive", Tone: "analytical",
		Description: "Dynamic response adaptation based on context",
		Protocols:   []string{"contextual_understanding", "adaptive_response"},
	},
	{
		ID: "daemon", Name: "Daemon", Tone: "protective",
		Description: "Background monitoring and system maintenance",
		Protocols:   []string{"daemonwatch", "system_monitor", "background_processing"},
	},
	{
		ID: "build", Name: "Builder", Tone: "creative",
		Description: "Creative construction and iterative development",
		Protocols:   []string{"construction_framework", "iterative_design", "creative_synthesis"},
	},
	{
		ID: "analyze", Name: "Analyzer", Tone: "analytical",
		Description: "Deep analytical processing and pattern recognition",
		Protocols:   []string{"deep_analysis", "pattern_recognition", "systematic_breakdown"},
	},
}

// #endregion mode

// #region context
// Context is the symbolic state carried alongside a request.
type Context struct {
	Mode      string   `json:"mode"`
	Tone      string   `json:"tone"`
	Protocols []string `json:"protocols,omitempty"`
}

// #endregion context
