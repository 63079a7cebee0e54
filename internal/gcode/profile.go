package gcode

// Profile defines a post-processor configuration for a cutting controller.
type Profile struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	StartCode    []string `json:"start_code"`    // commands at start of file
	ToolStart    string   `json:"tool_start"`    // spindle or torch on, e.g. "M3 S%d"
	ToolStop     string   `json:"tool_stop"`     // spindle or torch off
	SheetChange  string   `json:"sheet_change"`  // pause between patterns, e.g. "M0"
	RapidMove    string   `json:"rapid_move"`    // G0 or equivalent
	FeedMove     string   `json:"feed_move"`     // G1 or equivalent
	EndCode      []string `json:"end_code"`      // commands at end of file; [SafeZ] is substituted
	CommentStart string   `json:"comment_start"` // e.g. ";" or "("
	CommentEnd   string   `json:"comment_end"`   // e.g. ")" for Fanuc style

	DecimalPlaces int `json:"decimal_places"`
}

// Profiles are the built-in post-processors. The last one is the fallback.
var Profiles = []Profile{
	{
		Name:          "Grbl",
		Description:   "Grbl based gantry saws and routers",
		StartCode:     []string{"G90", "G21", "G17"},
		ToolStart:     "M3 S%d",
		ToolStop:      "M5",
		SheetChange:   "M0",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentStart:  ";",
		DecimalPlaces: 3,
	},
	{
		Name:          "LinuxCNC",
		Description:   "LinuxCNC controlled plasma or saw tables",
		StartCode:     []string{"G90", "G21", "G17", "G94"},
		ToolStart:     "M3 S%d",
		ToolStop:      "M5",
		SheetChange:   "M0",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentStart:  "(",
		CommentEnd:    ")",
		DecimalPlaces: 4,
	},
	{
		Name:          "Generic",
		Description:   "Generic standard G-code",
		StartCode:     []string{"G90", "G21"},
		ToolStart:     "M3 S%d",
		ToolStop:      "M5",
		SheetChange:   "M0",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentStart:  ";",
		DecimalPlaces: 3,
	},
}

// GetProfile returns a profile by name, or the Generic profile if not found.
func GetProfile(name string) Profile {
	for _, p := range Profiles {
		if p.Name == name {
			return p
		}
	}
	return Profiles[len(Profiles)-1]
}

// ProfileNames returns the names of the built-in profiles.
func ProfileNames() []string {
	names := make([]string, len(Profiles))
	for i, p := range Profiles {
		names[i] = p.Name
	}
	return names
}
