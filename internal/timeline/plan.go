package timeline

import (
	"strings"
	"time"
)

// DefaultOffsets are the reference offsets of the four run steps.
var DefaultOffsets = []time.Duration{
	0,
	300 * time.Millisecond,
	700 * time.Millisecond,
	1100 * time.Millisecond,
}

// Plan returns the four steps of a run for the given selection. offsets must
// hold four values; anything else falls back to DefaultOffsets.
func Plan(selectedIDs []string, offsets []time.Duration) []Step {
	if len(offsets) != 4 {
		offsets = DefaultOffsets
	}

	assigned := "all participants"
	if len(selectedIDs) > 0 {
		assigned = strings.Join(selectedIDs, ", ")
	}

	return []Step{
		{Title: "Assigned tasks to selected models", Note: assigned, Offset: offsets[0]},
		{Title: "Participants drafted initial outputs", Note: "Each model works on its specialty", Offset: offsets[1]},
		{Title: "Cross-review & collaboration", Note: "Models read each other and refine", Offset: offsets[2]},
		{Title: "Synthesizer merged results", Note: "Conflicts resolved, caveats added", Offset: offsets[3]},
	}
}
