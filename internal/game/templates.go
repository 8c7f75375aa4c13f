package game

// EventCategory groups event templates by flavor.
type EventCategory string

const (
	CategoryRace     EventCategory = "race"
	CategoryBrawl    EventCategory = "brawl"
	CategoryGauntlet EventCategory = "gauntlet"
	CategoryPuzzle   EventCategory = "puzzle"
	CategoryMixed    EventCategory = "mixed"
)

// RoundStructure describes how an event's rounds are paced.
type RoundStructure string

const (
	RoundsTimed    RoundStructure = "timed"
	RoundsTurns    RoundStructure = "turns"
	RoundsFreeform RoundStructure = "freeform"
)

// SuggestedCheck pairs a trait with a DC for the GM to call for.
type SuggestedCheck struct {
	Label string    `json:"label"`
	Trait TraitName `json:"trait"`
	DC    int       `json:"dc"`
}

// EventTemplate is immutable seed content an event can be started from.
// Templates are read-only reference data, not part of session state.
type EventTemplate struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Category        EventCategory    `json:"category"`
	Briefing        string           `json:"briefing"`
	SetupSteps      []string         `json:"setupSteps"`
	RoundStructure  RoundStructure   `json:"roundStructure"`
	SuggestedChecks []SuggestedCheck `json:"suggestedChecks"`
	ScoringGuidance string           `json:"scoringGuidance"`
	GMNotes         string           `json:"gmNotes"`
	IsBuiltIn       bool             `json:"isBuiltIn"`
}

// SeedTemplates are the built-in events shipped with the app.
var SeedTemplates = []EventTemplate{
	{
		ID:       "template-greased-sprint",
		Title:    "Greased Sprint",
		Category: CategoryRace,
		Briefing: "Commoners race across a hazard-filled course. First to finish wins.",
		SetupSteps: []string{
			"Mark start, checkpoints, and finish",
			"Assign hazards to zones (grease, obstacles, etc.)",
			"Position commoners at the start line",
		},
		RoundStructure: RoundsTurns,
		SuggestedChecks: []SuggestedCheck{
			{Label: "Advance one zone", Trait: TraitQuick, DC: 12},
			{Label: "Resist hazard damage", Trait: TraitTough, DC: 15},
			{Label: "Find shortcut", Trait: TraitClever, DC: 15},
		},
		ScoringGuidance: "First to finish = 3pts. Second = 2pts. Third = 1pt. DNF = 0pts.",
		IsBuiltIn:       true,
	},
	{
		ID:       "template-crate-gauntlet",
		Title:    "Crate Gauntlet",
		Category: CategoryGauntlet,
		Briefing: "Navigate through trapped crates to reach the prize at the end.",
		SetupSteps: []string{
			"Describe trap types: spikes, flame jets, pit traps",
			"Set up crate arrangement (3-5 rows)",
			"Place prize at the far end",
		},
		RoundStructure: RoundsTurns,
		SuggestedChecks: []SuggestedCheck{
			{Label: "Avoid trap", Trait: TraitQuick, DC: 12},
			{Label: "Disarm trap", Trait: TraitClever, DC: 15},
			{Label: "Endure damage", Trait: TraitTough, DC: 12},
		},
		ScoringGuidance: "Reach end = 2pts. Fewest casualties = +1pt. All survive = +1pt.",
		IsBuiltIn:       true,
	},
	{
		ID:       "template-mud-brawl",
		Title:    "Mud Brawl",
		Category: CategoryBrawl,
		Briefing: "Last commoner standing wins. The arena is ankle-deep in mud.",
		SetupSteps: []string{
			"Define arena zones: centre pit, edges, escape zone",
			"Explain mud effects: -2 to Quick checks",
			"Position commoners around the arena",
		},
		RoundStructure: RoundsTurns,
		SuggestedChecks: []SuggestedCheck{
			{Label: "Grapple opponent", Trait: TraitStrong, DC: 12},
			{Label: "Escape grapple", Trait: TraitQuick, DC: 12},
			{Label: "Taunt opponent", Trait: TraitCharming, DC: 15},
		},
		ScoringGuidance: "Last standing = 3pts. Knocked out but alive = 1pt. Dead = 0pts.",
		IsBuiltIn:       true,
	},
}

// Template returns the seed template with the given id, or nil.
func Template(id string) *EventTemplate {
	for i := range SeedTemplates {
		if SeedTemplates[i].ID == id {
			return &SeedTemplates[i]
		}
	}
	return nil
}
