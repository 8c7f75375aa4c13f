package game

// CheckDCs are the four difficulty thresholds used for trait checks.
type CheckDCs struct {
	Easy   int `json:"easy"`
	Tricky int `json:"tricky"`
	Hard   int `json:"hard"`
	Heroic int `json:"heroic"`
}

// RulesetConfig is a configuration snapshot copied into each session at
// creation. It is never structurally re-validated afterwards.
type RulesetConfig struct {
	CheckDCs                  CheckDCs       `json:"checkDCs"`
	DefaultHP                 int            `json:"defaultHP"`
	DefaultAC                 int            `json:"defaultAC"`
	AttackBonusIfTraitMatches int            `json:"attackBonusIfTraitMatches"`
	DamageDie                 string         `json:"damageDie"`
	ZeroHPBehaviour           CommonerStatus `json:"zeroHPBehaviour"`
	AdvantageEnabled          bool           `json:"advantageEnabled"`
	ScoringMode               string         `json:"scoringMode"`
}

// DefaultRuleset returns the standard Tournament of Pigs ruleset.
func DefaultRuleset() RulesetConfig {
	return RulesetConfig{
		CheckDCs: CheckDCs{
			Easy:   10,
			Tricky: 15,
			Hard:   18,
			Heroic: 20,
		},
		DefaultHP:                 5,
		DefaultAC:                 10,
		AttackBonusIfTraitMatches: 2,
		DamageDie:                 "d6",
		ZeroHPBehaviour:           StatusKO,
		AdvantageEnabled:          true,
		ScoringMode:               "simple",
	}
}

// StandardConditions are the condition tags offered by default. Conditions
// on a commoner are free text; this list is only a convenience.
var StandardConditions = []string{
	"Prone",
	"Grappled",
	"Restrained",
	"Blinded",
	"Deafened",
	"Frightened",
	"Poisoned",
	"Stunned",
	"Exhausted",
}

// TraitLabels maps trait slots to display names.
var TraitLabels = map[TraitName]string{
	TraitStrong:   "Strong",
	TraitQuick:    "Quick",
	TraitTough:    "Tough",
	TraitClever:   "Clever",
	TraitCharming: "Charming",
}

// StatusLabels maps commoner statuses to display names.
var StatusLabels = map[CommonerStatus]string{
	StatusAlive: "Alive",
	StatusKO:    "KO",
	StatusDead:  "Dead",
	StatusOut:   "Out",
}
