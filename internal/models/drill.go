package models

// DrillCategory groups drills by the skill they train.
type DrillCategory string

const (
	CategoryWarmup      DrillCategory = "warmup"
	CategoryHitting     DrillCategory = "hitting"
	CategoryFielding    DrillCategory = "fielding"
	CategoryThrowing    DrillCategory = "throwing"
	CategoryBaserunning DrillCategory = "baserunning"
	CategoryGamePlay    DrillCategory = "game_play"
	CategoryCooldown    DrillCategory = "cooldown"
)

var validCategories = map[DrillCategory]bool{
	CategoryWarmup:      true,
	CategoryHitting:     true,
	CategoryFielding:    true,
	CategoryThrowing:    true,
	CategoryBaserunning: true,
	CategoryGamePlay:    true,
	CategoryCooldown:    true,
}

// ValidCategory reports whether c is a known drill category.
func ValidCategory(c DrillCategory) bool {
	return validCategories[c]
}

// SkillTarget is the skill tier a drill is aimed at.
type SkillTarget string

const (
	TargetAll      SkillTarget = "all"
	TargetAdvanced SkillTarget = "advanced"
	TargetBeginner SkillTarget = "beginner"
)

// Drill is a library drill. Everything past SkillTarget is coaching content
// that the planner carries through untouched.
type Drill struct {
	ID              string        `json:"id" yaml:"id"`
	Name            string        `json:"name" yaml:"name"`
	Category        DrillCategory `json:"category" yaml:"category"`
	DurationMinutes int           `json:"duration_minutes" yaml:"duration_minutes"`
	MinPlayers      int           `json:"min_kids" yaml:"min_kids"`
	MaxPlayers      int           `json:"max_kids" yaml:"max_kids"`
	MinCoaches      int           `json:"min_coaches" yaml:"min_coaches"`
	MaxCoaches      int           `json:"max_coaches" yaml:"max_coaches"`
	SkillTarget     SkillTarget   `json:"skill_level_target" yaml:"skill_level_target"`

	Equipment      []string `json:"equipment" yaml:"equipment"`
	Setup          string   `json:"setup_instructions" yaml:"setup_instructions"`
	Explanation    string   `json:"how_to_explain_to_kids" yaml:"how_to_explain_to_kids"`
	Steps          []string `json:"step_by_step" yaml:"step_by_step"`
	CoachingPoints []string `json:"coaching_points" yaml:"coaching_points"`
	CommonMistakes []string `json:"common_mistakes" yaml:"common_mistakes"`
	Progressions   string   `json:"progressions" yaml:"progressions"`
	Regressions    string   `json:"regressions" yaml:"regressions"`
	FunFactor      int      `json:"fun_factor" yaml:"fun_factor"`
	WeekIntroduced int      `json:"week_introduced" yaml:"week_introduced"`
}

// CurriculumEntry binds a drill to a week and a segment slot.
type CurriculumEntry struct {
	ID              string      `json:"id"`
	WeekNumber      int         `json:"week_number"`
	DrillID         string      `json:"drill_id"`
	SegmentOrder    int         `json:"segment_order"`
	SegmentType     SegmentType `json:"segment_type"`
	DurationMinutes int         `json:"duration_minutes"`
	Drill           Drill       `json:"drill"`
}
