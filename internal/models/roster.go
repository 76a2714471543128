package models

// SkillLevel is a player's skill tier.
type SkillLevel string

const (
	SkillAdvanced SkillLevel = "advanced"
	SkillBeginner SkillLevel = "beginner"
)

// CoachRole distinguishes the head coach from assistants.
type CoachRole string

const (
	RoleHead      CoachRole = "head_coach"
	RoleAssistant CoachRole = "assistant_coach"
)

// Player is a rostered kid. Players are soft-deactivated, never deleted.
type Player struct {
	ID     string     `json:"id" yaml:"id"`
	Name   string     `json:"name" yaml:"name"`
	Skill  SkillLevel `json:"skill_level" yaml:"skill_level"`
	Active bool       `json:"is_active" yaml:"is_active"`
}

// Coach is a head or assistant coach profile.
type Coach struct {
	ID    string    `json:"id" yaml:"id"`
	Name  string    `json:"full_name" yaml:"full_name"`
	Role  CoachRole `json:"role" yaml:"role"`
	Email string    `json:"email,omitempty" yaml:"email"`
}

// IsHead reports whether the coach holds the head coach role.
func (c Coach) IsHead() bool {
	return c.Role == RoleHead
}

// PlayerIDs returns the ids of players in order.
func PlayerIDs(players []Player) []string {
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}

// CoachIDs returns the ids of coaches in order.
func CoachIDs(coaches []Coach) []string {
	ids := make([]string, len(coaches))
	for i, c := range coaches {
		ids[i] = c.ID
	}
	return ids
}
