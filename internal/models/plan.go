package models

// PracticeMinutes is the fixed length of every practice.
const PracticeMinutes = 60

// Format is the structure the planner chose for a practice.
type Format string

const (
	FormatSolo        Format = "solo"
	FormatOneOnOne    Format = "one_on_one"
	FormatStations    Format = "stations"
	FormatUnavailable Format = "unavailable"
)

// PlanInput is everything the planner needs for one practice.
type PlanInput struct {
	WeekNumber     int               `json:"week_number"`
	PresentPlayers []Player          `json:"present_players"`
	PresentCoaches []Coach           `json:"present_coaches"`
	Curriculum     []CurriculumEntry `json:"drills_for_week"`
	FocusOverrides []DrillCategory   `json:"focus_overrides"`
	RecentDrillIDs []string          `json:"recent_drill_ids"`
}

// Plan is a generated practice agenda.
type Plan struct {
	Segments        []Segment `json:"segments"`
	Format          Format    `json:"format"`
	NumStations     int       `json:"num_stations"`
	NumRotations    int       `json:"num_rotations"`
	TeamGameMinutes int       `json:"team_game_duration"`
	// FloatingCoachIDs lists coaches roaming between stations. They appear
	// in no station segment's CoachIDs.
	FloatingCoachIDs []string `json:"floating_coach_ids"`
	// Problem is set when the practice cannot run as configured.
	Problem string `json:"problem,omitempty"`
}

// TotalMinutes sums the timeline slot durations.
func (p Plan) TotalMinutes() int {
	total := 0
	for _, s := range Timeline(p.Segments) {
		total += s.DurationMinutes
	}
	return total
}
