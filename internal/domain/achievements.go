// Achievement catalog and evaluation.
//
// The catalog is fixed at ten entries. Unlocks are append-only: once an id is
// on a profile it is never revoked, and Evaluate only ever reports ids that
// are not yet unlocked, so re-evaluating an already-decorated profile yields
// nothing.
package domain

// Achievement ids in the fixed catalog.
const (
	AchFirstMatch          = "first_match"
	AchActiveChatter       = "active_chatter"
	AchPopularUser         = "popular_user"
	AchConsistentUser      = "consistent_user"
	AchProfileCompleted    = "profile_completed"
	AchSuccessfulConnector = "successful_connector"
	AchPhotoUploader       = "photo_uploader"
	AchLocationSharer      = "location_sharer"
	AchScheduleOptimizer   = "schedule_optimizer"
	AchGoalSetter          = "goal_setter"
)

// Thresholds for the counter-based achievements.
const (
	activeChatterMessages  = 100
	popularUserLikes       = 50
	consistentUserStreak   = 7
	successfulConnectorMin = 5
)

// Achievement describes one catalog entry.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// ActivityStats carries the relationship counters some achievement predicates
// depend on. Counters are assembled by the caller from the relationship
// tables; the profile itself only stores the login streak.
type ActivityStats struct {
	Matches       int64
	MessagesSent  int64
	LikesReceived int64
}

// Catalog returns the full fixed achievement catalog in display order.
func Catalog() []Achievement {
	return []Achievement{
		{ID: AchFirstMatch, Title: "First Match", Description: "Got your first match", Icon: "🤝"},
		{ID: AchActiveChatter, Title: "Active Chatter", Description: "Sent more than 100 messages", Icon: "💬"},
		{ID: AchPopularUser, Title: "Popular User", Description: "Received more than 50 likes", Icon: "⭐"},
		{ID: AchConsistentUser, Title: "Consistent User", Description: "Logged in 7 days in a row", Icon: "📅"},
		{ID: AchProfileCompleted, Title: "Complete Profile", Description: "Filled in every profile field", Icon: "✅"},
		{ID: AchSuccessfulConnector, Title: "Successful Connector", Description: "Made 5 successful connections", Icon: "🌟"},
		{ID: AchPhotoUploader, Title: "Photogenic", Description: "Uploaded your first profile photo", Icon: "📸"},
		{ID: AchLocationSharer, Title: "Location Shared", Description: "Shared your location", Icon: "📍"},
		{ID: AchScheduleOptimizer, Title: "Organizer", Description: "Set up your preferred time slots", Icon: "⏰"},
		{ID: AchGoalSetter, Title: "Goal Setter", Description: "Defined your training objectives", Icon: "🎯"},
	}
}

// EvaluateAchievements returns the ids newly unlocked by the profile's current
// attributes and activity counters. It is a pure function: the caller persists
// the union of existing and new ids. Predicates are independent, so order does
// not matter.
func EvaluateAchievements(p *UserProfile, stats ActivityStats) []string {
	unlocked := make(map[string]struct{}, len(p.Achievements))
	for _, id := range p.Achievements {
		unlocked[id] = struct{}{}
	}

	var newIDs []string
	unlock := func(id string, ok bool) {
		if !ok {
			return
		}
		if _, have := unlocked[id]; have {
			return
		}
		newIDs = append(newIDs, id)
	}

	complete := p.DisplayName != "" && p.PhotoURL != "" && p.Location != "" &&
		p.Experience != "" && len(p.Objectives) > 0 && len(p.PreferredTimes) > 0

	unlock(AchProfileCompleted, complete)
	unlock(AchPhotoUploader, p.PhotoURL != "")
	unlock(AchLocationSharer, p.Location != "")
	unlock(AchScheduleOptimizer, len(p.PreferredTimes) > 0)
	unlock(AchGoalSetter, len(p.Objectives) > 0)
	unlock(AchFirstMatch, stats.Matches >= 1)
	unlock(AchSuccessfulConnector, stats.Matches >= successfulConnectorMin)
	unlock(AchActiveChatter, stats.MessagesSent > activeChatterMessages)
	unlock(AchPopularUser, stats.LikesReceived > popularUserLikes)
	unlock(AchConsistentUser, p.LoginStreak >= consistentUserStreak)

	return newIDs
}
