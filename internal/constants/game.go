package constants

const (
	// ExpPerStamp is fixed; totalExp is always ExpPerStamp * stamped days.
	ExpPerStamp = 10
	// ExpPerLevel is the exp needed to advance one level.
	ExpPerLevel = 10

	// Stage thresholds (minimum level for each stage)
	BabyMinLevel  = 6
	ChildMinLevel = 16
	AdultMinLevel = 30

	// Goal pricing. Changing these is a balancing decision.
	WeeklyBaseReward  = 10
	MonthlyBaseReward = 30
	GoalRewardDivisor = 3

	// Goal target ranges accepted at the input boundary
	MinGoalTarget        = 1
	MaxWeeklyGoalTarget  = 7
	MaxMonthlyGoalTarget = 31

	// Starting balance for a fresh world
	StartingCoins = 0
)
