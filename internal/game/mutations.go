package game

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/stampet/internal/catalog"
	"github.com/julianstephens/stampet/internal/constants"
	"github.com/julianstephens/stampet/internal/goals"
	"github.com/julianstephens/stampet/internal/leveling"
	"github.com/julianstephens/stampet/internal/models"
	"github.com/julianstephens/stampet/internal/streak"
	"github.com/julianstephens/stampet/internal/utils"
)

// Mutations never modify their input. Each returns a new snapshot, or the
// input unchanged together with an error.

// StampDate stamps one day for a habit. Stamping an already stamped day is a
// no-op. Derived fields, goal claims and achievements are settled afterwards.
func StampDate(s models.GameState, habitID, date string, now time.Time) (models.GameState, error) {
	h, ok := s.Habits[habitID]
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrHabitNotFound, habitID)
	}
	if err := utils.ValidateDateKey(date); err != nil {
		return s, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	today := utils.DateKey(now)
	if date > today {
		return s, fmt.Errorf("%w: %s is after %s", ErrFutureDate, date, today)
	}
	if h.IsStamped(date) {
		return s, nil
	}

	out := s.Clone()
	h = out.Habits[habitID]
	h.Logs[date] = models.DayLog{
		Date:      date,
		Stamped:   true,
		Timestamp: now.UnixMilli(),
		Icon:      h.StampIcon,
	}
	out.Habits[habitID] = recompute(h, today)
	return settle(out, now), nil
}

// StampRange stamps every day in [start, end]. The whole range is validated
// before anything is applied, and the result equals stamping each day in
// order with StampDate.
func StampRange(s models.GameState, habitID, start, end string, now time.Time) (models.GameState, error) {
	if _, ok := s.Habits[habitID]; !ok {
		return s, fmt.Errorf("%w: %s", ErrHabitNotFound, habitID)
	}
	for _, d := range []string{start, end} {
		if err := utils.ValidateDateKey(d); err != nil {
			return s, fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}
	}
	if start > end {
		return s, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, start, end)
	}
	if today := utils.DateKey(now); end > today {
		return s, fmt.Errorf("%w: %s is after %s", ErrFutureDate, end, today)
	}

	days, err := utils.DateRange(start, end)
	if err != nil {
		return s, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	out := s
	for _, day := range days {
		if out, err = StampDate(out, habitID, day, now); err != nil {
			return s, err
		}
	}
	return out, nil
}

// Onboard creates the first habit and makes it active.
func Onboard(s models.GameState, habitName, iconID, petColor string, now time.Time) (models.GameState, models.Habit, error) {
	if len(s.Habits) > 0 {
		return s, models.Habit{}, ErrAlreadyOnboarded
	}
	out, h, err := addHabit(s, habitName, iconID, catalog.DefaultPet, petColor, now)
	if err != nil {
		return s, models.Habit{}, err
	}
	out.ActiveHabitID = h.ID
	return out, h, nil
}

// AddHabit creates another habit with its own pet. The pet and icon must be
// unlocked. The new habit becomes active only when no habit is active.
func AddHabit(s models.GameState, name, iconID, petID string, now time.Time) (models.GameState, models.Habit, error) {
	return addHabit(s, name, iconID, petID, "", now)
}

func addHabit(s models.GameState, name, iconID, petID, color string, now time.Time) (models.GameState, models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, models.Habit{}, ErrInvalidName
	}
	if iconID == "" {
		iconID = string(catalog.DefaultIcon)
	}
	if err := checkIconUsable(s, iconID); err != nil {
		return s, models.Habit{}, err
	}
	if petID == "" {
		petID = catalog.DefaultPet
	}
	if !catalog.IsPet(petID) {
		return s, models.Habit{}, fmt.Errorf("%w: %s", ErrUnknownPet, petID)
	}
	if !models.HasID(s.UnlockedPets, petID) {
		return s, models.Habit{}, fmt.Errorf("pet %s: %w", petID, ErrLocked)
	}
	color = catalog.LookupColor(color).ID

	h := models.Habit{
		ID:           newID(),
		Name:         name,
		StartDate:    utils.DateKey(now),
		Logs:         make(map[string]models.DayLog),
		CurrentLevel: leveling.LevelFromExp(0),
		StampIcon:    iconID,
		StampColor:   color,
		PetID:        petID,
		PetColor:     color,
	}

	out := s.Clone()
	out.Habits[h.ID] = h
	if _, ok := out.Habits[out.ActiveHabitID]; !ok {
		out.ActiveHabitID = h.ID
	}
	return out, h, nil
}

// DeleteHabit removes a habit with its logs and goals. Completed-goal
// records stay in history.
func DeleteHabit(s models.GameState, habitID string) (models.GameState, error) {
	if _, ok := s.Habits[habitID]; !ok {
		return s, fmt.Errorf("%w: %s", ErrHabitNotFound, habitID)
	}
	out := s.Clone()
	delete(out.Habits, habitID)
	for id, g := range out.Goals {
		if g.HabitID == habitID {
			delete(out.Goals, id)
		}
	}
	if out.ActiveHabitID == habitID {
		out.ActiveHabitID = firstHabitID(out)
	}
	return out, nil
}

func SetActiveHabit(s models.GameState, habitID string) (models.GameState, error) {
	if _, ok := s.Habits[habitID]; !ok {
		return s, fmt.Errorf("%w: %s", ErrHabitNotFound, habitID)
	}
	out := s.Clone()
	out.ActiveHabitID = habitID
	return out, nil
}

// RenamePet sets the pet nickname. An empty nickname clears it.
func RenamePet(s models.GameState, habitID, nickname string) (models.GameState, error) {
	if _, ok := s.Habits[habitID]; !ok {
		return s, fmt.Errorf("%w: %s", ErrHabitNotFound, habitID)
	}
	out := s.Clone()
	h := out.Habits[habitID]
	h.PetNickname = strings.TrimSpace(nickname)
	out.Habits[habitID] = h
	return out, nil
}

// SetStampIcon changes the stamp used for future days. Either an unlocked
// catalog icon or a custom stamp id is accepted.
func SetStampIcon(s models.GameState, habitID, iconID string) (models.GameState, error) {
	if _, ok := s.Habits[habitID]; !ok {
		return s, fmt.Errorf("%w: %s", ErrHabitNotFound, habitID)
	}
	if err := checkIconUsable(s, iconID); err != nil {
		return s, err
	}
	out := s.Clone()
	h := out.Habits[habitID]
	h.StampIcon = iconID
	out.Habits[habitID] = h
	return out, nil
}

// CreateGoal validates the target for the period and prices the reward.
func CreateGoal(s models.GameState, habitID string, period models.GoalPeriod, targetDays int, now time.Time) (models.GameState, models.Goal, error) {
	if _, ok := s.Habits[habitID]; !ok {
		return s, models.Goal{}, fmt.Errorf("%w: %s", ErrHabitNotFound, habitID)
	}
	if err := goals.ValidateTarget(period, targetDays); err != nil {
		return s, models.Goal{}, err
	}

	g := models.Goal{
		ID:         newID(),
		HabitID:    habitID,
		Period:     period,
		TargetDays: targetDays,
		CoinReward: goals.Reward(period, targetDays),
	}
	out := s.Clone()
	out.Goals[g.ID] = g
	return settle(out, now), g, nil
}

func DeleteGoal(s models.GameState, goalID string) (models.GameState, error) {
	if _, ok := s.Goals[goalID]; !ok {
		return s, fmt.Errorf("%w: %s", ErrGoalNotFound, goalID)
	}
	out := s.Clone()
	delete(out.Goals, goalID)
	return out, nil
}

// ClaimGoals records and pays every goal that reached its target in the
// current period and has not been paid for that period yet.
func ClaimGoals(s models.GameState, now time.Time) (models.GameState, []models.CompletedGoal) {
	ids := make([]string, 0, len(s.Goals))
	for id := range s.Goals {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var claimed []models.CompletedGoal
	out := s
	cloned := false
	for _, id := range ids {
		g := out.Goals[id]
		h, ok := out.Habits[g.HabitID]
		if !ok || !goals.Due(g, h, out.CompletedGoals, now) {
			continue
		}
		if !cloned {
			out = s.Clone()
			cloned = true
		}
		rec := models.CompletedGoal{
			GoalID:      g.ID,
			PeriodStart: goals.PeriodStartKey(g.Period, now),
			CompletedAt: now.UnixMilli(),
		}
		out.CompletedGoals = append(out.CompletedGoals, rec)
		out.Coins += g.CoinReward
		claimed = append(claimed, rec)
	}
	return out, claimed
}

// BuyItem spends coins on a shop item. Owned counts are duplicates in the inventory.
func BuyItem(s models.GameState, itemID string) (models.GameState, error) {
	item, ok := catalog.LookupItem(itemID)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	out, err := spend(s, item.Price)
	if err != nil {
		return s, err
	}
	out.Inventory = append(out.Inventory, item.ID)
	return unlockAchievements(out), nil
}

func UnlockArea(s models.GameState, areaID string) (models.GameState, error) {
	area, ok := catalog.LookupArea(areaID)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownArea, areaID)
	}
	if models.HasID(s.World.UnlockedAreas, area.ID) {
		return s, fmt.Errorf("area %s: %w", area.ID, ErrAlreadyUnlocked)
	}
	out, err := spend(s, area.Price)
	if err != nil {
		return s, err
	}
	out.World.UnlockedAreas = models.AddID(out.World.UnlockedAreas, area.ID)
	out.World.Areas[area.ID] = models.AreaConfig{Background: area.Background, Decorations: []string{}}
	return unlockAchievements(out), nil
}

func UnlockPet(s models.GameState, petID string) (models.GameState, error) {
	if !catalog.IsPet(petID) {
		return s, fmt.Errorf("%w: %s", ErrUnknownPet, petID)
	}
	if models.HasID(s.UnlockedPets, petID) {
		return s, fmt.Errorf("pet %s: %w", petID, ErrAlreadyUnlocked)
	}
	out, err := spend(s, catalog.LookupPet(petID).Price)
	if err != nil {
		return s, err
	}
	out.UnlockedPets = models.AddID(out.UnlockedPets, petID)
	return unlockAchievements(out), nil
}

func UnlockIcon(s models.GameState, iconID string) (models.GameState, error) {
	if !catalog.IsIcon(iconID) {
		return s, fmt.Errorf("%w: %s", ErrUnknownIcon, iconID)
	}
	if models.HasID(s.UnlockedIcons, iconID) {
		return s, fmt.Errorf("icon %s: %w", iconID, ErrAlreadyUnlocked)
	}
	out, err := spend(s, catalog.LookupIcon(iconID).Price)
	if err != nil {
		return s, err
	}
	out.UnlockedIcons = models.AddID(out.UnlockedIcons, iconID)
	return unlockAchievements(out), nil
}

// PlaceDecoration moves one owned decoration from the inventory into an unlocked area.
func PlaceDecoration(s models.GameState, areaID, itemID string) (models.GameState, error) {
	if _, ok := catalog.LookupArea(areaID); !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownArea, areaID)
	}
	if !models.HasID(s.World.UnlockedAreas, areaID) {
		return s, fmt.Errorf("area %s: %w", areaID, ErrLocked)
	}
	item, ok := catalog.LookupItem(itemID)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	if !item.Decoration {
		return s, fmt.Errorf("%w: %s", ErrNotDecoration, itemID)
	}
	idx := -1
	for i, id := range s.Inventory {
		if id == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrItemNotOwned, itemID)
	}

	out := s.Clone()
	out.Inventory = append(out.Inventory[:idx], out.Inventory[idx+1:]...)
	cfg := out.World.Areas[areaID]
	cfg.Decorations = append(cfg.Decorations, itemID)
	out.World.Areas[areaID] = cfg
	return out, nil
}

// RetirePet moves an adult pet into the hall of fame and starts the habit
// over with a fresh egg.
func RetirePet(s models.GameState, habitID string, now time.Time) (models.GameState, models.RetiredPet, error) {
	h, ok := s.Habits[habitID]
	if !ok {
		return s, models.RetiredPet{}, fmt.Errorf("%w: %s", ErrHabitNotFound, habitID)
	}
	if !leveling.CanRetire(h.CurrentLevel) {
		return s, models.RetiredPet{}, fmt.Errorf("%w: level %d, need %d", ErrNotAdult, h.CurrentLevel, constants.AdultMinLevel)
	}

	today := utils.DateKey(now)
	rec := models.RetiredPet{
		HabitID:       h.ID,
		HabitName:     h.Name,
		PetID:         h.PetID,
		PetColor:      h.PetColor,
		Nickname:      h.PetNickname,
		FinalLevel:    h.CurrentLevel,
		TotalStamps:   h.StampedCount(),
		LongestStreak: h.LongestStreak,
		RetiredAt:     today,
	}

	out := s.Clone()
	out.RetiredPets = append(out.RetiredPets, rec)
	h = out.Habits[habitID]
	h.Logs = make(map[string]models.DayLog)
	h.StartDate = today
	h.PetNickname = ""
	out.Habits[habitID] = recompute(h, today)
	return unlockAchievements(out), rec, nil
}

// AddCustomStamp registers a user-defined stamp face.
func AddCustomStamp(s models.GameState, name, emoji string, now time.Time) (models.GameState, models.CustomStamp, error) {
	name = strings.TrimSpace(name)
	emoji = strings.TrimSpace(emoji)
	if name == "" || emoji == "" {
		return s, models.CustomStamp{}, fmt.Errorf("%w: custom stamps need a name and an emoji", ErrInvalidName)
	}
	cs := models.CustomStamp{
		ID:        newID(),
		Name:      name,
		Emoji:     emoji,
		CreatedAt: now.UnixMilli(),
	}
	out := s.Clone()
	out.CustomStamps[cs.ID] = cs
	return out, cs, nil
}

// Refresh recomputes every habit's derived fields for the day of now and
// settles goals and achievements. It repairs any drift in a loaded snapshot.
func Refresh(s models.GameState, now time.Time) models.GameState {
	out := normalize(s.Clone())
	today := utils.DateKey(now)
	for id, h := range out.Habits {
		out.Habits[id] = recompute(h, today)
	}
	return settle(out, now)
}

// Recompute derives exp, level and streaks of a habit from its logs.
func Recompute(h models.Habit, today string) models.Habit {
	return recompute(h.Clone(), today)
}

func recompute(h models.Habit, today string) models.Habit {
	h.TotalExp = constants.ExpPerStamp * h.StampedCount()
	h.CurrentLevel = leveling.LevelFromExp(h.TotalExp)
	h.CurrentStreak = streak.Current(h.Logs, today)
	h.LongestStreak = streak.Longest(h.Logs)
	if h.LongestStreak < h.CurrentStreak {
		h.LongestStreak = h.CurrentStreak
	}
	return h
}

func settle(s models.GameState, now time.Time) models.GameState {
	s, _ = ClaimGoals(s, now)
	return unlockAchievements(s)
}

// unlockAchievements runs to a fixpoint: reward coins may satisfy another
// coin threshold.
func unlockAchievements(s models.GameState) models.GameState {
	for {
		newly, coins := engine.UnlockNew(s, s.UnlockedAchievements)
		if len(newly) == 0 {
			return s
		}
		for _, id := range newly {
			s.UnlockedAchievements = models.AddID(s.UnlockedAchievements, id)
		}
		s.Coins += coins
	}
}

func spend(s models.GameState, price int) (models.GameState, error) {
	if s.Coins < price {
		return s, fmt.Errorf("%w: have %d, need %d", ErrInsufficientCoins, s.Coins, price)
	}
	out := s.Clone()
	out.Coins -= price
	return out, nil
}

func checkIconUsable(s models.GameState, iconID string) error {
	if _, ok := s.CustomStamps[iconID]; ok {
		return nil
	}
	if !catalog.IsIcon(iconID) {
		return fmt.Errorf("%w: %s", ErrUnknownIcon, iconID)
	}
	if !models.HasID(s.UnlockedIcons, iconID) {
		return fmt.Errorf("icon %s: %w", iconID, ErrLocked)
	}
	return nil
}

func firstHabitID(s models.GameState) string {
	ids := make([]string, 0, len(s.Habits))
	for id := range s.Habits {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return ""
	}
	sort.Strings(ids)
	return ids[0]
}
