package models

// Clone returns a deep copy so mutations never alias a previous snapshot.
func (s GameState) Clone() GameState {
	cp := s
	cp.Habits = make(map[string]Habit, len(s.Habits))
	for id, h := range s.Habits {
		cp.Habits[id] = h.Clone()
	}
	cp.Inventory = append([]string{}, s.Inventory...)
	cp.World = World{
		UnlockedAreas: append([]string{}, s.World.UnlockedAreas...),
		Areas:         make(map[string]AreaConfig, len(s.World.Areas)),
	}
	for id, a := range s.World.Areas {
		cp.World.Areas[id] = AreaConfig{
			Background:  a.Background,
			Decorations: append([]string{}, a.Decorations...),
		}
	}
	cp.RetiredPets = append([]RetiredPet{}, s.RetiredPets...)
	cp.UnlockedAchievements = append([]string{}, s.UnlockedAchievements...)
	cp.UnlockedPets = append([]string{}, s.UnlockedPets...)
	cp.UnlockedIcons = append([]string{}, s.UnlockedIcons...)
	cp.CustomStamps = make(map[string]CustomStamp, len(s.CustomStamps))
	for id, c := range s.CustomStamps {
		cp.CustomStamps[id] = c
	}
	cp.Goals = make(map[string]Goal, len(s.Goals))
	for id, g := range s.Goals {
		cp.Goals[id] = g
	}
	cp.CompletedGoals = append([]CompletedGoal{}, s.CompletedGoals...)
	return cp
}

// Clone returns a deep copy of the habit including its log map.
func (h Habit) Clone() Habit {
	cp := h
	cp.Logs = make(map[string]DayLog, len(h.Logs))
	for k, v := range h.Logs {
		cp.Logs[k] = v
	}
	return cp
}
