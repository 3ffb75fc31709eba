package leveling

import "testing"

func TestLevelFromExp(t *testing.T) {
	tests := []struct {
		exp  int
		want int
	}{
		{0, 1},
		{9, 1},
		{10, 2},
		{15, 2},
		{289, 29},
		{290, 30},
		{1000, 101},
		{-20, 1},
	}

	for _, tt := range tests {
		if got := LevelFromExp(tt.exp); got != tt.want {
			t.Errorf("LevelFromExp(%d) = %d, want %d", tt.exp, got, tt.want)
		}
	}
}

func TestStageFromLevel(t *testing.T) {
	tests := []struct {
		level int
		want  Stage
	}{
		{1, StageEgg},
		{5, StageEgg},
		{6, StageBaby},
		{15, StageBaby},
		{16, StageChild},
		{29, StageChild},
		{30, StageAdult},
		{99, StageAdult},
	}

	for _, tt := range tests {
		if got := StageFromLevel(tt.level); got != tt.want {
			t.Errorf("StageFromLevel(%d) = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestAdultBoundary(t *testing.T) {
	if got := StageFromLevel(LevelFromExp(290)); got != StageAdult {
		t.Errorf("exp 290 stage = %s, want adult", got)
	}
	if got := StageFromLevel(LevelFromExp(289)); got != StageChild {
		t.Errorf("exp 289 stage = %s, want child", got)
	}
	if !CanRetire(30) || CanRetire(29) {
		t.Error("CanRetire() should flip exactly at level 30")
	}
}

func TestProgressHelpers(t *testing.T) {
	if got := ExpToNextLevel(0); got != 10 {
		t.Errorf("ExpToNextLevel(0) = %d, want 10", got)
	}
	if got := ExpToNextLevel(47); got != 3 {
		t.Errorf("ExpToNextLevel(47) = %d, want 3", got)
	}
	if got := LevelsToNextStage(1); got != 5 {
		t.Errorf("LevelsToNextStage(1) = %d, want 5", got)
	}
	if got := LevelsToNextStage(30); got != 0 {
		t.Errorf("LevelsToNextStage(30) = %d, want 0", got)
	}
	if !WillLevelUp(0, 10) || WillLevelUp(0, 9) {
		t.Error("WillLevelUp() boundary mismatch")
	}
	if Info("unknown").Stage != StageEgg {
		t.Error("Info() should fall back to egg")
	}
}
