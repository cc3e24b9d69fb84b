package services

import "testing"

func TestLevelForXPBounds(t *testing.T) {
	if got := LevelForXP(0); got != 1 {
		t.Errorf("LevelForXP(0) = %d, want 1", got)
	}
	if got := LevelForXP(-50); got != 1 {
		t.Errorf("LevelForXP(-50) = %d, want 1", got)
	}
	if got := LevelForXP(1 << 30); got != MaxLevel {
		t.Errorf("LevelForXP(huge) = %d, want %d", got, MaxLevel)
	}
}

func TestLevelForXPMonotonic(t *testing.T) {
	prev := LevelForXP(0)
	for xp := 1; xp <= 5000; xp++ {
		level := LevelForXP(xp)
		if level < prev {
			t.Fatalf("LevelForXP not monotonic: xp=%d level=%d < prev=%d", xp, level, prev)
		}
		prev = level
	}
}

func TestLevelForXPThresholds(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{1000, 6},
		{2699, 9},
		{2700, 10},
		{100000, 10},
	}
	for _, tc := range cases {
		if got := LevelForXP(tc.xp); got != tc.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", tc.xp, got, tc.want)
		}
	}
}

func TestProgressForXP(t *testing.T) {
	p := ProgressForXP(0)
	if p.Level != 1 || p.Start != 0 || p.Next == nil || *p.Next != 100 || p.Ratio != 0 {
		t.Errorf("ProgressForXP(0) = %+v, want level 1, span 0..100, ratio 0", p)
	}

	p = ProgressForXP(50)
	if p.Level != 1 || p.Ratio != 0.5 {
		t.Errorf("ProgressForXP(50) = %+v, want level 1 ratio 0.5", p)
	}

	p = ProgressForXP(2700)
	if p.Level != MaxLevel || p.Next != nil || p.Ratio != 1 {
		t.Errorf("ProgressForXP(2700) = %+v, want max level, nil next, ratio 1", p)
	}

	p = ProgressForXP(-10)
	if p.Level != 1 || p.Ratio != 0 {
		t.Errorf("ProgressForXP(-10) = %+v, want level 1 ratio 0", p)
	}
}

func TestProgressRatioClamped(t *testing.T) {
	for xp := 0; xp <= 6000; xp += 7 {
		p := ProgressForXP(xp)
		if p.Ratio < 0 || p.Ratio > 1 {
			t.Fatalf("ProgressForXP(%d).Ratio = %f out of [0,1]", xp, p.Ratio)
		}
	}
}
