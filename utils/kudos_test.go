package utils

import (
	"testing"

	"github.com/raulcamp/good-deeds/models"
)

func TestPerHelperKudos(t *testing.T) {
	cases := []struct {
		difficulty string
		hours      int
		want       int
	}{
		{models.DifficultyLow, 1, 10},
		{models.DifficultyLow, 4, 40},
		{models.DifficultyMedium, 1, 20},
		{models.DifficultyMedium, 3, 60},
		{models.DifficultyHigh, 1, 30},
		{models.DifficultyHigh, 5, 150},
		{"BOGUS", 5, 0},
	}
	for _, c := range cases {
		if got := PerHelperKudos(c.difficulty, c.hours); got != c.want {
			t.Errorf("PerHelperKudos(%s, %d) = %d, want %d", c.difficulty, c.hours, got, c.want)
		}
	}
}

func TestDeedCost(t *testing.T) {
	// 3 helpers at MEDIUM for 2 hours: 3 * 40
	if got := DeedCost(models.DifficultyMedium, 2, 3); got != 120 {
		t.Fatalf("DeedCost = %d, want 120", got)
	}
	if got := DeedCost(models.DifficultyHigh, 1, 0); got != 0 {
		t.Fatalf("DeedCost with zero helpers = %d, want 0", got)
	}
}

func TestEditAdjustment(t *testing.T) {
	// cheaper edit credits the requester
	if got := EditAdjustment(120, 80); got != 40 {
		t.Fatalf("EditAdjustment(120, 80) = %d, want 40", got)
	}
	// pricier edit debits
	if got := EditAdjustment(80, 120); got != -40 {
		t.Fatalf("EditAdjustment(80, 120) = %d, want -40", got)
	}
	if got := EditAdjustment(100, 100); got != 0 {
		t.Fatalf("EditAdjustment(100, 100) = %d, want 0", got)
	}
}
