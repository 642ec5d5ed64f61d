package models

import (
	"testing"
	"time"
)

func TestDeedForHome(t *testing.T) {
	now := time.Now()
	future := now.Add(48 * time.Hour)
	past := now.Add(-48 * time.Hour)

	open := Deed{Date: future, HelpersNeeded: 2, Helpers: []User{{ID: 1}}}
	if !open.ForHome(now) {
		t.Fatal("future deed short of helpers should be on the home listing")
	}

	filled := Deed{Date: future, HelpersNeeded: 1, Helpers: []User{{ID: 1}}}
	if filled.ForHome(now) {
		t.Fatal("filled deed should not be on the home listing")
	}

	expired := Deed{Date: past, HelpersNeeded: 2}
	if expired.ForHome(now) {
		t.Fatal("past deed should not be on the home listing")
	}
}

func TestDeedForProfile(t *testing.T) {
	now := time.Now()
	future := now.Add(48 * time.Hour)
	past := now.Add(-48 * time.Hour)

	withHelper := Deed{Date: past, Helpers: []User{{ID: 1}}}
	if !withHelper.ForProfile(now) {
		t.Fatal("past deed with a helper still belongs on the profile")
	}

	futureEmpty := Deed{Date: future}
	if !futureEmpty.ForProfile(now) {
		t.Fatal("future deed with no helpers belongs on the profile")
	}

	pastEmpty := Deed{Date: past}
	if pastEmpty.ForProfile(now) {
		t.Fatal("past deed that drew no helpers should drop off the profile")
	}
}

func TestDeedDelinquent(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	if !(&Deed{Date: past, Completed: false}).Delinquent(now) {
		t.Fatal("past incomplete deed is delinquent")
	}
	if (&Deed{Date: past, Completed: true}).Delinquent(now) {
		t.Fatal("completed deed is never delinquent")
	}
	if (&Deed{Date: future, Completed: false}).Delinquent(now) {
		t.Fatal("future deed is not delinquent yet")
	}
}

func TestDeedSelfRemovalOpen(t *testing.T) {
	now := time.Now()

	if !(&Deed{Date: now.Add(25 * time.Hour)}).SelfRemovalOpen(now) {
		t.Fatal("more than 24h out, self removal should be open")
	}
	if (&Deed{Date: now.Add(23 * time.Hour)}).SelfRemovalOpen(now) {
		t.Fatal("inside 24h, self removal should be closed")
	}
	// boundary: exactly 24h out is closed
	if (&Deed{Date: now.Add(24 * time.Hour)}).SelfRemovalOpen(now) {
		t.Fatal("exactly 24h out, self removal should be closed")
	}
}

func TestDeedRequesterRemovalOpen(t *testing.T) {
	now := time.Now()

	if !(&Deed{Date: now.Add(time.Minute)}).RequesterRemovalOpen(now) {
		t.Fatal("before the date, requester removal should be open")
	}
	if (&Deed{Date: now.Add(-time.Minute)}).RequesterRemovalOpen(now) {
		t.Fatal("after the date, requester removal should be closed")
	}
}

func TestDeedHelperPredicates(t *testing.T) {
	deed := Deed{HelpersNeeded: 2, Helpers: []User{{ID: 3}, {ID: 9}}}
	if !deed.Filled() {
		t.Fatal("deed with enough helpers is filled")
	}
	if !deed.HasHelper(9) {
		t.Fatal("expected helper 9 to be found")
	}
	if deed.HasHelper(4) {
		t.Fatal("user 4 is not a helper")
	}
}

func TestValidDifficulty(t *testing.T) {
	for _, d := range []string{DifficultyLow, DifficultyMedium, DifficultyHigh} {
		if !ValidDifficulty(d) {
			t.Errorf("%s should be valid", d)
		}
	}
	for _, d := range []string{"", "low", "EXTREME"} {
		if ValidDifficulty(d) {
			t.Errorf("%q should be invalid", d)
		}
	}
}
