package utils

import "github.com/raulcamp/good-deeds/models"

// PerHelperKudos returns the kudos rate a single helper earns on a deed of
// the given difficulty and estimated hours. Difficulty is validated before
// any handler reaches this point, so an unknown value yields zero rather
// than an error.
func PerHelperKudos(difficulty string, estimatedHours int) int {
	switch difficulty {
	case models.DifficultyLow:
		return 10 * estimatedHours
	case models.DifficultyMedium:
		return 20 * estimatedHours
	case models.DifficultyHigh:
		return 30 * estimatedHours
	}
	return 0
}

// DeedCost is the total debited from a requester at creation: the
// per-helper rate times the number of helpers requested.
func DeedCost(difficulty string, estimatedHours, helpersNeeded int) int {
	return helpersNeeded * PerHelperKudos(difficulty, estimatedHours)
}

// EditAdjustment is the signed balance change for a requester when an edit
// moves a deed's cost from previousCost to newCost. Positive is a credit
// (the deed got cheaper), negative a debit.
func EditAdjustment(previousCost, newCost int) int {
	return previousCost - newCost
}
