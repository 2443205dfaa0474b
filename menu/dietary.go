package menu

import "campuseats/models"

// dietaryRule is the decision table over the selected dietary labels.
// Labels other than Vegetarian, Non-Vegetarian and Vegan have no effect.
type dietaryRule struct {
	vegOnly    bool
	nonVegOnly bool
}

func newDietaryRule(options []string) dietaryRule {
	var veg, nonVeg, vegan bool
	for _, o := range options {
		switch o {
		case models.DietaryVegetarian:
			veg = true
		case models.DietaryNonVegetarian:
			nonVeg = true
		case models.DietaryVegan:
			vegan = true
		}
	}

	// Vegan has no flag of its own in the data, so it narrows to vegetarian items.
	return dietaryRule{
		vegOnly:    (veg && !nonVeg) || vegan,
		nonVegOnly: nonVeg && !veg,
	}
}

func (r dietaryRule) keep(item models.MenuItem) bool {
	if r.vegOnly && !item.IsVegetarian {
		return false
	}
	if r.nonVegOnly && item.IsVegetarian {
		return false
	}
	return true
}
