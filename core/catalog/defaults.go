package catalog

import "github.com/kilianp07/mealplan/core/model"

// DefaultCookingPhases returns the built-in phases with IDs starting at 1.
func DefaultCookingPhases() []model.CookingPhase {
	phases := []model.CookingPhase{
		{Name: "Washing", Description: "Wash and clean ingredients"},
		{Name: "Chopping", Description: "Cut and prepare ingredients"},
		{Name: "Peeling", Description: "Peel vegetables and fruits"},
		{Name: "Parboiling", Description: "Partially boil before final cooking", ApplianceRequired: true},
		{Name: "Roasting", Description: "Cook in oven at high temperature", ApplianceRequired: true},
		{Name: "Frying", Description: "Cook in oil on hob", ApplianceRequired: true},
		{Name: "Steaming", Description: "Cook with steam", ApplianceRequired: true},
		{Name: "Microwaving", Description: "Cook in microwave oven", ApplianceRequired: true},
		{Name: "Boiling", Description: "Cook in boiling water", ApplianceRequired: true},
		{Name: "Resting", Description: "Allow to rest before serving"},
		{Name: "Serving", Description: "Plate and serve the dish"},
	}
	for i := range phases {
		phases[i].ID = int64(i + 1)
		phases[i].IsDefault = true
	}
	return phases
}

// DefaultAppliances returns the built-in appliances with IDs starting at 1.
func DefaultAppliances() []model.Appliance {
	apps := []model.Appliance{
		{Name: "Fan Oven", Description: "Electric fan-assisted oven"},
		{Name: "Conventional Oven", Description: "Traditional electric or gas oven"},
		{Name: "Microwave", Description: "Microwave oven"},
		{Name: "Hob Ring 1", Description: "First hob ring for boiling/frying"},
		{Name: "Hob Ring 2", Description: "Second hob ring for boiling/frying"},
		{Name: "Hob Ring 3", Description: "Third hob ring for boiling/frying"},
		{Name: "Hob Ring 4", Description: "Fourth hob ring for boiling/frying"},
	}
	for i := range apps {
		apps[i].ID = int64(i + 1)
		apps[i].IsDefault = true
	}
	return apps
}

// DefaultFoodItems returns the built-in food items with IDs starting at 1.
func DefaultFoodItems() []model.FoodItem {
	items := []model.FoodItem{
		{Name: "Chicken", Description: "Whole chicken for roasting"},
		{Name: "Beef", Description: "Beef joint for roasting"},
		{Name: "Lamb", Description: "Lamb leg or shoulder for roasting"},
		{Name: "Pork", Description: "Pork joint for roasting"},
		{Name: "Potatoes", Description: "Roast potatoes"},
		{Name: "Carrots", Description: "Roasted or boiled carrots"},
		{Name: "Broccoli", Description: "Steamed or boiled broccoli"},
		{Name: "Brussels Sprouts", Description: "Roasted or boiled Brussels sprouts"},
		{Name: "Cauliflower", Description: "Cauliflower cheese or roasted"},
		{Name: "Yorkshire Pudding", Description: "Traditional Yorkshire pudding"},
		{Name: "Gravy", Description: "Meat gravy"},
		{Name: "Stuffing", Description: "Bread stuffing"},
	}
	for i := range items {
		items[i].ID = int64(i + 1)
		items[i].IsDefault = true
	}
	return items
}
