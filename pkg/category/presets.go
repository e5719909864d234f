package category

import "github.com/manatly/manat/pkg/snapshot"

// categoryPresets holds the fixed, ordered preset catalog per archetype.
// Ids are namespaced by archetype so they never collide with custom ids.
var categoryPresets = map[snapshot.UserType][]snapshot.Category{
	snapshot.UserTypeStudent: {
		{ID: "student-food", Name: "Food", Description: "Cafeteria, snacks and groceries", Group: snapshot.GroupDaily},
		{ID: "student-transport", Name: "Transport", Description: "Bus, metro and taxi rides", Group: snapshot.GroupDaily},
		{ID: "student-coffee", Name: "Coffee & breaks", Description: "Coffee, tea and study breaks", Group: snapshot.GroupDaily},
		{ID: "student-entertainment", Name: "Entertainment", Description: "Cinema, games and going out", Group: snapshot.GroupDaily},
		{ID: "student-books", Name: "Books & courses", Description: "Textbooks, courses and supplies", Group: snapshot.GroupMonthly},
		{ID: "student-phone", Name: "Phone & internet", Description: "Mobile plan and internet", Group: snapshot.GroupMonthly},
		{ID: "student-rent", Name: "Dorm & rent", Description: "Dormitory or shared flat", Group: snapshot.GroupMonthly},
	},
	snapshot.UserTypeWorker: {
		{ID: "worker-food", Name: "Food", Description: "Lunch and groceries", Group: snapshot.GroupDaily},
		{ID: "worker-transport", Name: "Transport", Description: "Commute and fuel", Group: snapshot.GroupDaily},
		{ID: "worker-coffee", Name: "Coffee & breaks", Description: "Coffee and small breaks", Group: snapshot.GroupDaily},
		{ID: "worker-clothing", Name: "Clothing", Description: "Work and casual clothing", Group: snapshot.GroupMonthly},
		{ID: "worker-rent", Name: "Rent & utilities", Description: "Housing, electricity and water", Group: snapshot.GroupMonthly},
		{ID: "worker-phone", Name: "Phone & internet", Description: "Mobile plan and internet", Group: snapshot.GroupMonthly},
		{ID: "worker-savings", Name: "Savings", Description: "Monthly savings contribution", Group: snapshot.GroupMonthly},
	},
	snapshot.UserTypeParent: {
		{ID: "parent-groceries", Name: "Groceries", Description: "Family groceries", Group: snapshot.GroupDaily},
		{ID: "parent-transport", Name: "Transport", Description: "Family commute and fuel", Group: snapshot.GroupDaily},
		{ID: "parent-children", Name: "Children", Description: "School, activities and allowances", Group: snapshot.GroupDaily},
		{ID: "parent-health", Name: "Health", Description: "Medicine and doctor visits", Group: snapshot.GroupMonthly},
		{ID: "parent-rent", Name: "Rent & utilities", Description: "Housing, electricity and water", Group: snapshot.GroupMonthly},
		{ID: "parent-education", Name: "Education", Description: "Tuition and courses", Group: snapshot.GroupMonthly},
		{ID: "parent-savings", Name: "Savings", Description: "Family savings contribution", Group: snapshot.GroupMonthly},
	},
}

// Presets returns the fixed ordered preset sequence for the archetype. The
// result is a copy; callers may not mutate the catalog.
func Presets(userType snapshot.UserType) []snapshot.Category {
	return append([]snapshot.Category(nil), categoryPresets[userType]...)
}
