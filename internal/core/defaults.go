package core

// DefaultCategories are seeded on first run and can never be deleted.
// The storage schema files carry the same rows; keep them in sync.
var DefaultCategories = []Category{
	{Name: "Salary", Color: "#4CAF50", Kind: Income, IsDefault: true},
	{Name: "Business", Color: "#8BC34A", Kind: Income, IsDefault: true},
	{Name: "Gifts", Color: "#CDDC39", Kind: Income, IsDefault: true},
	{Name: "Investment", Color: "#009688", Kind: Income, IsDefault: true},

	{Name: "Food", Color: "#FF9800", Kind: Expense, IsDefault: true},
	{Name: "Transport", Color: "#03A9F4", Kind: Expense, IsDefault: true},
	{Name: "Shopping", Color: "#E91E63", Kind: Expense, IsDefault: true},
	{Name: "Bills", Color: "#9C27B0", Kind: Expense, IsDefault: true},
	{Name: "Entertainment", Color: "#F44336", Kind: Expense, IsDefault: true},
	{Name: "Health", Color: "#FF5722", Kind: Expense, IsDefault: true},
	{Name: "Education", Color: "#3F51B5", Kind: Expense, IsDefault: true},

	{Name: "Other", Color: "#9E9E9E", Kind: Both, IsDefault: true},
	{Name: UncategorizedName, Color: UncategorizedColor, Kind: Both, IsDefault: true},
}

// CategoryPalette is the set of colors offered when creating a category.
var CategoryPalette = []string{
	"#4CAF50", "#8BC34A", "#CDDC39", "#FF9800",
	"#F44336", "#E91E63", "#9C27B0", "#3F51B5",
	"#03A9F4", "#009688", "#FF5722", "#9E9E9E",
}

// PaletteColor picks a palette color for the n-th category, wrapping
// around when the palette runs out.
func PaletteColor(n int) string {
	if n < 0 {
		n = -n
	}
	return CategoryPalette[n%len(CategoryPalette)]
}

// IsDefaultCategoryName reports whether name belongs to a seeded category.
func IsDefaultCategoryName(name string) bool {
	for _, c := range DefaultCategories {
		if c.Name == name {
			return true
		}
	}
	return false
}
