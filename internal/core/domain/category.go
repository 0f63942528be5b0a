package domain

// UnknownCategoryLabel is shown when a category key is not in the catalogue.
const UnknownCategoryLabel = "Unknown Category"

// Category is a business sector ideas can be generated for.
type Category struct {
	// Key is the stable identifier used in callback data and storage.
	Key string

	// Label is the human-readable name, including its emoji.
	Label string
}

// catalogue is the fixed, ordered set of categories.
var catalogue = []Category{
	{Key: "tech", Label: "🚀 Technology & Software"},
	{Key: "ecommerce", Label: "🛒 E-commerce & Online Business"},
	{Key: "health", Label: "🏥 Health & Wellness"},
	{Key: "food", Label: "🍔 Food & Beverage"},
	{Key: "education", Label: "📚 Education & Training"},
	{Key: "finance", Label: "💰 Finance & Investment"},
	{Key: "marketing", Label: "📱 Marketing & Social Media"},
	{Key: "sustainability", Label: "🌱 Sustainability & Green Business"},
	{Key: "retail", Label: "🏪 Retail & Consumer Goods"},
	{Key: "services", Label: "🔧 Professional Services"},
	{Key: "entertainment", Label: "🎬 Entertainment & Media"},
	{Key: "travel", Label: "✈️ Travel & Tourism"},
}

// Categories returns the catalogue in display order.
// The returned slice is a copy and may be modified by the caller.
func Categories() []Category {
	out := make([]Category, len(catalogue))
	copy(out, catalogue)
	return out
}

// LookupCategory finds a category by key.
func LookupCategory(key string) (Category, bool) {
	for _, c := range catalogue {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryLabel returns the label for key, or UnknownCategoryLabel.
func CategoryLabel(key string) string {
	if c, ok := LookupCategory(key); ok {
		return c.Label
	}
	return UnknownCategoryLabel
}
