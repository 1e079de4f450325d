// Package categorization maps free-text transaction descriptions onto the fixed category
// taxonomy.
//
// Matching is deterministic keyword matching: the description is lower-cased and the
// category rules are tried in their declared order. The first rule with a keyword that
// occurs as a substring of the description wins, so rule order is part of the contract.
package categorization

import "strings"

// Category is one of the fixed spending categories
type Category string

const (
	Housing        Category = "Housing"
	Transportation Category = "Transportation"
	Food           Category = "Food"
	Healthcare     Category = "Healthcare"
	Entertainment  Category = "Entertainment"
	Shopping       Category = "Shopping"
	Education      Category = "Education"
	Savings        Category = "Savings"
	Debt           Category = "Debt"
	Income         Category = "Income"
	Other          Category = "Other"
)

// Rule binds a category to its ordered keyword list
type Rule struct {
	Category Category
	Keywords []string
}

// defaultRules is the declared category order. Other has no keywords and is the fallback.
var defaultRules = []Rule{
	{Housing, []string{"rent", "mortgage", "property tax", "hoa", "home insurance", "utilities", "electric", "water bill", "gas bill", "internet"}},
	{Transportation, []string{"gas", "fuel", "uber", "lyft", "taxi", "parking", "transit", "metro", "train", "bus fare", "auto insurance", "car wash", "toll"}},
	{Food, []string{"grocery", "groceries", "restaurant", "food", "coffee", "cafe", "lunch", "dinner", "breakfast", "supermarket", "pizza", "doordash", "grubhub"}},
	{Healthcare, []string{"doctor", "hospital", "pharmacy", "medical", "dental", "clinic", "prescription", "health"}},
	{Entertainment, []string{"movie", "cinema", "netflix", "spotify", "hulu", "concert", "theater", "game", "streaming", "entertainment"}},
	{Shopping, []string{"amazon", "walmart", "target", "shopping", "mall", "clothing", "clothes", "electronics", "store"}},
	{Education, []string{"tuition", "school", "course", "university", "college", "textbook", "education", "udemy"}},
	{Savings, []string{"savings", "transfer to savings", "investment", "401k", "roth ira", "brokerage"}},
	{Debt, []string{"loan", "credit card", "debt", "overdraft", "finance charge", "collections"}},
	{Income, []string{"salary", "paycheck", "payroll", "bonus", "dividend", "refund", "freelance", "income"}},
	{Other, nil},
}

// Categorizer resolves descriptions against an ordered rule list
type Categorizer struct {
	rules []Rule
}

// New creates a categorizer over the default taxonomy
func New() *Categorizer {
	return NewWithRules(defaultRules)
}

// NewWithRules creates a categorizer over a custom ordered rule list.
// Keywords are lower-cased and empty keywords are dropped so they cannot match everything.
func NewWithRules(rules []Rule) *Categorizer {
	normalized := make([]Rule, 0, len(rules))
	for _, r := range rules {
		keywords := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" {
				keywords = append(keywords, k)
			}
		}
		normalized = append(normalized, Rule{Category: r.Category, Keywords: keywords})
	}
	return &Categorizer{rules: normalized}
}

// Categorize returns the first category whose keywords occur in the description,
// or Other when nothing matches.
func (c *Categorizer) Categorize(description string) Category {
	desc := strings.ToLower(description)
	if desc == "" {
		return Other
	}
	for _, rule := range c.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(desc, keyword) {
				return rule.Category
			}
		}
	}
	return Other
}

var defaultCategorizer = New()

// Categorize resolves a description with the default taxonomy
func Categorize(description string) Category {
	return defaultCategorizer.Categorize(description)
}

// Categories returns every category in declared order
func Categories() []Category {
	out := make([]Category, len(defaultRules))
	for i, r := range defaultRules {
		out[i] = r.Category
	}
	return out
}

// Keywords returns a copy of a category's default keyword list
func Keywords(c Category) []string {
	for _, r := range defaultRules {
		if r.Category == c {
			return append([]string(nil), r.Keywords...)
		}
	}
	return nil
}

// Valid reports whether c belongs to the fixed taxonomy
func (c Category) Valid() bool {
	for _, r := range defaultRules {
		if r.Category == c {
			return true
		}
	}
	return false
}
