package query

import "strings"

// topicRule maps a knowledge-base category to the query keywords that
// select it. Kept as a plain table so adding a category is a data change.
type topicRule struct {
	category string
	keywords []string
}

var topicRules = []topicRule{
	{"cardiovascular", []string{"cholesterol", "ldl", "hdl", "triglyceride", "lipid", "heart", "cardiovascular", "cardiac"}},
	{"diabetes", []string{"diabetes", "hba1c", "glucose", "blood sugar", "insulin"}},
	{"laboratory", []string{"test", "lab", "result", "value", "normal", "range"}},
	{"treatment", []string{"treatment", "medication", "drug", "therapy", "management"}},
}

// Classify returns the knowledge-base categories a query touches. An
// empty result means the whole knowledge base should be searched.
func Classify(query string) []string {
	q := strings.ToLower(query)
	var categories []string
	for _, rule := range topicRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				categories = append(categories, rule.category)
				break
			}
		}
	}
	return categories
}
