package assist

import "strings"

// Article is a self-help guide in the knowledge base.
type Article struct {
	ID          int
	Title       string
	Category    string
	Description string
	Content     string
	Difficulty  string
	ReadTime    string
}

var articles = []Article{
	{ID: 1, Title: "How to Connect to WiFi Network", Category: "Network", Description: "Step-by-step guide to connect your device to the office WiFi", Content: "Follow these steps to connect to the Wajir County WiFi network...", Difficulty: "Easy", ReadTime: "2 min"},
	{ID: 2, Title: "Printer Setup and Troubleshooting", Category: "Hardware", Description: "How to set up printers and resolve common printing issues", Content: "This guide covers printer installation, configuration, and common problems...", Difficulty: "Medium", ReadTime: "5 min"},
	{ID: 3, Title: "Email Configuration Guide", Category: "Email", Description: "Configure your email client for Wajir County email", Content: "Learn how to set up your official email account on various devices...", Difficulty: "Medium", ReadTime: "7 min"},
	{ID: 4, Title: "Password Security Best Practices", Category: "Security", Description: "How to create and manage secure passwords", Content: "Essential tips for maintaining strong password security...", Difficulty: "Easy", ReadTime: "3 min"},
	{ID: 5, Title: "Computer Performance Optimization", Category: "Software", Description: "Tips to improve your computer's speed and performance", Content: "Learn how to optimize your computer for better performance...", Difficulty: "Medium", ReadTime: "10 min"},
	{ID: 6, Title: "Common Software Issues and Solutions", Category: "Software", Description: "Troubleshoot frequent software problems", Content: "Solutions for the most common software issues encountered...", Difficulty: "Easy", ReadTime: "4 min"},
}

// SearchArticles filters the knowledge base by a free-text query and an
// optional category. Both comparisons ignore case; an empty query matches all.
func SearchArticles(query, category string) []Article {
	query = strings.ToLower(strings.TrimSpace(query))
	category = strings.TrimSpace(category)
	out := make([]Article, 0, len(articles))
	for _, article := range articles {
		if category != "" && !strings.EqualFold(category, "all") && !strings.EqualFold(article.Category, category) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(article.Title), query) &&
			!strings.Contains(strings.ToLower(article.Description), query) {
			continue
		}
		out = append(out, article)
	}
	return out
}

// ArticleCategories lists the distinct article categories in catalogue order.
func ArticleCategories() []string {
	seen := map[string]bool{}
	var out []string
	for _, article := range articles {
		if !seen[article.Category] {
			seen[article.Category] = true
			out = append(out, article.Category)
		}
	}
	return out
}
