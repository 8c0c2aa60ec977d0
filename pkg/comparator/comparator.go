package comparator

import (
	"context"
	"fmt"
	"strings"

	"shopquery-be/pkg/llm"
	"shopquery-be/pkg/productdata"
)

const (
	maxFeatures      = 5
	maxReviews       = 3
	maxDescription   = 500
	maxReviewExcerpt = 200
)

// ProductContext bundles a product snapshot with its recent reviews for
// the analysis prompt.
type ProductContext struct {
	Snapshot productdata.Snapshot
	Reviews  []productdata.Review
}

// Comparator turns a set of products and an optional user question into
// a conversational analysis using an LLM backend.
type Comparator struct {
	provider llm.LLMProvider
}

func NewComparator(provider llm.LLMProvider) *Comparator {
	return &Comparator{provider: provider}
}

// Analyze answers a question about the given products. An empty question
// yields a general comparison overview instead.
func (c *Comparator) Analyze(ctx context.Context, products []ProductContext, question, searchQuery string) (string, error) {
	prompt := BuildPrompt(products, question, searchQuery)
	answer, err := c.provider.Generate(ctx, prompt,
		llm.WithTemperature(0.7),
		llm.WithMaxTokens(2000),
	)
	if err != nil {
		return "", fmt.Errorf("product analysis failed: %w", err)
	}
	return answer, nil
}

// BuildPrompt assembles the full analysis prompt. Exposed separately so
// prompt shape can be tested without a live model.
func BuildPrompt(products []ProductContext, question, searchQuery string) string {
	var sb strings.Builder

	sb.WriteString(`You are a friendly, helpful shopping assistant. The user was looking for: "`)
	sb.WriteString(searchQuery)
	sb.WriteString("\"\n\nPRODUCT INFORMATION:\n")
	sb.WriteString(buildContext(products))

	if question != "" {
		sb.WriteString("\n\nUSER QUESTION: ")
		sb.WriteString(question)
		sb.WriteString("\n\n")
		sb.WriteString(`SAFETY GUIDELINES:
- Only provide advice based on the product information provided
- Don't make claims about products you don't have information for
- If you're unsure about something, say so rather than guessing
- Don't give medical, legal, or financial advice
- Don't make absolute claims about product performance or guarantees
- Be honest about limitations of the information available

IMPORTANT:
- Answer naturally and conversationally, like a helpful friend
- Keep responses concise but friendly
- Use bullet points for clarity when helpful
- Be direct and honest in your advice
- Always remind users to verify information and read product details

If they ask about features, list the key features naturally.
If they ask about comparison, focus on the main differences.
If they ask about value, give a brief, honest assessment.`)
	} else {
		sb.WriteString("\n\n")
		sb.WriteString(`SAFETY GUIDELINES:
- Only provide advice based on the product information provided
- Don't make claims about products you don't have information for
- If you're unsure about something, say so rather than guessing
- Don't give medical, legal, or financial advice
- Be honest about limitations of the information available

Please give a natural, helpful overview of these products. Focus on:
- Key features and benefits
- Price and value assessment
- Main pros and cons
- Quick recommendation

Keep it conversational and easy to read. Always remind users to verify information and read product details.`)
	}

	return sb.String()
}

func buildContext(products []ProductContext) string {
	parts := make([]string, 0, len(products))

	for i, p := range products {
		var sb strings.Builder
		fmt.Fprintf(&sb, "PRODUCT %d:\n", i+1)
		fmt.Fprintf(&sb, "Name: %s\n", orNA(p.Snapshot.Name))
		fmt.Fprintf(&sb, "Price: %.2f %s\n", p.Snapshot.Price, orNA(p.Snapshot.Currency))
		fmt.Fprintf(&sb, "Rating: %.1f/5\n", p.Snapshot.Rating)
		fmt.Fprintf(&sb, "Total Reviews: %d\n", p.Snapshot.ReviewCount)
		fmt.Fprintf(&sb, "Brand: %s\n", orNA(p.Snapshot.Brand))
		fmt.Fprintf(&sb, "Description: %s\n", truncate(p.Snapshot.Description, maxDescription))

		if len(p.Snapshot.Features) > 0 {
			sb.WriteString("Key Features:\n")
			for _, feature := range capSlice(p.Snapshot.Features, maxFeatures) {
				fmt.Fprintf(&sb, "- %s\n", feature)
			}
		}

		if len(p.Reviews) > 0 {
			sb.WriteString("Recent Reviews:\n")
			for _, review := range capSlice(p.Reviews, maxReviews) {
				fmt.Fprintf(&sb, "- Rating: %.1f/5\n", review.Rating)
				fmt.Fprintf(&sb, "  Title: %s\n", orNA(review.Title))
				fmt.Fprintf(&sb, "  Text: %s\n", truncate(review.Body, maxReviewExcerpt))
			}
		}

		parts = append(parts, sb.String())
	}

	return strings.Join(parts, "\n\n")
}

func capSlice[T any](items []T, max int) []T {
	if len(items) > max {
		return items[:max]
	}
	return items
}

func truncate(s string, max int) string {
	if s == "" {
		return "N/A"
	}
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
