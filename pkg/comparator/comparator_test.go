package comparator

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"shopquery-be/pkg/productdata"
)

func sampleProducts() []ProductContext {
	return []ProductContext{
		{
			Snapshot: productdata.Snapshot{
				Id:          "B00A",
				Name:        "Trail Runner X",
				Brand:       "Acme",
				Price:       89.99,
				Currency:    "USD",
				Rating:      4.5,
				ReviewCount: 812,
				Description: "Lightweight trail running shoe.",
				Features:    []string{"breathable mesh", "rock plate"},
			},
			Reviews: []productdata.Review{
				{Rating: 5, Title: "Great grip", Body: "Held up on wet rock."},
			},
		},
		{
			Snapshot: productdata.Snapshot{
				Id:     "B00B",
				Name:   "Road Glide 2",
				Brand:  "Contoso",
				Price:  119.00,
				Rating: 4.1,
			},
		},
	}
}

func TestBuildPromptIncludesProductContext(t *testing.T) {
	prompt := BuildPrompt(sampleProducts(), "which one for trails?", "running shoes")

	assert.Contains(t, prompt, `looking for: "running shoes"`)
	assert.Contains(t, prompt, "PRODUCT 1:")
	assert.Contains(t, prompt, "PRODUCT 2:")
	assert.Contains(t, prompt, "Name: Trail Runner X")
	assert.Contains(t, prompt, "Name: Road Glide 2")
	assert.Contains(t, prompt, "Price: 89.99 USD")
	assert.Contains(t, prompt, "- breathable mesh")
	assert.Contains(t, prompt, "Title: Great grip")
	assert.Contains(t, prompt, "USER QUESTION: which one for trails?")
}

func TestBuildPromptOverviewWithoutQuestion(t *testing.T) {
	prompt := BuildPrompt(sampleProducts(), "", "running shoes")

	assert.NotContains(t, prompt, "USER QUESTION")
	assert.Contains(t, prompt, "overview of these products")
}

func TestBuildPromptFillsMissingFields(t *testing.T) {
	prompt := BuildPrompt([]ProductContext{{Snapshot: productdata.Snapshot{Name: "Mystery Item"}}}, "", "")

	assert.Contains(t, prompt, "Brand: N/A")
	assert.Contains(t, prompt, "Description: N/A")
}

func TestBuildPromptCapsFeaturesAndReviews(t *testing.T) {
	features := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		features = append(features, fmt.Sprintf("feature-%d", i))
	}
	reviews := make([]productdata.Review, 0, 6)
	for i := 0; i < 6; i++ {
		reviews = append(reviews, productdata.Review{Rating: 4, Title: fmt.Sprintf("review-%d", i), Body: "ok"})
	}

	prompt := BuildPrompt([]ProductContext{{
		Snapshot: productdata.Snapshot{Name: "Packed", Features: features},
		Reviews:  reviews,
	}}, "", "")

	assert.Contains(t, prompt, "feature-4")
	assert.NotContains(t, prompt, "feature-5")
	assert.Contains(t, prompt, "review-2")
	assert.NotContains(t, prompt, "review-3")
}

func TestTruncateLongDescription(t *testing.T) {
	long := strings.Repeat("x", 800)
	prompt := BuildPrompt([]ProductContext{{
		Snapshot: productdata.Snapshot{Name: "Wordy", Description: long},
	}}, "", "")

	assert.Contains(t, prompt, strings.Repeat("x", 500)+"...")
	assert.NotContains(t, prompt, strings.Repeat("x", 501))
}
