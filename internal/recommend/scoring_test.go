package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"keeps plus signs", "Hey, show me C++ and Go-lang projects!", []string{"c++", "go", "lang", "projects"}},
		{"only stop-words", "the and a", []string{}},
		{"empty", "", []string{}},
		{"digits survive", "Next.js 14 apps", []string{"next", "js", "14", "apps"}},
		{"non ascii is a separator", "café api", []string{"caf", "api"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.query))
		})
	}
}

func TestScore_TitleTagAndCategoryHint(t *testing.T) {
	planner := Project{Title: "AI Travel Planner", Tags: []string{"Next.js", "OpenAI API"}}
	tictactoe := Project{Title: "TicTacToe", Tags: []string{"Java"}}

	tokens := Tokenize("ai projects")
	assert.Equal(t, []string{"ai", "projects"}, tokens)

	// title +4, tag +3, ai category +2
	assert.InDelta(t, 9.0, Score(tokens, planner), 0.001)
	assert.Equal(t, 0.0, Score(tokens, tictactoe))
}

func TestScore_LiveDemoBase(t *testing.T) {
	p := Project{Title: "Shop", LiveURL: "https://shop.example.com"}

	assert.InDelta(t, 0.75, Score([]string{"nothing"}, p), 0.001)
	assert.InDelta(t, 4.75, Score([]string{"shop"}, p), 0.001)
}

func TestScore_DescriptionMatch(t *testing.T) {
	p := Project{Title: "Portfolio", Description: "Built with Go and Gin"}

	assert.InDelta(t, 2.0, Score([]string{"gin"}, p), 0.001)
}

func TestScore_CategoryNameMustAppearLiterally(t *testing.T) {
	deployed := Project{Title: "Site", Description: "Deployed on Vercel"}
	mobile := Project{Title: "Budget", Tags: []string{"Mobile", "Expo"}}
	plain := Project{Title: "Budget", Tags: []string{"Expo"}}

	// "live" hints the deployed category and the description names it.
	assert.InDelta(t, 3.0, Score([]string{"live"}, deployed), 0.001)
	// "android" hints mobile; the tag list contains "mobile".
	assert.InDelta(t, 2.0, Score([]string{"android"}, mobile), 0.001)
	// Hint words alone earn nothing when the category name is absent.
	assert.Equal(t, 0.0, Score([]string{"android"}, plain))
}

func TestScore_MultiWordHintNeverMatchesAToken(t *testing.T) {
	p := Project{Title: "Budget", Tags: []string{"Mobile"}}

	assert.Equal(t, 0.0, Score(Tokenize("react native"), p))
}

func TestScore_EmptyTagsIsNotAnError(t *testing.T) {
	p := Project{Title: "Notes"}

	assert.InDelta(t, 4.0, Score([]string{"notes"}, p), 0.001)
	assert.Equal(t, 0.0, Score([]string{"react"}, p))
}
