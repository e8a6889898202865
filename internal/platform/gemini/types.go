package gemini

import (
	"context"

	"google.golang.org/genai"
)

// modelClient is the subset of *genai.Models used by the generator.
type modelClient interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// distractorPromptData is passed to the distractor prompt template
type distractorPromptData struct {
	CorrectAnswer string
	Count         int
}

// parsePromptData is passed to the content parsing prompt template
type parsePromptData struct {
	Text     string
	MaxCards int
}

// DistractorResponse is the structured output requested for distractors
type DistractorResponse struct {
	Distractors []string `json:"distractors"`
}

// CardsResponse is the structured output requested for content parsing
type CardsResponse struct {
	// Cards is the array of flashcards extracted from the text
	Cards []CardSchema `json:"cards"`
}

// CardSchema represents a single flashcard in the API response
type CardSchema struct {
	// Question is the prompt side of the flashcard
	Question string `json:"question"`

	// Answer is the expected response
	Answer string `json:"answer"`

	// Hint is an optional hint to help the user recall the answer
	Hint string `json:"hint,omitempty"`

	// Category is an optional label for the flashcard
	Category string `json:"category,omitempty"`

	// Difficulty is one of easy, medium or hard
	Difficulty string `json:"difficulty,omitempty"`
}

// distractorSchema constrains the distractor response to a string array.
var distractorSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"distractors": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"distractors"},
}

// cardsSchema constrains the parse response to a list of cards.
var cardsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"cards": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"question":   {Type: genai.TypeString},
					"answer":     {Type: genai.TypeString},
					"hint":       {Type: genai.TypeString},
					"category":   {Type: genai.TypeString},
					"difficulty": {Type: genai.TypeString, Enum: []string{"easy", "medium", "hard"}},
				},
				Required: []string{"question", "answer"},
			},
		},
	},
	Required: []string{"cards"},
}
