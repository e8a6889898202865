package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDifficultyPoints(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10, DifficultyEasy.Points())
	assert.Equal(t, 20, DifficultyMedium.Points())
	assert.Equal(t, 30, DifficultyHard.Points())
	assert.Equal(t, 0, Difficulty("legendary").Points())
	assert.False(t, Difficulty("").IsValid())
}

func TestParseDifficulty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Difficulty
		wantErr bool
	}{
		{name: "empty defaults to medium", input: "", want: DifficultyMedium},
		{name: "mixed case", input: " Hard ", want: DifficultyHard},
		{name: "easy", input: "easy", want: DifficultyEasy},
		{name: "unknown", input: "extreme", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDifficulty(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDifficulty)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewFlashCard(t *testing.T) {
	t.Parallel()

	card, err := NewFlashCard("  Capital of France?  ", " Paris ", DifficultyEasy)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, card.ID)
	assert.Equal(t, "Capital of France?", card.Question)
	assert.Equal(t, "Paris", card.Answer)

	_, err = NewFlashCard("   ", "Paris", DifficultyEasy)
	assert.ErrorIs(t, err, ErrCardQuestionEmpty)

	_, err = NewFlashCard("Capital of France?", "", DifficultyEasy)
	assert.ErrorIs(t, err, ErrCardAnswerEmpty)

	_, err = NewFlashCard("Capital of France?", "Paris", Difficulty("impossible"))
	assert.True(t, errors.Is(err, ErrInvalidDifficulty))
}

func TestFlashCardMatches(t *testing.T) {
	t.Parallel()

	card := FlashCard{Question: "Capital of France?", Answer: "Paris", Difficulty: DifficultyEasy}

	assert.True(t, card.Matches("paris"))
	assert.True(t, card.Matches("  PARIS\t"))
	assert.False(t, card.Matches("Lyon"))
	assert.False(t, card.Matches(""))
}
