package handlers

import (
	"testing"

	"thywilluche/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestScoreQuiz(t *testing.T) {
	questions := []models.GameQuestion{
		{ID: 1, Type: models.QuestionMultipleChoice, CorrectAnswer: datatypes.JSON(`"B"`), Points: 10},
		{ID: 2, Type: models.QuestionTrueFalse, CorrectAnswer: datatypes.JSON(`"true"`), Points: 5},
		{ID: 3, Type: models.QuestionShortAnswer, CorrectAnswer: datatypes.JSON(`"Gatsby"`), Points: 20},
	}

	t.Run("AllCorrect", func(t *testing.T) {
		score := ScoreQuiz(questions, map[string]string{
			"1": "B",
			"2": "true",
			"3": "gatsby",
		})
		assert.Equal(t, 35, score)
	})

	t.Run("PartiallyCorrect", func(t *testing.T) {
		score := ScoreQuiz(questions, map[string]string{
			"1": "A",
			"2": "true",
		})
		assert.Equal(t, 5, score)
	})

	t.Run("UnansweredQuestionsScoreNothing", func(t *testing.T) {
		assert.Equal(t, 0, ScoreQuiz(questions, map[string]string{}))
	})

	t.Run("UnknownQuestionKeysIgnored", func(t *testing.T) {
		score := ScoreQuiz(questions, map[string]string{"99": "B"})
		assert.Equal(t, 0, score)
	})
}

func TestAnswerMatches(t *testing.T) {
	t.Run("ChoiceAnswersMatchExactly", func(t *testing.T) {
		q := models.GameQuestion{Type: models.QuestionMultipleChoice, CorrectAnswer: datatypes.JSON(`"B"`)}
		assert.True(t, AnswerMatches(q, "B"))
		assert.True(t, AnswerMatches(q, " B "))
		assert.False(t, AnswerMatches(q, "b"))
	})

	t.Run("ShortAnswersMatchCaseInsensitively", func(t *testing.T) {
		q := models.GameQuestion{Type: models.QuestionShortAnswer, CorrectAnswer: datatypes.JSON(`"Daisy Buchanan"`)}
		assert.True(t, AnswerMatches(q, "daisy buchanan"))
		assert.True(t, AnswerMatches(q, "  DAISY BUCHANAN  "))
		assert.False(t, AnswerMatches(q, "Daisy"))
	})

	t.Run("ArrayOfAcceptedAnswers", func(t *testing.T) {
		q := models.GameQuestion{Type: models.QuestionShortAnswer, CorrectAnswer: datatypes.JSON(`["Nick", "Nick Carraway"]`)}
		assert.True(t, AnswerMatches(q, "nick"))
		assert.True(t, AnswerMatches(q, "Nick Carraway"))
		assert.False(t, AnswerMatches(q, "Tom"))
	})

	t.Run("MissingCorrectAnswerNeverMatches", func(t *testing.T) {
		q := models.GameQuestion{Type: models.QuestionShortAnswer}
		assert.False(t, AnswerMatches(q, "anything"))
	})
}
