package application

import (
	"errors"
	"testing"

	"github.com/AzielCF/az-study/studyengine/domain"
)

func TestStripFenceWithLanguageTag(t *testing.T) {
	raw := "```json\n{\"front\":\"a\"}\n```"
	got := StripFence(raw)
	if got != `{"front":"a"}` {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestStripFenceWithoutLanguageTag(t *testing.T) {
	raw := "```\n[1,2]\n```"
	if got := StripFence(raw); got != "[1,2]" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestStripFencePlainTextPassesThrough(t *testing.T) {
	raw := "  {\"title\":\"x\"}  "
	if got := StripFence(raw); got != `{"title":"x"}` {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestParseModelJSONFencedFlashcards(t *testing.T) {
	raw := "```json\n[{\"front\":\"Q1\",\"back\":\"A1\"},{\"front\":\"Q2\",\"back\":\"A2\"}]\n```"

	var cards []domain.Flashcard
	if err := ParseModelJSON(raw, &cards); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(cards) != 2 || cards[0].Front != "Q1" || cards[1].Back != "A2" {
		t.Fatalf("unexpected cards: %+v", cards)
	}
}

func TestParseModelJSONUnfenced(t *testing.T) {
	var quiz domain.Quiz
	raw := `{"title":"Bio","questions":[{"text":"q","options":["a","b","c","d"],"correctAnswer":2,"explanation":"e"}]}`
	if err := ParseModelJSON(raw, &quiz); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if quiz.Title != "Bio" || quiz.Questions[0].CorrectAnswer != 2 {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}
}

func TestParseModelJSONMalformed(t *testing.T) {
	var cards []domain.Flashcard
	err := ParseModelJSON("Here are your flashcards: [{front: broken]", &cards)
	if err == nil {
		t.Fatal("expected error for malformed payload")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Stage != StageDecode {
		t.Fatalf("unexpected stage: %s", perr.Stage)
	}
	if perr.Raw == "" {
		t.Fatal("raw output should be preserved for logging")
	}
}
