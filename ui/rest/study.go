package rest

import (
	"github.com/gofiber/fiber/v2"

	domainStudy "github.com/AzielCF/az-study/domains/study"
	"github.com/AzielCF/az-study/pkg/utils"
)

type Study struct {
	Service domainStudy.IStudyUsecase
}

func InitRestStudy(app fiber.Router, service domainStudy.IStudyUsecase) Study {
	handler := Study{Service: service}

	group := app.Group("/study")
	group.Post("/flashcards", handler.GenerateFlashcards)
	group.Post("/quiz", handler.GenerateQuiz)
	group.Post("/material", handler.GenerateMaterial)
	group.Post("/answer", handler.GenerateAnswer)
	group.Get("/sessions/:id/flashcards", handler.ListFlashcardSets)
	group.Get("/sessions/:id/quizzes", handler.ListQuizzes)
	group.Get("/sessions/:id/notes", handler.ListStudyNotes)

	return handler
}

func (h *Study) GenerateFlashcards(c *fiber.Ctx) error {
	var req domainStudy.GenerateFlashcardsRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, 400, "BAD_REQUEST", err.Error())
	}

	set, err := h.Service.GenerateFlashcards(c.UserContext(), req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Flashcards generated",
		Results: set,
	})
}

func (h *Study) GenerateQuiz(c *fiber.Ctx) error {
	var req domainStudy.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, 400, "BAD_REQUEST", err.Error())
	}

	quiz, err := h.Service.GenerateQuiz(c.UserContext(), req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Quiz generated",
		Results: quiz,
	})
}

func (h *Study) GenerateMaterial(c *fiber.Ctx) error {
	var req domainStudy.GenerateMaterialRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, 400, "BAD_REQUEST", err.Error())
	}

	note, err := h.Service.GenerateStudyMaterial(c.UserContext(), req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Study material generated",
		Results: note,
	})
}

func (h *Study) GenerateAnswer(c *fiber.Ctx) error {
	var req domainStudy.GenerateAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, 400, "BAD_REQUEST", err.Error())
	}

	answer, err := h.Service.GenerateLongAnswer(c.UserContext(), req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Answer generated",
		Results: fiber.Map{"answer": answer},
	})
}

func (h *Study) ListFlashcardSets(c *fiber.Ctx) error {
	sets, err := h.Service.ListFlashcardSets(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Flashcard sets fetched",
		Results: sets,
	})
}

func (h *Study) ListQuizzes(c *fiber.Ctx) error {
	quizzes, err := h.Service.ListQuizzes(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Quizzes fetched",
		Results: quizzes,
	})
}

func (h *Study) ListStudyNotes(c *fiber.Ctx) error {
	notes, err := h.Service.ListStudyNotes(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Study notes fetched",
		Results: notes,
	})
}
