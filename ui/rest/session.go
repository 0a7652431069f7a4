package rest

import (
	"io"

	"github.com/gofiber/fiber/v2"

	domainSession "github.com/AzielCF/az-study/domains/session"
	"github.com/AzielCF/az-study/pkg/utils"
)

type Session struct {
	Service domainSession.ISessionUsecase
}

func InitRestSession(app fiber.Router, service domainSession.ISessionUsecase) Session {
	handler := Session{Service: service}

	group := app.Group("/sessions")
	group.Post("/:id/files", handler.UploadFile)
	group.Get("/:id/files/content", handler.FileContent)
	group.Post("/:id/files/ingest", handler.IngestFiles)
	group.Get("/:id", handler.GetContext)
	group.Post("/:id/chat", handler.Chat)
	group.Delete("/:id", handler.ClearSession)

	return handler
}

func (h *Session) UploadFile(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return respond(c, 400, "BAD_REQUEST", "multipart field 'file' is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return respond(c, 400, "BAD_REQUEST", err.Error())
	}
	defer src.Close()

	blob, err := io.ReadAll(src)
	if err != nil {
		return respond(c, 400, "BAD_REQUEST", err.Error())
	}

	res, err := h.Service.UploadFile(c.UserContext(), domainSession.UploadFileRequest{
		SessionID: c.Params("id"),
		FileName:  fileHeader.Filename,
		MimeType:  fileHeader.Header.Get("Content-Type"),
		Blob:      blob,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "File uploaded",
		Results: res,
	})
}

func (h *Session) FileContent(c *fiber.Ctx) error {
	maxTokens := c.QueryInt("max_tokens", 0)

	content, err := h.Service.FileContent(c.UserContext(), c.Params("id"), maxTokens)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "File content assembled",
		Results: fiber.Map{"content": content},
	})
}

func (h *Session) IngestFiles(c *fiber.Ctx) error {
	results, err := h.Service.IngestFiles(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	if results == nil {
		return respond(c, 404, "NOT_FOUND", "session has no files to ingest")
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Session files ingested",
		Results: results,
	})
}

func (h *Session) GetContext(c *fiber.Ctx) error {
	sess, err := h.Service.GetContext(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Session context fetched",
		Results: sess,
	})
}

func (h *Session) Chat(c *fiber.Ctx) error {
	var req domainSession.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, 400, "BAD_REQUEST", err.Error())
	}
	req.SessionID = c.Params("id")

	reply, err := h.Service.Chat(c.UserContext(), req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Chat reply generated",
		Results: reply,
	})
}

func (h *Session) ClearSession(c *fiber.Ctx) error {
	if err := h.Service.ClearSession(c.UserContext(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Session cleared",
	})
}
