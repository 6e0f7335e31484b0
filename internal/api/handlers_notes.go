package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daybook/internal/services"
)

func (handler *Handler) CreateNote(c *fiber.Ctx) error {
	actor, _ := currentUser(c)
	input := noteCreateRequest{}
	if err := c.BodyParser(&input); err != nil {
		return invalidInput(c)
	}
	date, err := parseOptionalDate(input.Date)
	if err != nil {
		return invalidInput(c)
	}

	handler.ensureDependencies()
	note, err := handler.noteService.Create(actor, services.NoteInput{
		Type:      input.Type,
		Text:      input.Text,
		Date:      date,
		Completed: input.Completed,
	}, handler.today())
	if err != nil {
		return respondServiceError(c, err, "failed to create note")
	}

	slog.Info("note created", "note_id", note.ID, "user_id", actor.ID, "type", note.Type)
	return c.Status(fiber.StatusCreated).JSON(newNoteView(note))
}

func (handler *Handler) ListNotes(c *fiber.Ctx) error {
	handler.ensureDependencies()
	notes, err := handler.noteService.ListAll()
	if err != nil {
		return respondServiceError(c, err, "failed to load notes")
	}
	return c.JSON(newNoteViews(notes))
}

// ListMyNotes accepts sorting, period, type and completed query parameters.
func (handler *Handler) ListMyNotes(c *fiber.Ctx) error {
	actor, _ := currentUser(c)
	query, err := services.ParseNoteQuery(services.NoteQueryParams{
		Sorting:   c.Query("sorting"),
		Period:    c.Query("period"),
		Type:      c.Query("type"),
		Completed: c.Query("completed"),
	})
	if err != nil {
		return respondServiceError(c, err, "")
	}

	handler.ensureDependencies()
	notes, err := handler.noteService.ListForUser(actor.ID, query, handler.today())
	if err != nil {
		return respondServiceError(c, err, "failed to load notes")
	}
	return c.JSON(newNoteViews(notes))
}

func (handler *Handler) GetNote(c *fiber.Ctx) error {
	actor, _ := currentUser(c)
	noteID, err := parseIDParam(c, "id")
	if err != nil {
		return invalidInput(c)
	}

	handler.ensureDependencies()
	note, err := handler.noteService.Get(actor, noteID)
	if err != nil {
		return respondServiceError(c, err, "failed to load note")
	}
	return c.JSON(newNoteView(note))
}

func (handler *Handler) UpdateNote(c *fiber.Ctx) error {
	actor, _ := currentUser(c)
	noteID, err := parseIDParam(c, "id")
	if err != nil {
		return invalidInput(c)
	}
	input := noteUpdateRequest{}
	if err := c.BodyParser(&input); err != nil {
		return invalidInput(c)
	}
	date, err := parseOptionalDate(input.Date)
	if err != nil {
		return invalidInput(c)
	}

	handler.ensureDependencies()
	note, err := handler.noteService.Update(actor, noteID, services.NotePatch{
		Type:      input.Type,
		Text:      input.Text,
		Date:      date,
		Completed: input.Completed,
	}, handler.today())
	if err != nil {
		return respondServiceError(c, err, "failed to update note")
	}
	return c.JSON(newNoteView(note))
}

func (handler *Handler) DeleteNote(c *fiber.Ctx) error {
	actor, _ := currentUser(c)
	noteID, err := parseIDParam(c, "id")
	if err != nil {
		return invalidInput(c)
	}

	handler.ensureDependencies()
	if err := handler.noteService.Delete(actor, noteID); err != nil {
		return respondServiceError(c, err, "failed to delete note")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
