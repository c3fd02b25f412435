package notes

import (
	"context"

	"note-inbox/cmd/devstore/handlers/handlerutil"
	"note-inbox/internal/config"
	"note-inbox/internal/services/notes"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Service defines the interface for notes service
type Service interface {
	Create(ctx context.Context, req notes.CreateNoteRequest) (*notes.Note, error)
	List(ctx context.Context, req notes.ListNotesRequest) (*notes.ListNotesResponse, error)
	Update(ctx context.Context, id int64, req notes.UpdateNoteRequest) (*notes.Note, error)
	Delete(ctx context.Context, id int64) error
	Tags(ctx context.Context) ([]string, error)
	DetailedTags(ctx context.Context) ([]notes.TagStat, error)
	Comments(ctx context.Context, noteID int64) ([]*notes.Comment, error)
	AddComment(ctx context.Context, noteID int64, req notes.CreateCommentRequest) (*notes.Comment, error)
}

// Handlers contains the notes HTTP handlers
type Handlers struct {
	service   Service
	validator *validator.Validate
	shape     string
}

// NewHandlers creates new notes handlers. shape selects whether list
// responses are a bare array or the {notes, offset, hasMore} envelope.
func NewHandlers(service Service, validator *validator.Validate, shape string) *Handlers {
	return &Handlers{
		service:   service,
		validator: validator,
		shape:     shape,
	}
}

// Create handles note creation
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req notes.CreateNoteRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Create"); err != nil {
		return err
	}

	note, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Create", nil)
	}

	return c.Status(fiber.StatusCreated).JSON(note)
}

// List handles notes listing with offset pagination
func (h *Handlers) List(c *fiber.Ctx) error {
	var req notes.ListNotesRequest
	if err := handlerutil.ParseAndValidateQuery(c, &req, h.validator, "List"); err != nil {
		return err
	}

	resp, err := h.service.List(c.UserContext(), req)
	if err != nil {
		return handlerutil.HandleServiceError(err, "List", nil)
	}

	if h.shape == config.ShapeEnvelope {
		return c.JSON(resp)
	}
	return c.JSON(resp.Notes)
}

// Update handles note updates
func (h *Handlers) Update(c *fiber.Ctx) error {
	noteID, err := handlerutil.ParseNoteID(c, "Update")
	if err != nil {
		return err
	}

	var req notes.UpdateNoteRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Update"); err != nil {
		return err
	}

	note, err := h.service.Update(c.UserContext(), noteID, req)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Update", &noteID)
	}

	return c.JSON(note)
}

// Delete handles note deletion
func (h *Handlers) Delete(c *fiber.Ctx) error {
	noteID, err := handlerutil.ParseNoteID(c, "Delete")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.UserContext(), noteID); err != nil {
		return handlerutil.HandleServiceError(err, "Delete", &noteID)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Tags lists tag names, most used first
func (h *Handlers) Tags(c *fiber.Ctx) error {
	tags, err := h.service.Tags(c.UserContext())
	if err != nil {
		return handlerutil.HandleServiceError(err, "Tags", nil)
	}
	return c.JSON(tags)
}

// DetailedTags lists tag usage statistics
func (h *Handlers) DetailedTags(c *fiber.Ctx) error {
	stats, err := h.service.DetailedTags(c.UserContext())
	if err != nil {
		return handlerutil.HandleServiceError(err, "DetailedTags", nil)
	}
	return c.JSON(stats)
}

// Comments lists the comments of a note
func (h *Handlers) Comments(c *fiber.Ctx) error {
	noteID, err := handlerutil.ParseNoteID(c, "Comments")
	if err != nil {
		return err
	}

	comments, err := h.service.Comments(c.UserContext(), noteID)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Comments", &noteID)
	}
	return c.JSON(comments)
}

// AddComment attaches a comment to a note
func (h *Handlers) AddComment(c *fiber.Ctx) error {
	noteID, err := handlerutil.ParseNoteID(c, "AddComment")
	if err != nil {
		return err
	}

	var req notes.CreateCommentRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "AddComment"); err != nil {
		return err
	}

	comment, err := h.service.AddComment(c.UserContext(), noteID, req)
	if err != nil {
		return handlerutil.HandleServiceError(err, "AddComment", &noteID)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
