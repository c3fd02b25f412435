package notes

import "errors"

// ErrNoteNotFound is returned when the note does not exist.
var ErrNoteNotFound = errors.New("note not found")

// ErrEmptyContent is returned when content is empty after sanitizing.
var ErrEmptyContent = errors.New("content is empty")

// ErrCreateNote is returned when note creation fails.
var ErrCreateNote = errors.New("failed to create note")

// ErrUpdateNote is returned when note update fails.
var ErrUpdateNote = errors.New("failed to update note")

// ErrDeleteNote is returned when note deletion fails.
var ErrDeleteNote = errors.New("failed to delete note")

// ErrListNotes is returned when notes listing fails.
var ErrListNotes = errors.New("failed to list notes")

// ErrListTags is returned when tag aggregation fails.
var ErrListTags = errors.New("failed to list tags")

// ErrListComments is returned when comment listing fails.
var ErrListComments = errors.New("failed to list comments")

// ErrAddComment is returned when comment creation fails.
var ErrAddComment = errors.New("failed to add comment")

// ErrInvalidLimit is returned when limit is invalid.
var ErrInvalidLimit = errors.New("invalid limit")
