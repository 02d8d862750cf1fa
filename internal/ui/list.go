package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/249ali/shelf/internal/models"
)

var (
	_ list.Item = readingListItem{}
	_ list.Item = bookItem{}
)

// readingListItem wraps [models.ReadingList] to implement [list.Item].
type readingListItem struct {
	list models.ReadingList
}

func (i readingListItem) FilterValue() string { return i.list.Name }
func (i readingListItem) Title() string       { return i.list.Name }
func (i readingListItem) Description() string {
	desc := fmt.Sprintf("%d books", len(i.list.BookIDs))
	if i.list.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.list.Description)
	}
	return desc
}

// bookItem wraps [models.Book] to implement [list.Item].
type bookItem struct {
	book models.Book
}

func (i bookItem) FilterValue() string { return i.book.Title }
func (i bookItem) Title() string       { return i.book.Title }
func (i bookItem) Description() string {
	desc := i.book.Author
	if i.book.PublishedYear > 0 {
		desc = fmt.Sprintf("%s • %d", desc, i.book.PublishedYear)
	}
	return desc
}
