package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/249ali/shelf/internal/models"
	"github.com/249ali/shelf/internal/shared"
	"github.com/urfave/cli/v3"
)

// BooksList lists the catalog with optional limit.
func (r *Runner) BooksList(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")

	r.logger.Infof("listing books with limit %v", limit)

	books, err := r.library.ListBooks(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if limit > 0 && limit < len(books) {
		books = books[:limit]
	}

	if save {
		saveFile := "shelf_books.json"
		data, err := shared.MarshalJSON(books, true)
		if err != nil {
			return fmt.Errorf("failed to marshal books: %w", err)
		}
		if err := os.WriteFile(saveFile, data, 0644); err != nil {
			r.logger.Warn("failed to save books", "error", err)
		} else {
			r.logger.Info("books saved", "file", saveFile)
		}
	}

	if useJSON {
		return r.writeJSON(books, pretty)
	}

	r.writePlain("Found %d books:\n\n", len(books))
	for i, b := range books {
		r.writePlain("%d. %s - %s\n", i+1, b.Author, b.Title)
		r.writePlain("   ID: %s\n", b.ID)
		if b.PublishedYear > 0 {
			r.writePlain("   Year: %d\n", b.PublishedYear)
		}
		if b.ISBN != "" {
			r.writePlain("   ISBN: %s\n", b.ISBN)
		}
		r.writePlain("\n")
	}

	return nil
}

// BooksGet shows a single book.
func (r *Runner) BooksGet(ctx context.Context, cmd *cli.Command) error {
	bookID := cmd.StringArg("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if bookID == "" {
		return fmt.Errorf("%w: book id is required", shared.ErrMissingArgument)
	}

	r.logger.Infof("fetching book %v", bookID)

	book, err := r.library.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, shared.ErrBookNotFound) {
			return fmt.Errorf("%w: %s", shared.ErrBookNotFound, bookID)
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(book, pretty)
	}

	r.writePlain("%s - %s\n", book.Author, book.Title)
	r.writePlain("ID: %s\n", book.ID)
	if book.PublishedYear > 0 {
		r.writePlain("Year: %d\n", book.PublishedYear)
	}
	if book.ISBN != "" {
		r.writePlain("ISBN: %s\n", book.ISBN)
	}
	if book.Description != "" {
		r.writePlain("Description: %s\n", book.Description)
	}

	return nil
}

// BooksCreate adds a book to the catalog.
func (r *Runner) BooksCreate(ctx context.Context, cmd *cli.Command) error {
	book := models.Book{
		Title:         cmd.String("title"),
		Author:        cmd.String("author"),
		ISBN:          cmd.String("isbn"),
		Description:   cmd.String("description"),
		PublishedYear: int(cmd.Int("year")),
	}

	r.logger.Infof("creating book %v by %v", book.Title, book.Author)

	created, err := r.library.CreateBook(ctx, book)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("✓ Book created\n")
	r.writePlain("  ID: %s\n", created.ID)
	r.writePlain("  %s - %s\n", created.Author, created.Title)

	return nil
}

// BooksUpdate overlays the set flags onto the stored book, then PUTs the result.
func (r *Runner) BooksUpdate(ctx context.Context, cmd *cli.Command) error {
	bookID := cmd.StringArg("id")
	if bookID == "" {
		return fmt.Errorf("%w: book id is required", shared.ErrMissingArgument)
	}

	book, err := r.library.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, shared.ErrBookNotFound) {
			return fmt.Errorf("%w: %s", shared.ErrBookNotFound, bookID)
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	changed := false
	if cmd.IsSet("title") {
		book.Title = cmd.String("title")
		changed = true
	}
	if cmd.IsSet("author") {
		book.Author = cmd.String("author")
		changed = true
	}
	if cmd.IsSet("isbn") {
		book.ISBN = cmd.String("isbn")
		changed = true
	}
	if cmd.IsSet("description") {
		book.Description = cmd.String("description")
		changed = true
	}
	if cmd.IsSet("year") {
		book.PublishedYear = int(cmd.Int("year"))
		changed = true
	}

	if !changed {
		return fmt.Errorf("%w: at least one field flag must be set", shared.ErrMissingArgument)
	}

	r.logger.Infof("updating book %v", bookID)

	updated, err := r.library.UpdateBook(ctx, bookID, *book)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("✓ Book updated\n")
	r.writePlain("  %s - %s\n", updated.Author, updated.Title)

	return nil
}

// BooksDelete removes a book from the catalog.
func (r *Runner) BooksDelete(ctx context.Context, cmd *cli.Command) error {
	bookID := cmd.StringArg("id")
	if bookID == "" {
		return fmt.Errorf("%w: book id is required", shared.ErrMissingArgument)
	}

	r.logger.Infof("deleting book %v", bookID)

	if err := r.library.DeleteBook(ctx, bookID); err != nil {
		if errors.Is(err, shared.ErrBookNotFound) {
			return fmt.Errorf("%w: %s", shared.ErrBookNotFound, bookID)
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("✓ Book %s deleted\n", bookID)
}
