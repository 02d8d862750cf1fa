package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/249ali/shelf/internal/models"
	"github.com/249ali/shelf/internal/shared"
	"github.com/urfave/cli/v3"
)

// ListsList lists the user's reading lists.
func (r *Runner) ListsList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	r.logger.Info("listing reading lists")

	lists, err := r.library.ListReadingLists(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(lists, pretty)
	}

	r.writePlain("Found %d reading lists:\n\n", len(lists))
	for i, l := range lists {
		r.writePlain("%d. %s\n", i+1, l.Name)
		if l.Description != "" {
			r.writePlain("   Description: %s\n", l.Description)
		}
		r.writePlain("   ID: %s\n", l.ID)
		r.writePlain("   Books: %d\n", len(l.BookIDs))
		r.writePlain("\n")
	}

	return nil
}

// ListsShow shows a reading list with every book resolved.
func (r *Runner) ListsShow(ctx context.Context, cmd *cli.Command) error {
	listID := cmd.StringArg("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if listID == "" {
		return fmt.Errorf("%w: list id is required", shared.ErrMissingArgument)
	}

	r.logger.Infof("fetching reading list %v", listID)

	list, err := r.library.GetReadingList(ctx, listID)
	if err != nil {
		if errors.Is(err, shared.ErrListNotFound) {
			return fmt.Errorf("%w: %s", shared.ErrListNotFound, listID)
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	books := make([]models.Book, 0, len(list.BookIDs))
	for _, bookID := range list.BookIDs {
		book, err := r.library.GetBook(ctx, bookID)
		if err != nil {
			r.logger.Warn("failed to resolve book", "id", bookID, "error", err)
			continue
		}
		books = append(books, *book)
	}

	if useJSON {
		return r.writeJSON(models.ListExport{List: *list, Books: books}, pretty)
	}

	r.writePlain("Reading list: %s\n", list.Name)
	if list.Description != "" {
		r.writePlain("Description: %s\n", list.Description)
	}
	r.writePlain("Books: %d\n\n", len(list.BookIDs))

	for i, book := range books {
		r.writePlain("%d. %s - %s\n", i+1, book.Author, book.Title)
		if book.PublishedYear > 0 {
			r.writePlain("   Year: %d\n", book.PublishedYear)
		}
	}

	return nil
}

// ListsCreate creates a new reading list.
func (r *Runner) ListsCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	description := cmd.String("description")

	if name == "" {
		return fmt.Errorf("%w: list name is required", shared.ErrMissingArgument)
	}

	r.logger.Infof("creating reading list %v", name)

	list, err := r.library.CreateReadingList(ctx, name, description)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("✓ Reading list created\n")
	r.writePlain("  ID: %s\n", list.ID)
	r.writePlain("  Name: %s\n", list.Name)

	return nil
}

// ListsRename changes a reading list's name or description.
func (r *Runner) ListsRename(ctx context.Context, cmd *cli.Command) error {
	listID := cmd.StringArg("id")
	if listID == "" {
		return fmt.Errorf("%w: list id is required", shared.ErrMissingArgument)
	}

	if !cmd.IsSet("name") && !cmd.IsSet("description") {
		return fmt.Errorf("%w: --name or --description must be set", shared.ErrMissingArgument)
	}

	list, err := r.library.GetReadingList(ctx, listID)
	if err != nil {
		if errors.Is(err, shared.ErrListNotFound) {
			return fmt.Errorf("%w: %s", shared.ErrListNotFound, listID)
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.IsSet("name") {
		list.Name = cmd.String("name")
	}
	if cmd.IsSet("description") {
		list.Description = cmd.String("description")
	}

	r.logger.Infof("updating reading list %v", listID)

	updated, err := r.library.UpdateReadingList(ctx, *list)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("✓ Reading list updated: %s\n", updated.Name)
}

// ListsDelete deletes a reading list.
func (r *Runner) ListsDelete(ctx context.Context, cmd *cli.Command) error {
	listID := cmd.StringArg("id")
	if listID == "" {
		return fmt.Errorf("%w: list id is required", shared.ErrMissingArgument)
	}

	r.logger.Infof("deleting reading list %v", listID)

	if err := r.library.DeleteReadingList(ctx, listID); err != nil {
		if errors.Is(err, shared.ErrListNotFound) {
			return fmt.Errorf("%w: %s", shared.ErrListNotFound, listID)
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("✓ Reading list %s deleted\n", listID)
}

// ListsAdd adds a book to a reading list.
func (r *Runner) ListsAdd(ctx context.Context, cmd *cli.Command) error {
	listID := cmd.String("list-id")
	bookID := cmd.String("book-id")

	r.logger.Infof("adding book %v to list %v", bookID, listID)

	list, err := r.library.AddBookToList(ctx, listID, bookID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("✓ Book added to %s\n", list.Name)
	r.writePlain("  Books on list: %d\n", len(list.BookIDs))

	return nil
}

// ListsRemove removes a book from a reading list.
func (r *Runner) ListsRemove(ctx context.Context, cmd *cli.Command) error {
	listID := cmd.String("list-id")
	bookID := cmd.String("book-id")

	r.logger.Infof("removing book %v from list %v", bookID, listID)

	list, err := r.library.RemoveBookFromList(ctx, listID, bookID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("✓ Book removed from %s\n", list.Name)
	r.writePlain("  Books on list: %d\n", len(list.BookIDs))

	return nil
}
