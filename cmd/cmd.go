// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// booksCommand handles catalog operations
func booksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "books",
		Aliases: []string{"book", "b"},
		Usage:   "Browse and manage the book catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all books in the catalog",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of books to print",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save API response locally",
					},
				},
				Action: r.BooksList,
			},
			{
				Name:  "get",
				Usage: "Show a single book",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.BooksGet,
			},
			{
				Name:  "create",
				Usage: "Add a book to the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Book title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "author",
						Usage:    "Book author",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "isbn",
						Usage: "ISBN",
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Book description",
					},
					&cli.IntFlag{
						Name:  "year",
						Usage: "Publication year",
					},
				},
				Action: r.BooksCreate,
			},
			{
				Name:  "update",
				Usage: "Update a book's fields",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "Book title",
					},
					&cli.StringFlag{
						Name:  "author",
						Usage: "Book author",
					},
					&cli.StringFlag{
						Name:  "isbn",
						Usage: "ISBN",
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Book description",
					},
					&cli.IntFlag{
						Name:  "year",
						Usage: "Publication year",
					},
				},
				Action: r.BooksUpdate,
			},
			{
				Name:  "delete",
				Usage: "Remove a book from the catalog",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.BooksDelete,
			},
		},
	}
}

// listsCommand handles reading list operations
func listsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "lists",
		Aliases: []string{"list", "l"},
		Usage:   "Manage reading lists",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List your reading lists",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.ListsList,
			},
			{
				Name:  "show",
				Usage: "Show a reading list with its books",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.ListsShow,
			},
			{
				Name:  "create",
				Usage: "Create a new reading list",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "description",
						Usage: "Reading list description",
					},
				},
				Action: r.ListsCreate,
			},
			{
				Name:  "rename",
				Usage: "Rename a reading list or change its description",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "New list name",
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "New list description",
					},
				},
				Action: r.ListsRename,
			},
			{
				Name:  "delete",
				Usage: "Delete a reading list",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.ListsDelete,
			},
			{
				Name:  "add",
				Usage: "Add a book to a reading list",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "list-id",
						Usage:    "Reading list ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "book-id",
						Usage:    "Book ID to add",
						Required: true,
					},
				},
				Action: r.ListsAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a book from a reading list",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "list-id",
						Usage:    "Reading list ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "book-id",
						Usage:    "Book ID to remove",
						Required: true,
					},
				},
				Action: r.ListsRemove,
			},
		},
	}
}

// recsCommand handles recommendation operations
func recsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recs",
		Aliases: []string{"recommendations"},
		Usage:   "Fetch book recommendations",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Recommendations for a single book",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "book-id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.RecsGet,
			},
			{
				Name:  "suggest",
				Usage: "Recommendations for every book on a reading list",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "list-id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.RecsSuggest,
			},
		},
	}
}
