// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing reading lists:
//  1. [ReadingListView] : Browse and select the user's reading lists
//  2. [BookListView] : Preview books on the selected list
//  3. [ConfirmView] : Confirm the recommendation run
//  4. [SuggestView] : Monitor real-time progress updates
//  5. [ResultView] : Display fetched recommendations and failures
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the ShelfEngine, providing non-blocking status reporting during suggestion runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
