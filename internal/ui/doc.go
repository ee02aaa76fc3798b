// Package ui implements the interactive dashboard using bubbletea's Elm architecture.
//
// The TUI has four views over a single [dashboard.Controller]:
//  1. [FilterView] : filter form with genre chips, genre suggestions and filter suggestions
//  2. [ResultsView] : recommended tracks with per-track checkboxes and a select-all toggle
//  3. [SaveView] : modal for creating a playlist or adding to an existing one
//  4. [FeedbackView] : rating and comments
//
// The (view) [Model] owns widgets only. Every state change goes through the controller from Update,
// and backend calls run in commands that report back via the [Msg] union. Notification expiry and the
// genre blur grace period are timers delivered as messages, so a stale timer never touches newer state.
//
// Text fields take printable keys, so form views use tab/enter/ctrl bindings while list views use vim-style keys.
package ui
