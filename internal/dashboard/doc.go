// Package dashboard holds the state and workflows of the recommendation dashboard.
//
// The [Controller] composes the components and is the only entry point for changing state:
//   - [FilterForm] and [BuildFilterRequest] : validated recommendation filters
//   - [GenreInput] : genre entry with prefix suggestions and removable tags
//   - [Recommendations] : the idle/loading/success/empty/failed request state and the last result set
//   - [Selection] : selected track URIs and the select-all control
//   - [SaveWorkflow] : the create-new / append-to-existing playlist modal
//   - [Notifier] : transient notifications, each with its own expiry
//   - [FeedbackForm] : rating and comments
//
// Nothing in this package renders or performs I/O itself; network calls go through [Backend] and
// feedback is stored through [FeedbackStore].
package dashboard
