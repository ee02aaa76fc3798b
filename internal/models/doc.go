// Package models defines domain entities and persistence interfaces for the crate recommendation dashboard.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs exchanged with the recommendation backend
//   - [FilterRequest] : Validated recommendation filters sent to the backend
//   - [Track] : Recommended track with optional preview and cover art
//   - [Playlist] : User playlist listing entry
//   - [CreatedPlaylist], [PlaylistUpdate] : Results of the two save operations
//   - [FilterSuggestion] : Backend-provided tempo/energy presets with sample tracks
//   - [PlaylistSaveRequest] : Selected track URIs paired with a [SaveTarget]
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Feedback] : Dashboard feedback held in a local outbox
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
