// Package services implements the HTTP client for the recommendation backend.
//
// # Client
//
// [Client] wraps an [http.Client] and exposes one method per backend endpoint:
//
//   - GET  /api/genres             : [Client.Genres]
//   - GET  /api/filter-suggestions : [Client.FilterSuggestions]
//   - POST /api/recommendations    : [Client.Recommend]
//   - GET  /api/user-playlists     : [Client.UserPlaylists]
//   - POST /api/create-playlist    : [Client.CreatePlaylist]
//   - POST /api/add-to-playlist    : [Client.AddToPlaylist]
//
// [Client.Get] and [Client.Post] return the raw [APIResponse] and back the "api" debugging command.
//
// # Authentication
//
// [NewClientFromConfig] attaches an optional bearer token through an [oauth2.StaticTokenSource]
// and an optional session cookie. Requests are throttled with a [rate.Limiter] when
// requests_per_second is positive.
//
// # Error Handling
//
// Non-2xx responses become [*APIError], whose Message is the body's "error" field.
// APIError unwraps to a sentinel from the shared package:
//   - [shared.ErrNotAuthenticated] : 401
//   - [shared.ErrServiceUnavailable] : 503
//   - [shared.ErrAPIRequest] : everything else
//
// Transport failures wrap [shared.ErrAPIRequest]; undecodable bodies wrap [shared.ErrDecode].
// [ErrorMessage] picks the backend message or a caller-supplied fallback for display.
package services
