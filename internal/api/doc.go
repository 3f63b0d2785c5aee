// Package api implements staffgate's HTTP JSON API.
//
// Routes live under /api. Registration, login, health, metrics and the
// reference lists are public; dashboard, profile and audit sit behind the
// bearer-token gate in authMiddleware:
//
//   - no usable "Authorization: Bearer" header: 403 missing_credential
//   - a token that fails verification: 401 invalid_token
//
// Handlers behind the gate read the caller from IdentityFromContext and
// never trust an account id from the request body.
//
// Errors use a flat envelope:
//
//	{"status": 400, "code": "validation_failed", "message": "email is required", "field": "email"}
//
// Server lifecycle matches the other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
