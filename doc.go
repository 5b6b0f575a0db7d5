// Package baaskit is a client for a multi-tenant Backend-as-a-Service that
// exposes account, messaging and public board endpoints over HTTP.
//
// Every response body is a uniform envelope, either SUCCESS with a data
// payload or FAIL with a machine-readable error code. The client parses the
// envelope once, hands SUCCESS data back typed, and turns FAIL envelopes into
// an [*APIError] classified into a small set of kinds callers can branch on.
//
// # Quick Start
//
//	client, err := baaskit.New(
//	    baaskit.WithBaseURL("https://api.example.com"),
//	    baaskit.WithProjectID("my-project"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	if _, err := client.Account().Login(ctx, baaskit.LoginRequest{
//	    UserID:   "alice",
//	    Password: "secret",
//	}); err != nil {
//	    return err
//	}
//
//	me, err := client.Account().Info(ctx)
//
// # Sessions
//
// Authentication is cookie based. The server sets access_token (or
// access_token_{projectId} for project users) on login and clears it on
// logout. The client keeps cookies in its own jar and sends them on every
// request; nothing is persisted outside the process. [WithSessionToken]
// seeds the jar with a token obtained earlier.
//
// # Project Identifier
//
// Messaging and board endpoints are scoped to a project. The identifier is
// taken from [WithProjectID] when given, otherwise from the environment,
// see [ResolveProjectID] for the exact precedence:
//
//	PROJECT_ID > REACT_APP_PROJECT_ID > NEXT_PUBLIC_PROJECT_ID > VITE_PROJECT_ID
//
// It is resolved on first use and cached for the lifetime of the client.
//
// # Errors
//
// Errors returned by the client are one of:
//
//   - [*APIError]: the server answered with a FAIL envelope
//   - [*InputError]: input was rejected locally (for example a bad phone number)
//   - [*ConfigurationError]: the project identifier could not be resolved
//   - [*MalformedResponseError]: the body was not a valid envelope
//   - [*NetworkError]: no response was received
//
// Match them with errors.Is against the sentinels:
//
//	_, err := client.Account().Signup(ctx, req)
//	switch {
//	case errors.Is(err, baaskit.ErrConflict):
//	    // user id already taken
//	case errors.Is(err, baaskit.ErrValidation):
//	    for _, d := range baaskit.FieldErrors(err) {
//	        fmt.Println(d.Field, d.Reason)
//	    }
//	case errors.Is(err, baaskit.ErrAuth):
//	    // back to the login form
//	}
//
// Nothing is retried automatically.
//
// # Observing Calls
//
// [WithCallObserver] registers a function that receives a [CallResult] after
// every request. The state package builds loading/error/data tracking on top
// of plain method calls for UI layers.
package baaskit
