// Package client implements a typed Go client for the fruit exchange API.
//
// Every call on a protected resource goes through the authenticated request
// gateway (see client/auth/transport): the stored access credential is
// attached as a bearer header and a `401 Unauthorized` triggers a single
// refresh-and-retry. The client adds:
//   - Password login (OAuth2 password grant) that begins a session.
//   - Registration with the exchange password rule checked locally.
//   - Logout, which ends the session without a network call.
//   - Strongly typed `Fruits`, `Prices`, `Vendors`, `Trade`, … helpers that
//     turn non-2xx responses into *Error values.
//
// When the credential cannot be refreshed the call fails with
// transport.ErrSessionTerminated and session listeners are notified.
//
// Example:
//
//	cli, _ := client.New("http://localhost:8000", client.WithStore(store.NewMemoryStore()))
//	_ = cli.Login(ctx, "zorp", "Secret#123")
//	fruits, _ := cli.Fruits(ctx, &client.FruitQuery{Limit: 5})
//	fmt.Println(fruits)
package client
