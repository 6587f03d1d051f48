// Package exchange provides high-level helpers for working with the fruit exchange API.
//
// The package glues the credential stores, the session manager and the
// authenticated request gateway defined under client/auth into a ready to use
// client. NewClient accepts an option structure that can be populated from CLI
// flags or a YAML file (LoadClientOptions), so credentials can be kept in
// memory, in a JSON file, in a profile directory, in redis or encrypted at rest.
//
// Example:
//
//	cli, _ := exchange.NewClient(ctx, &exchange.ClientOptions{BaseURL: "http://localhost:8000"})
//	_ = cli.Login(ctx, "zorp", "Secret#123")
//	vendor, _ := cli.MyVendor(ctx)
package exchange
