// Package rest is the transport core of the client library: it owns the
// Context (which tenant, which identity) and the Executor (how a call turns
// into an HTTP exchange and back into a Result).
//
// Endpoint packages under api/ are thin bindings over Do; application code
// normally goes through them and only touches this package to build a
// Context:
//
//	rc, err := rest.NewContext("https://tenant1.oae.example",
//		rest.UsernamePassword("jdoe", "hunter2"))
//	if err != nil {
//		return err
//	}
//	me, err := user.Me(ctx, rc)
//
// A password Context logs in by itself on its first call and reuses the
// session afterwards. Failures carry the server's own message:
//
//	if rest.StatusOf(err) == 404 {
//		// gone
//	}
package rest
