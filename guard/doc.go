// Package guard denies every request unless an upstream middleware explicitly
// permits it.
//
// The permission is a flag on the request context. AllowAll sets it
// unconditionally; real applications replace it with their own authorization
// middleware calling Permit. Gate rejects any request that reaches it without
// the flag.
//
// Table makes the gate secure by default. Routes are collected in a Table and
// Secure appends the gate to every route already registered and to every route
// registered afterwards, right before the handler. A route can only get
// through by carrying its own permitting middleware:
//
//	t := guard.NewTable()
//	t.With(guard.AllowAll).Get("/", home)
//	t.With(requireAdmin).Post("/admin", admin)
//	guard.SecureRoutes(t)
//	t.Get("/later", later) // gated too; always denied without a permit
//	http.ListenAndServe(":8080", t.Handler())
//
// Interception covers the verbs listed in Methods. Routes on any other verb
// are stored untouched.
package guard
