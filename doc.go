// Package propbind is the composition root for the prop adapter system.
//
// A caller hands in a framework-neutral prop set as JSON (for example
// {"onClick":"submit","aria-label":"Send","class":"btn"}) together with a
// target and an adapter id. The matching adapter classifies every key, rewrites
// it into the target's idiom (Compose modifiers, SwiftUI modifiers, GTK
// signals and so on) and persists the serialized result under the id.
//
// Targets: compose, svelte, swiftui, reactnative, gtk, watchos. Aliases such
// as "jetpack", "rn" or "gtk4" resolve to them.
//
// Storage is pluggable: the filesystem (default), SQLite or memory.
//
// Usage:
//
//	svc, err := propbind.New("./store",
//		propbind.WithBackend(propbind.BackendSQLite),
//		propbind.WithLogger(logger),
//	)
//
//	res, err := svc.Normalize(ctx, "compose", "card-1", `{"onClick":"open"}`)
//	if err != nil {
//		// storage failure or unknown target
//	}
//	if !res.IsOK() {
//		fmt.Println(res.Message)
//	}
package propbind
