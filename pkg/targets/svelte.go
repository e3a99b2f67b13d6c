package targets

import (
	"strings"

	"github.com/Itshalffull/propbind/pkg/adapter"
	"github.com/Itshalffull/propbind/pkg/classify"
	"github.com/Itshalffull/propbind/pkg/core"
)

// SvelteSpec describes Svelte components: on: directives, class sets and
// bind: two-way bindings.
func SvelteSpec() adapter.Spec {
	return adapter.Spec{
		Name:        Svelte,
		Description: "Svelte on:/bind: directives",
		Aliases:     []string{"sveltekit"},
		Events: adapter.NewTable(map[string]string{
			"click":       "on:click",
			"doubleclick": "on:dblclick",
			"change":      "on:change",
			"input":       "on:input",
			"submit":      "on:submit",
			"focus":       "on:focus",
			"blur":        "on:blur",
			"keydown":     "on:keydown",
			"keyup":       "on:keyup",
			"mouseenter":  "on:mouseenter",
			"mouseleave":  "on:mouseleave",
			"hover":       "on:mouseover",
		}),
		EventStyle: adapter.EventStyle{
			Fallback: func(stem string) string { return "on:" + strings.ToLower(stem) },
		},
		Rules: map[core.KeyClass]adapter.Rule{
			core.ClassAccessibility:    adapter.Copy(),
			core.ClassStyleClass:       adapter.ClassSet(classify.ClassKey),
			core.ClassInlineStyle:      adapter.Rename(classify.StyleKey),
			core.ClassBindingDirective: adapter.Directive(),
			core.ClassLifecycleRef:     adapter.Rename("bind:this"),
		},
	}
}
