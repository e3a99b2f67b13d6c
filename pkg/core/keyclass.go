package core

// KeyClass is the category a property key falls into before transformation.
type KeyClass int

const (
	ClassPassThrough KeyClass = iota
	ClassAccessibility
	ClassDataAttribute
	ClassStyleClass
	ClassEventHandler
	ClassInlineStyle
	ClassLayout
	ClassBindingDirective
	ClassLifecycleRef
)

var keyClassNames = [...]string{
	ClassPassThrough:      "pass-through",
	ClassAccessibility:    "accessibility",
	ClassDataAttribute:    "data-attribute",
	ClassStyleClass:       "style-class",
	ClassEventHandler:     "event-handler",
	ClassInlineStyle:      "inline-style",
	ClassLayout:           "layout",
	ClassBindingDirective: "binding-directive",
	ClassLifecycleRef:     "lifecycle-ref",
}

func (c KeyClass) String() string {
	if c < 0 || int(c) >= len(keyClassNames) {
		return "unknown"
	}
	return keyClassNames[c]
}

// KeyClasses lists every class in declaration order.
func KeyClasses() []KeyClass {
	return []KeyClass{
		ClassPassThrough,
		ClassAccessibility,
		ClassDataAttribute,
		ClassStyleClass,
		ClassEventHandler,
		ClassInlineStyle,
		ClassLayout,
		ClassBindingDirective,
		ClassLifecycleRef,
	}
}
