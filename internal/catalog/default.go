package catalog

// Default returns the built-in facility room set.
func Default() *Library {
	lib := &Library{
		Name: "facility",
		Defs: []*TemplateDef{
			{Name: "junction", Description: "Four-way hub", Sockets: sockets("forward", "right", "left")},
			{Name: "t-junction", Description: "Corridor splitting both ways", Sockets: sockets("right", "left")},
			{Name: "corridor", Description: "Straight service corridor", Sockets: sockets("forward")},
			{Name: "corner-left", Description: "Corridor turning left", Sockets: sockets("left")},
			{Name: "corner-right", Description: "Corridor turning right", Sockets: sockets("right")},
			{Name: "office", Description: "Office with a side door", Sockets: sockets("forward", "right")},
			{Name: "storage", Description: "Dead-end storage room", Sockets: sockets()},
		},
	}
	// Built-in definitions are always valid.
	if err := lib.Validate(); err != nil {
		panic(err)
	}
	return lib
}

func sockets(names ...string) map[string]*Direction {
	m := make(map[string]*Direction, len(names))
	for _, n := range names {
		m[n] = nil
	}
	return m
}
