package recipe

// Chain composes recipes into one whose passes run in the given order. Each
// pass sees the printed and re-annotated output of the previous one.
func Chain(desc Descriptor, recipes ...Recipe) Recipe {
	var passes []Pass
	for _, r := range recipes {
		name := r.Descriptor().Name
		for _, p := range r.Passes() {
			pn := p.Name
			if pn != name {
				pn = name + "/" + pn
			}
			passes = append(passes, Pass{Name: pn, New: p.New})
		}
	}
	return &Func{Desc: desc, Steps: passes}
}
