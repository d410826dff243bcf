// internal/form/present.go
//
// Contact form – error presenter.
//
// Errors stay hidden until the visitor has tried to submit at least once.
// After that the block tracks the live error list and disappears as soon as
// the list is empty.  Each message is shown once, keyed by its own text.
//
//------------------------------------------------------------------------------

package form

// VisibleErrors returns the messages the error block should show, in
// validator order.  It is nil before the first submit attempt and whenever
// the form is valid.
func (s *State) VisibleErrors() []string {
	if !s.hasSubmitted || len(s.errs) == 0 {
		return nil
	}
	return uniqueMessages(s.errs)
}

// uniqueMessages drops repeated messages while preserving order.
func uniqueMessages(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, m := range in {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
