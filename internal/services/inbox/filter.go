package inbox

// TagFilter narrows the list scope to a single tag. The zero value is inactive.
type TagFilter struct {
	tag string
}

// Active reports the filtered tag, if any.
func (f TagFilter) Active() (string, bool) {
	return f.tag, f.tag != ""
}

// Toggle activates name, or clears the filter when name is already active.
func (f TagFilter) Toggle(name string) TagFilter {
	if name == f.tag {
		return TagFilter{}
	}
	return TagFilter{tag: name}
}

// Clear removes the filter.
func (f TagFilter) Clear() TagFilter {
	return TagFilter{}
}
