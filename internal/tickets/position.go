package tickets

// clampInsert bounds a requested insert position to [0, count]; a negative
// value appends at the end.
func clampInsert(pos, count int) int {
	if pos < 0 || pos > count {
		return count
	}
	return pos
}

// clampMove bounds a move target to the existing range [0, count-1].
func clampMove(pos, count int) int {
	if count == 0 {
		return 0
	}
	if pos < 0 {
		return 0
	}
	if pos >= count {
		return count - 1
	}
	return pos
}
