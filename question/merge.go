package question

// Merge combines per-chunk item lists into one batch of at most target items.
//
// Chunk lists are concatenated in submission order, duplicates are dropped by
// normalized question text (first occurrence wins), and the result is
// truncated to target. Fewer than target unique items is not an error; the
// caller receives a short list rather than padding.
func Merge(perChunk [][]Item, target int) []Item {
	if target <= 0 {
		return nil
	}

	seen := make(map[string]struct{})
	merged := make([]Item, 0, target)

	for _, chunk := range perChunk {
		for _, item := range chunk {
			key := item.NormalizedQuestion()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			merged = append(merged, item)
			if len(merged) == target {
				return merged
			}
		}
	}
	return merged
}
