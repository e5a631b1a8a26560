package utils

// Chunk splits items into consecutive slices of at most maxSize elements.
// A non-positive maxSize yields a single chunk holding every item.
func Chunk[T any](items []T, maxSize int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if maxSize <= 0 || len(items) <= maxSize {
		return [][]T{items}
	}

	chunks := make([][]T, 0, (len(items)+maxSize-1)/maxSize)
	for start := 0; start < len(items); start += maxSize {
		end := start + maxSize
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}

// Dedupe returns items with later duplicates dropped, keeping first-seen order.
func Dedupe[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
