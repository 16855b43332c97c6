package strings

// Contains reports whether needle is present in list.
func Contains[T ~string](list []T, needle T) bool {
	for _, item := range list {
		if item == needle {
			return true
		}
	}
	return false
}

// Duplicate returns the first value that occurs more than once in list.
func Duplicate[T ~string](list []T) (T, bool) {
	seen := make(map[T]struct{}, len(list))
	for _, item := range list {
		if _, ok := seen[item]; ok {
			return item, true
		}
		seen[item] = struct{}{}
	}
	var zero T
	return zero, false
}
