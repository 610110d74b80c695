package pointer

// To returns a pointer to a copy of value
func To[T any](value T) *T {
	return &value
}

// IfValid returns a pointer to the value if it's valid, otherwise nil
func IfValid[T any](valid bool, value T) *T {
	if valid {
		return &value
	}
	return nil
}
