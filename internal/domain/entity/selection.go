package entity

const (
	// DefaultFromCode is the preferred source currency
	DefaultFromCode = "USD"
	// DefaultToCode is the preferred target currency
	DefaultToCode = "INR"
)

// ComputeDefaults picks the initial from/to selections using USD and INR
func ComputeDefaults(labels []DisplayLabel) (from, to int) {
	return ComputeDefaultsFor(labels, DefaultFromCode, DefaultToCode)
}

// ComputeDefaultsFor returns the index of the first label matching preferredFrom
// (falling back to 0) and of the first label matching preferredTo (falling back to 1).
// Both indices are clamped into the bounds of labels; an empty slice yields (0, 0).
func ComputeDefaultsFor(labels []DisplayLabel, preferredFrom, preferredTo string) (from, to int) {
	from = indexOfCode(labels, preferredFrom, 0)
	to = indexOfCode(labels, preferredTo, 1)

	return clampIndex(from, len(labels)), clampIndex(to, len(labels))
}

func indexOfCode(labels []DisplayLabel, code string, fallback int) int {
	for i, label := range labels {
		if label.Code == code {
			return i
		}
	}
	return fallback
}

func clampIndex(idx, length int) int {
	if length == 0 || idx < 0 {
		return 0
	}
	if idx >= length {
		return length - 1
	}
	return idx
}
