package canned

import "math/rand"

// Picker selects an index in [0, n). Tests pin it with FixedPicker.
type Picker interface {
	Pick(n int) int
}

// RandomPicker picks uniformly at random.
type RandomPicker struct{}

// Pick implements Picker.
func (RandomPicker) Pick(n int) int {
	return rand.Intn(n)
}

// FixedPicker always returns the same index, clamped to n-1.
type FixedPicker int

// Pick implements Picker.
func (f FixedPicker) Pick(n int) int {
	if int(f) >= n {
		return n - 1
	}
	if f < 0 {
		return 0
	}
	return int(f)
}

// PickTemplate renders one template chosen by p.
func PickTemplate(p Picker, templates []Template, message string) string {
	return templates[p.Pick(len(templates))].Render(message)
}
