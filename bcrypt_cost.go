//go:build !race

package credentials

func passwordHashCost() int {
	// Tuned so a single hash lands around 100ms on commodity hardware.
	return 12
}
