//go:build !linux && !darwin
// +build !linux,!darwin

package socket

// applyPlatformOptions is a no-op on platforms without the optimizations
// tuning_linux.go and tuning_darwin.go apply.
func applyPlatformOptions(fd int, cfg *Config) {}
