//go:build !linux

// control/platform_stub.go
// Author: momentics <momentics@gmail.com>
//
// Fallback platform probes for operating systems without specific support.

package control

import "runtime"

// RegisterPlatformProbes sets generic debug metrics.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.os", func() any {
		return runtime.GOOS
	})
}
