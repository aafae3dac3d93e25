//go:build linux

// control/platform_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific platform metrics and debug probe integrations.

package control

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// RegisterPlatformProbes sets Linux-specific debug metrics.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.kernel", func() any {
		var uts unix.Utsname
		if err := unix.Uname(&uts); err != nil {
			return err.Error()
		}
		return unix.ByteSliceToString(uts.Release[:])
	})
	dp.RegisterProbe("platform.uptime_sec", func() any {
		var info unix.Sysinfo_t
		if err := unix.Sysinfo(&info); err != nil {
			return err.Error()
		}
		return int64(info.Uptime)
	})
}
