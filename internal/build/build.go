// Package build holds version information injected with -ldflags:
//
//	go build -ldflags "-X github.com/koscakluka/ema-kiosk/internal/build.Version=v1.0.0 \
//	  -X github.com/koscakluka/ema-kiosk/internal/build.Commit=$(git rev-parse --short HEAD)"
package build

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("kiosk %s (%s) built %s %s/%s", Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}
