//go:build !linux

package dictionary

import "os"

func adviseSequential(*os.File) {}
