package main

import "fmt"

const (
	app_name          = "aesdh-chat"
	project_url       = "https://github.com/anvilcrypt/aesdh"
	ver_major  uint8  = 0
	ver_minor  uint8  = 1
	ver_build  uint16 = 1
)

var build_flag string // -ldflags "-X main.build_flag=-beta"

func versionString() string {
	return fmt.Sprintf("%s version: v%d.%d.%04d%s", app_name, ver_major, ver_minor, ver_build, build_flag)
}
