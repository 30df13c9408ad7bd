package tunnel

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
	"github.com/kardianos/osext"

	"github.com/anvilcrypt/aesdh/internal/exception"
)

const (
	iniSection = "aesdh-chat"
	configName = "aesdh-chat.ini"
)

// Config holds the startup defaults the session tool falls back to when
// the interactive menu or a CLI flag doesn't override them. Nothing here
// is load-bearing for protocol correctness — every value can be changed
// at runtime.
type Config struct {
	Listen    string `importable:":9009"`
	Peer      string `importable:"tcp://127.0.0.1:9009"`
	Mode      string `importable:"CTR"`
	KeySize   int    `importable:"128"`
	Verbose   int    `importable:"1"`
	KcpTuning string `importable:"fast"`
}

// LoadConfig searches, in order, the current directory, the directory
// holding the running executable, $HOME, and (on non-Windows) /etc, for
// aesdh-chat.ini, mirroring the teacher's config search path exactly.
// If no file is found, defaults are returned with no error: config is
// optional.
func LoadConfig(specifiedFile string) (*Config, error) {
	conf := &Config{}
	setFieldsDefaultValue(conf)

	var paths []string
	if specifiedFile != "" {
		paths = []string{specifiedFile}
	} else {
		paths = []string{configName}
		if ef, err := osext.ExecutableFolder(); err == nil {
			paths = append(paths, filepath.Join(ef, configName))
		}
		home := os.Getenv("HOME")
		if u, err := user.Current(); err == nil {
			home = u.HomeDir
		}
		if home != "" {
			paths = append(paths, filepath.Join(home, configName))
		}
		if runtime.GOOS != "windows" {
			paths = append(paths, filepath.Join("/etc/aesdh-chat", configName))
		}
	}

	var found string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			found = p
			break
		}
	}
	if found == "" {
		return conf, nil
	}

	f, err := ini.Load(found)
	if err != nil {
		return nil, exception.New(exception.IoError, "tunnel: failed to load config").Apply(err)
	}
	sec, err := f.GetSection(iniSection)
	if err != nil {
		return conf, nil // file exists but has no [aesdh-chat] section: defaults stand
	}
	if err := sec.MapTo(conf); err != nil {
		return nil, exception.New(exception.ArgumentError, "tunnel: malformed config").Apply(err)
	}
	return conf, nil
}

// setFieldsDefaultValue fills every `importable`-tagged field with its
// tag value via reflection, the same pattern the teacher uses to seed
// config structs before an ini file is (maybe) loaded over the top.
func setFieldsDefaultValue(str interface{}) {
	typ := reflect.TypeOf(str).Elem()
	val := reflect.ValueOf(str).Elem()
	for i := 0; i < typ.NumField(); i++ {
		ft := typ.Field(i)
		fv := val.Field(i)
		imp := ft.Tag.Get("importable")
		if imp == "" {
			continue
		}
		switch fv.Kind() {
		case reflect.String:
			fv.SetString(imp)
		case reflect.Int:
			n, err := strconv.ParseInt(imp, 10, 0)
			if err == nil {
				fv.SetInt(n)
			}
		default:
			panic(fmt.Errorf("tunnel: unsupported config field kind %v", fv.Kind()))
		}
	}
}

// ParseMode maps the config/CLI mode string to a Mode value.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(s) {
	case "ECB":
		return ModeECB, nil
	case "CTR":
		return ModeCTR, nil
	case "GCM":
		return ModeGCM, nil
	default:
		return 0, exception.New(exception.ArgumentError, "tunnel: unknown mode").Apply(s)
	}
}

// NrForKeySize maps an AES key size in bits to its round count.
func NrForKeySize(bits int) (int, error) {
	switch bits {
	case 128:
		return 10, nil
	case 192:
		return 12, nil
	case 256:
		return 14, nil
	default:
		return 0, exception.New(exception.ArgumentError, "tunnel: key size must be 128, 192 or 256").Apply(bits)
	}
}
