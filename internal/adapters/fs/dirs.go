package fs

import (
	"os"

	"github.com/warpstake/wsdeploy/internal/domain"
)

// ensureDir checks that dir is a directory. A missing dir is created when
// create is set and reported as (false, nil) otherwise.
func ensureDir(dir string, create bool) (bool, error) {
	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return false, domain.NewConfigurationError(dir, "not a directory", nil)
		}
		return true, nil
	case os.IsNotExist(err):
		if !create {
			return false, nil
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, domain.NewConfigurationError(dir, "failed to create directory", err)
		}
		return true, nil
	default:
		return false, domain.NewConfigurationError(dir, "failed to stat directory", err)
	}
}
