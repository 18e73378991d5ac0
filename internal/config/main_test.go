package config

import (
	"os"
	"testing"

	"github.com/ctestkit/aitestrunner/internal/logging"
)

func TestMain(m *testing.M) {
	logging.Disable()
	os.Exit(m.Run())
}
