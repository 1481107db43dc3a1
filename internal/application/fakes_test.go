package application

import (
	"io"

	"github.com/sirupsen/logrus"

	"warbler/internal/application/apptest"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newMemUserRepo() *apptest.MemUserRepo { return apptest.NewMemUserRepo() }
func newMemPostRepo() *apptest.MemPostRepo { return apptest.NewMemPostRepo() }
func newMemBlobs() *apptest.MemBlobs       { return apptest.NewMemBlobs() }

var _ BlobResolver = (*apptest.MemBlobs)(nil)
