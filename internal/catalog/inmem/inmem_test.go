package inmem

import (
	"testing"

	"github.com/dekarrin/chatmacro/internal/catalog"
	"github.com/dekarrin/chatmacro/internal/catalog/catalogtest"
)

func Test_Store(t *testing.T) {
	catalogtest.RunStoreTests(t, func(t *testing.T) catalog.Store {
		return NewDatastore()
	})
}
