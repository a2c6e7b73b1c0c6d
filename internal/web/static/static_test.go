package static

import (
	"io/fs"
	"testing"
)

func TestFS_ContainsDemoPage(t *testing.T) {
	fsys := FS()
	for _, name := range []string{"index.html", "style.css", "loader.js"} {
		if _, err := fs.Stat(fsys, name); err != nil {
			t.Errorf("missing embedded %s: %v", name, err)
		}
	}
}
