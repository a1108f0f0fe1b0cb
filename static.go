package clubcms

import (
	"net/http"
	"path"
	"strings"
)

// The StaticHandler behaves like http.ServeContent without directory
// listings and without access to hidden files.
// It also implements the http.FileSystem interface.
type StaticHandler struct {
	fs     http.FileSystem
	prefix string
}

// Serve the file requested by r. Error 404 on directory access.
func (sh StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if hidden(r.URL.Path) {
		http.Error(w, r.URL.Path, http.StatusNotFound)
		return
	}
	f, err := sh.Open(r.URL.Path)
	if err != nil {
		http.Error(w, r.URL.Path, http.StatusNotFound)
		return
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		http.Error(w, r.URL.Path, http.StatusInternalServerError)
		return
	}
	if stat.IsDir() {
		http.Error(w, r.URL.Path, http.StatusNotFound)
		return
	}
	http.ServeContent(w, r, stat.Name(), stat.ModTime(), f)
}

// Return a new StaticHandler with new root directory.
func (sh StaticHandler) Cd(dir string) StaticHandler {
	sh.prefix = path.Join(sh.prefix, path.Clean("/"+dir))
	return sh
}

// Implement the http.FileSystem interface.
func (sh StaticHandler) Open(name string) (http.File, error) {
	return sh.fs.Open(path.Join("/", sh.prefix, path.Clean("/"+name)))
}

// Serves all files from fs.
func NewStaticHandler(fs http.FileSystem) StaticHandler {
	return StaticHandler{fs: fs}
}

func hidden(p string) bool {
	for _, part := range strings.Split(p, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
