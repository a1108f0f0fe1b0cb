package clubcms

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const tmplPath = "templates"

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

var funcs = template.FuncMap{
	"date": func(d Date) string {
		if d.IsZero() {
			return ""
		}
		return d.Time().Format("January 2, 2006")
	},
	"media": MediaURL,
	"label": Label,
	"inc":   func(i int) int { return i + 1 },
}

// MediaURL maps an upload reference to its URL. Absolute URLs and paths
// are kept, everything else is served from /media/.
func MediaURL(ref string) string {
	if ref == "" || strings.HasPrefix(ref, "/") || strings.Contains(ref, "://") {
		return ref
	}
	return "/media/" + ref
}

// Label turns a select value like "vice_president" into "Vice president".
func Label(value string) string {
	s := strings.ReplaceAll(value, "_", " ")
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// ParseTemplates parses the built-in templates and then every *.tmpl file in
// the templates directory of fs, so the content tree can override any
// template by name.
func ParseTemplates(fsys http.FileSystem) (*template.Template, error) {
	tmain := template.New("_").Funcs(funcs)

	builtin, err := fs.ReadDir(defaultTemplates, tmplPath)
	if err != nil {
		return nil, errors.Wrap(err, "Cannot read built-in templates")
	}
	for _, e := range builtin {
		b, err := defaultTemplates.ReadFile(path.Join(tmplPath, e.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "Cannot read built-in template: %q", e.Name())
		}
		if err := parseOne(tmain, e.Name(), b); err != nil {
			return nil, err
		}
	}

	if fsys == nil {
		return tmain, nil
	}
	dir, err := fsys.Open("/" + tmplPath)
	if err != nil {
		if os.IsNotExist(err) {
			return tmain, nil
		}
		return nil, errors.Wrapf(err, "Cannot open directory: %q", tmplPath)
	}
	defer dir.Close()
	fis, err := dir.Readdir(-1)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read directory: %q", tmplPath)
	}
	for _, fi := range fis {
		if !strings.HasSuffix(fi.Name(), ".tmpl") {
			continue
		}
		fpath := path.Join("/", tmplPath, fi.Name())
		data, err := fsys.Open(fpath)
		if err != nil {
			return nil, errors.Wrapf(err, "Cannot open file: %q", fpath)
		}
		databytes, err := io.ReadAll(data)
		data.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "Cannot read file: %q", fpath)
		}
		if err := parseOne(tmain, fi.Name(), databytes); err != nil {
			return nil, err
		}
	}

	return tmain, nil
}

func parseOne(t *template.Template, fname string, b []byte) error {
	tname := strings.TrimSuffix(fname, ".tmpl")
	if _, err := t.New(tname).Parse(string(b)); err != nil {
		return errors.Wrapf(err, "Cannot parse template: %q", fname)
	}
	return nil
}
