package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lemmi/compress"
	"github.com/pkg/errors"
	"github.com/raymondbutcher/tidyhtml"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"

	"github.com/roboclub/clubcms"
	"github.com/roboclub/clubcms/backend"
	"github.com/roboclub/clubcms/submit"
)

var (
	DEBUG bool

	minifier = minify.New()
)

func init() {
	minifier.AddFunc("text/html", html.Minify)
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func HttpError(w http.ResponseWriter, code int, logErr error) {
	if DEBUG {
		switch err := logErr.(type) {
		case stackTracer:
			slog.Error(logErr.Error(), "code", code)
			slog.Debug("Stack trace", "trace", fmt.Sprintf("%+v", err.StackTrace()))
		default:
			slog.Error(err.Error(), "code", code)
		}
	} else {
		slog.Error(logErr.Error(), "code", code)
	}
	http.Error(w, http.StatusText(code), code)
}

type server struct {
	cfg     config
	open    func() (backend.Backend, error)
	submit  *submit.Service
	metrics *metrics
}

func newServer(cfg config, svc *submit.Service) *server {
	return &server{
		cfg:     cfg,
		open:    cfg.backend,
		submit:  svc,
		metrics: newMetrics(),
	}
}

func (s *server) mux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/newsletter", s.newsletter())
	mux.Handle("/api/contact", s.contact())
	mux.Handle("/metrics", s.metrics.handler())
	mux.Handle("/", contentHandler{s})
	return s.metrics.instrument(mux)
}

func (s *server) handler() http.Handler {
	return compress.New(s.mux())
}

// Serving of the content tree. The backend is opened per request so that
// new commits and edits show up without a restart.
type contentHandler struct {
	s *server
}

func (h contentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fs, err := h.s.open()
	if err != nil {
		HttpError(w, http.StatusInternalServerError, errors.Wrap(err, "Cannot open content"))
		return
	}
	if c, ok := fs.(backend.CIDer); ok {
		w.Header().Set("ETag", `"`+c.CID()+`"`)
	}

	staticHandler := clubcms.NewStaticHandler(fs)

	mux := http.NewServeMux()
	mux.Handle("/static/", staticHandler)
	mux.Handle("/media/", staticHandler)
	mux.Handle("/robots.txt", staticHandler.Cd("/static"))
	mux.Handle("/favicon.ico", staticHandler.Cd("/static"))
	mux.Handle("/", pageHandler{fs: fs, cfg: h.s.cfg})
	w.Header().Set("Cache-Control", "max-age=32")
	mux.ServeHTTP(w, r)
}

type pageHandler struct {
	fs  backend.Backend
	cfg config
}

func (h pageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	tmpl, err := clubcms.ParseTemplates(h.fs)
	if err != nil {
		HttpError(w, http.StatusInternalServerError, err)
		return
	}

	site := &clubcms.Site{
		Title:        h.cfg.SiteTitle,
		ContactEmail: h.cfg.ContactEmail,
		Unsafe:       h.cfg.Unsafe,
		Store:        clubcms.NewStore(h.fs),
	}
	p, err := site.PageFor(r.URL.Path, r.URL.Query())
	if err != nil {
		if errors.Cause(err) == clubcms.ErrNotFound {
			HttpError(w, http.StatusNotFound, err)
		} else {
			HttpError(w, http.StatusInternalServerError, errors.Wrap(err, "page generation failed"))
		}
		return
	}
	if DEBUG {
		slog.Debug("Page", "path", p.Path, "outline", p.Outline())
	}

	buf := bytes.Buffer{}
	if err := tmpl.ExecuteTemplate(&buf, p.Template, p); err != nil {
		HttpError(w, http.StatusInternalServerError, errors.Wrapf(err, "template execution failed: %q\n%s", r.URL.Path, tmpl.DefinedTemplates()))
		return
	}
	out, err := finish(h.cfg.HTMLMode, buf.Bytes())
	if err != nil {
		HttpError(w, http.StatusInternalServerError, errors.Wrapf(err, "%s failed: %q", h.cfg.HTMLMode, r.URL.Path))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, "", p.ModTime, bytes.NewReader(out))
}

// finish post-processes a rendered page according to html.mode.
func finish(mode string, page []byte) ([]byte, error) {
	switch mode {
	case "tidy":
		tbuf := bytes.Buffer{}
		if err := tidyhtml.Copy(&tbuf, bytes.NewBuffer(page)); err != nil {
			return nil, err
		}
		return tbuf.Bytes(), nil
	case "minify":
		return minifier.Bytes("text/html", page)
	}
	return page, nil
}
