package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// Request log formats accepted by logging:format.
const (
	FormatDev      = "dev"
	FormatCombined = "combined"
	FormatCommon   = "common"
	FormatShort    = "short"
	FormatTiny     = "tiny"
)

const clfTime = "02/Jan/2006:15:04:05 -0700"

// accessLine is what a request log line is rendered from.
type accessLine struct {
	method     string
	url        string
	proto      string
	status     int
	elapsed    time.Duration
	length     string
	remoteAddr string
	remoteUser string
	referer    string
	userAgent  string
	at         time.Time
}

func (l accessLine) responseTime() string {
	return strconv.FormatFloat(float64(l.elapsed.Microseconds())/1000, 'f', 3, 64)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

var logFormats = map[string]func(accessLine) string{
	FormatDev: func(l accessLine) string {
		return fmt.Sprintf("%s %s %d %s ms - %s",
			l.method, l.url, l.status, l.responseTime(), l.length)
	},
	FormatCombined: func(l accessLine) string {
		return fmt.Sprintf(`%s - %s [%s] "%s %s %s" %d %s "%s" "%s"`,
			l.remoteAddr, dash(l.remoteUser), l.at.Format(clfTime),
			l.method, l.url, l.proto, l.status, l.length,
			dash(l.referer), dash(l.userAgent))
	},
	FormatCommon: func(l accessLine) string {
		return fmt.Sprintf(`%s - %s [%s] "%s %s %s" %d %s`,
			l.remoteAddr, dash(l.remoteUser), l.at.Format(clfTime),
			l.method, l.url, l.proto, l.status, l.length)
	},
	FormatShort: func(l accessLine) string {
		return fmt.Sprintf("%s %s %s %s %s %d %s - %s ms",
			l.remoteAddr, dash(l.remoteUser), l.method, l.url, l.proto,
			l.status, l.length, l.responseTime())
	},
	FormatTiny: func(l accessLine) string {
		return fmt.Sprintf("%s %s %d %s - %s ms",
			l.method, l.url, l.status, l.length, l.responseTime())
	},
}

// withLogging writes one line per request to the sink, in the configured
// format, and records the request metrics. 304 responses are not logged.
// A panicking request is recorded with the status the error trap will answer
// with, then the panic continues to the trap.
func (p *Pipeline) withLogging(next http.Handler) http.Handler {
	format := logFormats[p.logFormat]
	if format == nil {
		format = logFormats[FormatDev]
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		done := p.metrics.TrackInFlight()
		defer done()

		uri := r.RequestURI
		if uri == "" {
			uri = r.URL.RequestURI()
		}
		method := r.Method

		lw := &responseWriter{ResponseWriter: w}

		defer func() {
			rec := recover()
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			status := lw.Status()
			if rec != nil && !lw.Written() {
				status, _ = p.errors.Translator().Translate(panicError(rec))
			}
			p.logRequest(format, lw, r, method, uri, status, start)

			if rec != nil {
				panic(rec)
			}
		}()

		next.ServeHTTP(lw, r)
	})
}

func (p *Pipeline) logRequest(format func(accessLine) string, lw *responseWriter, r *http.Request, method, uri string, status int, start time.Time) {
	elapsed := time.Since(start)

	var route string
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		route = rctx.RoutePattern()
	}
	p.metrics.ObserveRequest(method, route, status, elapsed)

	if status == http.StatusNotModified {
		return
	}

	length := lw.Header().Get("Content-Length")
	if length == "" && lw.size > 0 {
		length = strconv.Itoa(lw.size)
	}
	user, _, _ := r.BasicAuth()

	p.sink.Info(format(accessLine{
		method:     method,
		url:        uri,
		proto:      r.Proto,
		status:     status,
		elapsed:    elapsed,
		length:     dash(length),
		remoteAddr: clientIP(r),
		remoteUser: user,
		referer:    r.Referer(),
		userAgent:  r.UserAgent(),
		at:         start,
	}))
}
