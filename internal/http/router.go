package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Periods *PeriodHandler
	Plans   *PlanHandler
	// Identity wraps every planning route; the health endpoint stays open.
	Identity   func(http.Handler) http.Handler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	identity := cfg.Identity
	if identity == nil {
		identity = func(next http.Handler) http.Handler { return next }
	}

	if cfg.Periods != nil {
		mux.Handle("/rest-planning/periods", identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Periods.List(w, r)
			case http.MethodPost:
				cfg.Periods.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})))
	}

	if cfg.Plans != nil {
		mux.Handle("/rest-planning/bulk", identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Plans.ApplyBulk(w, r)
		})))
		mux.Handle("/rest-planning", identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Plans.Query(w, r)
		})))
	}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
