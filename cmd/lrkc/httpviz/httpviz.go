// Package httpviz serves a minimal read-only HTTP inspector over a built
// LR(k) table: state list, per-state transitions, and the rendered
// action/goto grid. Grounded on tunaq's server package's chi-based
// routing idiom (server/routes.go), trimmed to the handful of read-only
// endpoints a table inspector needs.
package httpviz

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dekarrin/lrk/lrtable"
)

// transitionView, actionView, and stateView are flattened, JSON-safe
// projections of a table state: lrtable.Action carries a grammar.Rule
// with a live Action closure, which encoding/json cannot marshal, so
// these views render everything to strings before serialization.
type transitionView struct {
	Symbol string `json:"symbol"`
	Next   string `json:"next"`
}

type actionView struct {
	Lookahead string `json:"lookahead"`
	Kind      string `json:"kind"`
	Rule      string `json:"rule,omitempty"`
}

type stateView struct {
	Name        string            `json:"name"`
	Accepting   bool              `json:"accepting"`
	Transitions []transitionView  `json:"transitions"`
	Actions     []actionView      `json:"actions"`
}

// Serve starts a blocking HTTP server on addr exposing table for
// inspection. It returns only on a listener error.
func Serve(addr string, table *lrtable.Table) error {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(table.String()))
	})

	r.Get("/states", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, table.DFA.States())
	})

	r.Get("/states/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		if !table.DFA.Has(name) {
			http.NotFound(w, req)
			return
		}

		rawTransitions := table.DFA.Transitions(name)
		transitions := make([]transitionView, len(rawTransitions))
		for i, t := range rawTransitions {
			transitions[i] = transitionView{Symbol: t.Symbol, Next: t.Next}
		}

		rawActions := table.ActionEntries(name)
		actions := make([]actionView, len(rawActions))
		for i, e := range rawActions {
			actions[i] = actionView{Lookahead: e.Lookahead.String(), Kind: e.Action.Kind.String()}
			if e.Action.Kind == lrtable.Reduce {
				actions[i].Rule = e.Action.Rule.String()
			}
		}

		writeJSON(w, stateView{
			Name:        name,
			Accepting:   table.DFA.IsAccepting(name),
			Transitions: transitions,
			Actions:     actions,
		})
	})

	return http.ListenAndServe(addr, r)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
