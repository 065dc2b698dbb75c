package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"ledger/internal/core"
)

// parseDateRange reads optional from and to query parameters as Unix
// seconds. Absent or empty values leave that bound open.
func parseDateRange(r *http.Request) (core.DateRange, error) {
	var rng core.DateRange

	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		ts, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return core.DateRange{}, fmt.Errorf("invalid from %q", v)
		}
		rng.From = ts
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		ts, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return core.DateRange{}, fmt.Errorf("invalid to %q", v)
		}
		rng.To = ts
	}
	return rng, nil
}

// parseFilter reads the search criteria from the query string. Absent
// parameters leave that criterion unset.
func parseFilter(r *http.Request) (core.Filter, error) {
	rng, err := parseDateRange(r)
	if err != nil {
		return core.Filter{}, err
	}

	q := r.URL.Query()
	filter := core.Filter{
		CategoryID: strings.TrimSpace(q.Get("category")),
		Keyword:    q.Get("keyword"),
		DateFrom:   rng.From,
		DateTo:     rng.To,
	}

	if v := strings.TrimSpace(q.Get("type")); v != "" {
		t := core.TransactionType(v)
		if t != core.Income && t != core.Expense {
			return core.Filter{}, fmt.Errorf("invalid type %q", v)
		}
		filter.Type = t
	}
	return filter, nil
}
