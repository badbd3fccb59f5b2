package httpapi

import (
	"database/sql"
	"net/http"
	"strings"

	"couponradar-engine/internal/store"
)

type CouponsHandler struct {
	DB *sql.DB
}

// List serves the date-set read: /coupons?dates=2024-01-01,2024-01-02.
// Without a dates param it returns everything, newest capture date first.
// Empty result sets come back as [] rather than null; the dashboard
// tolerates empty, not surprising.
func (h CouponsHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		coupons []store.Coupon
		err     error
	)

	if raw := strings.TrimSpace(r.URL.Query().Get("dates")); raw != "" {
		var dates []string
		for _, d := range strings.Split(raw, ",") {
			if d = strings.TrimSpace(d); d != "" {
				dates = append(dates, d)
			}
		}
		coupons, err = store.ListByDates(r.Context(), h.DB, dates)
	} else {
		coupons, err = store.ListAll(r.Context(), h.DB)
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	if coupons == nil {
		coupons = []store.Coupon{}
	}
	writeJSON(w, coupons)
}

// Today serves the dashboard's "apply now" list: records captured today.
func (h CouponsHandler) Today(w http.ResponseWriter, r *http.Request) {
	coupons, err := store.ListToday(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	if coupons == nil {
		coupons = []store.Coupon{}
	}
	writeJSON(w, coupons)
}

// Dates serves the distinct capture dates backing the dashboard's filter.
func (h CouponsHandler) Dates(w http.ResponseWriter, r *http.Request) {
	dates, err := store.DistinctDates(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	if dates == nil {
		dates = []string{}
	}
	writeJSON(w, dates)
}
