package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Coupons (the dashboard's read surface)
	ch := CouponsHandler{DB: d.DB}
	mux.HandleFunc("/coupons", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.List,
	}))
	mux.HandleFunc("/coupons/today", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Today,
	}))
	mux.HandleFunc("/dates", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Dates,
	}))

	// Config
	cfgH := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: cfgH.Get,
		http.MethodPut: cfgH.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: cfgH.Path,
	}))

	// Scrape
	sh := ScrapeHandler{
		ScrapeStatus: d.ScrapeStatus,
		RunCycle:     d.RunCycle,
	}
	mux.HandleFunc("/scrape/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Status,
	}))
	mux.HandleFunc("/scrape/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.Run,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Health
	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}
