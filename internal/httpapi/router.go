package httpapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// NewMux wires every route. Management routes are wrapped in
// RequireSession; public submissions go through the form limiter.
func NewMux(d Deps) *http.ServeMux {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("http")

	admin := RequireSession(d.Gate, log)
	limited := d.Form.Limit
	mux := http.NewServeMux()

	// Health
	hh := HealthHandler{Ping: d.Ping, Log: log}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Leads
	lh := LeadsHandler{Leads: d.Engine.Leads, Log: log}
	mux.HandleFunc("/leads", methodMux(map[string]http.HandlerFunc{
		http.MethodPost:   limited(lh.Create),
		http.MethodGet:    admin(lh.List),
		http.MethodDelete: admin(lh.Delete),
	}))

	// Testimonials
	th := TestimonialsHandler{Testimonials: d.Engine.Testimonials, Log: log}
	mux.HandleFunc("/testimonials", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    th.List,
		http.MethodPost:   admin(th.Create),
		http.MethodDelete: admin(th.Delete),
	}))
	mux.HandleFunc("/testimonials/", methodMux(map[string]http.HandlerFunc{
		http.MethodPut: admin(th.UpdateByPath), // expects /testimonials/{id}
	}))

	// Blogs
	bh := BlogsHandler{Blogs: d.Engine.Blogs, Log: log}
	mux.HandleFunc("/blogs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  bh.List,
		http.MethodPost: admin(bh.Create),
	}))
	mux.HandleFunc("/blogs/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    bh.GetByPath,
		http.MethodPut:    admin(bh.UpdateByPath),
		http.MethodDelete: admin(bh.DeleteByPath),
	}))

	// Careers
	ch := CareersHandler{Engine: d.Engine, Log: log}
	mux.HandleFunc("/careers", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  ch.List,
		http.MethodPost: admin(ch.Create),
	}))
	mux.HandleFunc("/careers/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    ch.GetByPath,
		http.MethodPatch:  admin(ch.PatchByPath),
		http.MethodDelete: admin(ch.DeleteByPath),
	}))

	// Job applications
	ah := ApplicationsHandler{Engine: d.Engine, Log: log}
	mux.HandleFunc("/job-applications", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  admin(ah.List),
		http.MethodPost: limited(ah.Create),
	}))

	// Resume files
	fh := FilesHandler{Uploader: d.Uploader, Resumes: d.Resumes, MaxBytes: d.MaxUploadBytes, Log: log}
	mux.HandleFunc("/uploads/resume", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: limited(fh.UploadResume),
	}))
	mux.HandleFunc("/files/resumes/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: fh.GetResume,
	}))

	// Session
	sh := SessionHandler{Gate: d.Gate, Secure: d.SecureCookies, Log: log}
	mux.HandleFunc("/admin/login", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: limited(sh.Login),
	}))
	mux.HandleFunc("/admin/logout", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.Logout,
	}))
	mux.HandleFunc("/admin/session", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: admin(sh.Current),
	}))

	// Admin tables: /admin/{resource}/{page|export.csv|bulk-delete}
	adh := AdminHandler{Lists: adminLists(d.Engine), Log: log}
	mux.HandleFunc("/admin/", admin(adh.Route))

	sth := StatsHandler{Engine: d.Engine, Log: log}
	mux.HandleFunc("/admin/stats", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: admin(sth.Stats),
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub, Heartbeat: 25 * time.Second}
	mux.HandleFunc("/admin/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: admin(eh.ServeSSE),
	}))

	// Config
	cfh := ConfigHandler{CfgVal: d.CfgVal, UserCfgPath: d.UserCfgPath, LoadCfg: d.LoadCfg, Log: log}
	mux.HandleFunc("/admin/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: admin(cfh.Get),
		http.MethodPut: admin(cfh.Put),
	}))
	mux.HandleFunc("/admin/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: admin(cfh.Path),
	}))

	// Secrets
	sch := SecretsHandler{Log: log}
	mux.HandleFunc("/admin/secrets/", methodMux(map[string]http.HandlerFunc{
		http.MethodPut: admin(sch.SetByPath),
	}))

	// Store maintenance
	dh := DBHandler{CheckpointFn: d.Checkpoint, Log: log}
	mux.HandleFunc("/admin/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: admin(dh.Checkpoint),
	}))

	return mux
}

// NewHandler is NewMux behind the standard middleware chain.
func NewHandler(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("http")
	return Chain(NewMux(d),
		RequestID,
		Recover(log),
		AccessLog(log),
		Cors(d.config().HTTP.AllowedOrigins),
	)
}
