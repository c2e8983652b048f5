package config

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap/zapcore"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg and what is wrong
// with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimRight(strings.TrimSpace(x), "/")
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}
	lower := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

	out.HTTP.Addr = strings.TrimSpace(out.HTTP.Addr)
	out.HTTP.AllowedOrigins = trimList(out.HTTP.AllowedOrigins)
	out.Store.Driver = lower(out.Store.Driver)
	out.Admin.Email = lower(out.Admin.Email)
	out.Session.Backend = lower(out.Session.Backend)
	out.Notify.Driver = lower(out.Notify.Driver)
	out.Upload.PublicBaseURL = strings.TrimRight(strings.TrimSpace(out.Upload.PublicBaseURL), "/")
	out.Log.Level = lower(out.Log.Level)

	// http
	if out.HTTP.Addr == "" {
		res.addErr("http.addr is required")
	}
	if out.HTTP.ReadHeaderTimeout <= 0 {
		res.addErr("http.read_header_timeout must be > 0")
	}
	if out.HTTP.FormRatePerMin <= 0 {
		res.addErr("http.form_rate_per_min must be > 0")
	} else if out.HTTP.FormRatePerMin > 600 {
		res.addWarn("http.form_rate_per_min is very high (%d); public forms are barely throttled.", out.HTTP.FormRatePerMin)
	}
	if out.HTTP.FormBurst <= 0 {
		res.addErr("http.form_burst must be > 0")
	}
	for _, o := range out.HTTP.AllowedOrigins {
		if o == "*" {
			res.addWarn("http.allowed_origins contains \"*\"; any site can call the API.")
		}
	}

	// store
	switch out.Store.Driver {
	case "sqlite":
		if strings.TrimSpace(out.Store.Path) == "" {
			res.addErr("store.path is required when store.driver=sqlite")
		}
	case "postgres":
		if strings.TrimSpace(out.Store.DSN) == "" {
			res.addErr("store.dsn is required when store.driver=postgres")
		}
	default:
		res.addErr("store.driver must be sqlite or postgres (got %q)", out.Store.Driver)
	}

	// admin (password may come from the keychain, so it is not required here)
	if out.Admin.Email == "" {
		res.addErr("admin.email is required")
	}
	if out.Admin.SessionTTL <= 0 {
		res.addErr("admin.session_ttl must be > 0")
	}
	if out.Admin.Password != "" {
		res.addWarn("admin.password is stored in plain text; prefer `engine secret set admin-password`.")
	}

	// session
	switch out.Session.Backend {
	case "memory":
	case "redis":
		if strings.TrimSpace(out.Session.RedisAddr) == "" {
			res.addErr("session.redis_addr is required when session.backend=redis")
		}
	default:
		res.addErr("session.backend must be memory or redis (got %q)", out.Session.Backend)
	}

	// notify
	switch out.Notify.Driver {
	case "log":
		res.addWarn("notify.driver=log: thank-you messages are only logged.")
	case "http":
		if _, err := url.ParseRequestURI(out.Notify.APIURL); err != nil {
			res.addErr("notify.api_url must be a valid URL when notify.driver=http")
		}
	case "amqp":
		if strings.TrimSpace(out.Notify.AMQPURL) == "" {
			res.addErr("notify.amqp_url is required when notify.driver=amqp")
		}
		if strings.TrimSpace(out.Notify.AMQPExchange) == "" {
			res.addErr("notify.amqp_exchange is required when notify.driver=amqp")
		}
	default:
		res.addErr("notify.driver must be log, http or amqp (got %q)", out.Notify.Driver)
	}
	if out.Notify.Timeout <= 0 {
		res.addErr("notify.timeout must be > 0")
	}

	// upload
	if out.Upload.MaxBytes <= 0 {
		res.addErr("upload.max_bytes must be > 0")
	} else if out.Upload.MaxBytes > 20<<20 {
		res.addWarn("upload.max_bytes is %d; resumes rarely need more than 5 MB.", out.Upload.MaxBytes)
	}
	if _, err := url.ParseRequestURI(out.Upload.PublicBaseURL); err != nil {
		res.addErr("upload.public_base_url must be an absolute URL")
	}

	// events
	if out.Events.NATSURL != "" && strings.TrimSpace(out.Events.SubjectPrefix) == "" {
		res.addErr("events.subject_prefix is required when events.nats_url is set")
	}

	// log
	if _, err := zapcore.ParseLevel(out.Log.Level); err != nil {
		res.addErr("log.level %q is not a valid level", out.Log.Level)
	}

	return out, res
}
