package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"payrollportal/internal/config"
	"payrollportal/internal/http/middleware"
	"payrollportal/internal/service"
	"payrollportal/internal/session"
)

// Services bundles the use-case implementations the routes dispatch to.
type Services struct {
	Accounts       service.AccountService
	Payslips       service.PayslipService
	Ingest         service.IngestService
	Reconciliation service.ReconciliationService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers are
// thin translations between HTTP and the services; business rules live below.
func RegisterRoutes(app *fiber.App, db *sql.DB, svcs Services, sessions *session.Manager, sessCfg config.SessionConfig, registry *prometheus.Registry) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	if registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	auth := app.Group("/auth")
	auth.Post("/register", Register(svcs.Accounts))
	auth.Post("/login", Login(svcs.Accounts, sessions, sessCfg))
	auth.Post("/logout", Logout(sessions, sessCfg.CookieName))

	authed := app.Group("", middleware.RequireSession(sessions, sessCfg.CookieName))
	authed.Get("/me", Me())
	authed.Get("/payslips", ListPayslips(svcs.Payslips))
	authed.Get("/payslips/:id/download", DownloadPayslip(svcs.Payslips))

	admin := authed.Group("/admin", middleware.RequireAdmin())
	admin.Post("/ingest", IngestArchive(svcs.Ingest))
	admin.Get("/reconciliation", Reconciliation(svcs.Reconciliation))
	admin.Get("/accounts", ListAccounts(svcs.Accounts))
	admin.Delete("/accounts/:ownerID", DeleteAccount(svcs.Accounts, sessions))
	admin.Delete("/periods", PurgePeriod(svcs.Payslips))
}
