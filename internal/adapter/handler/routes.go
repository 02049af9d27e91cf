package handler

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ibrahimkeyboad/goledger/internal/adapter/middleware"
	"github.com/ibrahimkeyboad/goledger/web"
)

// Deps is everything the HTTP surface needs. Notifier may be nil.
type Deps struct {
	Ledger        Ledger
	SeedAccountID uuid.UUID
	Notifier      Notifier
	Log           *zap.Logger
	CORSOrigins   string
	WebAPIURL     string
}

// NewApp wires middleware and routes onto a fresh Fiber app.
func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(d.Log),
	})

	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(d.Log))
	app.Use(middleware.Metrics())
	// Inside the logger and metrics so a recovered panic is still observed.
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: d.CORSOrigins}))

	transactionHandler := &TransactionHandler{Repo: d.Ledger, Notifier: d.Notifier, Log: d.Log}
	accountHandler := &AccountHandler{Repo: d.Ledger, SeedAccountID: d.SeedAccountID}

	app.Get("/ping", Ping)
	app.Get("/seed-account", accountHandler.SeedAccount)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/env.js", WebConfigScript(d.WebAPIURL))

	app.Post("/transactions", transactionHandler.CreateTransaction)
	app.Get("/transactions", transactionHandler.ListTransactions)
	app.Get("/transactions/:id", transactionHandler.GetTransaction)
	app.Get("/accounts/:id", accountHandler.GetBalance)

	app.Use("/", filesystem.New(filesystem.Config{
		Root:  http.FS(web.Static()),
		Index: "index.html",
	}))

	return app
}
