package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/shopspring/decimal"

	"github.com/rcastellanos/taller/internal/auth"
	"github.com/rcastellanos/taller/internal/client"
	clientStore "github.com/rcastellanos/taller/internal/client/store"
	"github.com/rcastellanos/taller/internal/config"
	"github.com/rcastellanos/taller/internal/database"
	"github.com/rcastellanos/taller/internal/document"
	documentStore "github.com/rcastellanos/taller/internal/document/store"
	tallerHttp "github.com/rcastellanos/taller/internal/http"
	authHandler "github.com/rcastellanos/taller/internal/http/auth"
	clientHandler "github.com/rcastellanos/taller/internal/http/client"
	documentHandler "github.com/rcastellanos/taller/internal/http/document"
	inventoryHandler "github.com/rcastellanos/taller/internal/http/inventory"
	parameterHandler "github.com/rcastellanos/taller/internal/http/parameter"
	userHandler "github.com/rcastellanos/taller/internal/http/user"
	vehicleHandler "github.com/rcastellanos/taller/internal/http/vehicle"
	"github.com/rcastellanos/taller/internal/inventory"
	inventoryStore "github.com/rcastellanos/taller/internal/inventory/store"
	"github.com/rcastellanos/taller/internal/parameter"
	parameterStore "github.com/rcastellanos/taller/internal/parameter/store"
	"github.com/rcastellanos/taller/internal/user"
	userStore "github.com/rcastellanos/taller/internal/user/store"
	"github.com/rcastellanos/taller/internal/vehicle"
	vehicleStore "github.com/rcastellanos/taller/internal/vehicle/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	taxRate, err := decimal.NewFromString(cfg.Billing.TaxRate)
	if err != nil {
		slog.Error("invalid tax rate", "value", cfg.Billing.TaxRate, "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), database.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		authService      = auth.NewService(cfg.JWT.Secret, cfg.JWT.Expiry)
		userService      = user.NewService(userStore.New(db))
		clientService    = client.NewService(clientStore.New(db))
		vehicleService   = vehicle.NewService(vehicleStore.New(db))
		inventoryService = inventory.NewService(inventoryStore.New(db))
		documentService  = document.NewService(documentStore.New(db), taxRate)
		parameterService = parameter.NewService(parameterStore.New(db))
	)

	var (
		authH      = authHandler.NewHandler(authService, userService, clientService)
		userH      = userHandler.NewHandler(userService, authService)
		clientH    = clientHandler.NewHandler(clientService, vehicleService)
		vehicleH   = vehicleHandler.NewHandler(vehicleService)
		inventoryH = inventoryHandler.NewHandler(inventoryService)
		documentH  = documentHandler.NewHandler(documentService, clientService)
		parameterH = parameterHandler.NewHandler(parameterService)
	)

	router := tallerHttp.New(authService, authH, userH, clientH, vehicleH, inventoryH, documentH, parameterH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "name", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
