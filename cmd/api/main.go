package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-weighbridge-ws/internal/cache"
	"go-weighbridge-ws/internal/config"
	"go-weighbridge-ws/internal/handler"
	"go-weighbridge-ws/internal/middleware"
	"go-weighbridge-ws/internal/model"
	"go-weighbridge-ws/internal/repository"
	"go-weighbridge-ws/internal/service"
	"go-weighbridge-ws/internal/ws"
	"go-weighbridge-ws/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Config (reads .env if present)
	cfg := config.Load()

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.User{}, &model.Privilege{}, &model.Role{},
		&model.Vehicle{}, &model.Driver{},
		&model.PurchaseOrder{}, &model.POMaterial{},
		&model.Trip{}, &model.StageTransaction{},
		&model.Weight{}, &model.MaterialUnloading{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Setup Cache (optional, everything works uncached)
	var keyedCache *cache.Cache
	if cfg.RedisURL != "" {
		c, err := cache.Connect(cfg.RedisURL, time.Duration(cfg.CacheTTLSecs)*time.Second)
		if err != nil {
			log.Printf("Warning: cache disabled: %v", err)
		} else {
			keyedCache = c
		}
	}

	// 6. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	vehicleRepo := repository.NewVehicleRepo(db)
	driverRepo := repository.NewDriverRepo(db)
	poRepo := repository.NewPurchaseOrderRepo(db)
	tripRepo := repository.NewTripRepo(db)
	weightRepo := repository.NewWeightRepo(db)
	unloadingRepo := repository.NewUnloadingRepo(db)

	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)
	registrationService := service.NewRegistrationService(vehicleRepo, driverRepo, wsHub)
	poService := service.NewPurchaseOrderService(poRepo, keyedCache)
	tripService := service.NewTripService(tripRepo, vehicleRepo, driverRepo, poRepo, keyedCache, wsHub)
	weightService := service.NewWeightService(weightRepo, tripRepo, keyedCache, wsHub)
	unloadingService := service.NewUnloadingService(unloadingRepo, tripRepo, keyedCache, wsHub)
	dashService := service.NewDashboardService(tripRepo, keyedCache)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)
	registrationHandler := handler.NewRegistrationHandler(registrationService)
	poHandler := handler.NewPurchaseOrderHandler(poService)
	tripHandler := handler.NewTripHandler(tripService)
	weightHandler := handler.NewWeightHandler(weightService)
	unloadingHandler := handler.NewUnloadingHandler(unloadingService)
	dashHandler := handler.NewDashboardHandler(dashService)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Weighbridge Gate Ops v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/logout", middleware.RequireAuth(userRepo), authHandler.Logout)
	auth.Get("/me", middleware.RequireAuth(userRepo), authHandler.Me)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard
	protected.Get("/dashboard/stats", dashHandler.GetDashboardStats)
	protected.Get("/dashboard/throughput", dashHandler.GetTripThroughput)

	// Gate registration
	protected.Post("/registrations", middleware.RequirePrivilege("vehicle:register"), registrationHandler.Register)

	// Vehicles
	protected.Get("/vehicles", middleware.RequirePrivilege("vehicle:view"), registrationHandler.GetVehicles)
	protected.Put("/vehicles/:id/approve", middleware.RequirePrivilege("vehicle:approve"), registrationHandler.ApproveVehicle)
	protected.Put("/vehicles/:id/reject", middleware.RequirePrivilege("vehicle:approve"), registrationHandler.RejectVehicle)

	// Drivers
	protected.Get("/drivers", middleware.RequirePrivilege("driver:view"), registrationHandler.GetDrivers)
	protected.Put("/drivers/:id/approve", middleware.RequirePrivilege("driver:approve"), registrationHandler.ApproveDriver)
	protected.Put("/drivers/:id/reject", middleware.RequirePrivilege("driver:approve"), registrationHandler.RejectDriver)

	// Purchase Orders
	protected.Get("/purchase-orders", middleware.RequirePrivilege("po:view"), poHandler.GetAll)
	protected.Get("/purchase-orders/:id", middleware.RequirePrivilege("po:view"), poHandler.GetByID)
	protected.Post("/purchase-orders", middleware.RequirePrivilege("po:create"), poHandler.Create)
	protected.Put("/purchase-orders/:id/materials/:materialId/received", middleware.RequirePrivilege("po:update"), poHandler.UpdateReceived)
	protected.Put("/purchase-orders/:id/close", middleware.RequirePrivilege("po:update"), poHandler.Close)

	// Trips
	protected.Get("/trips", middleware.RequirePrivilege("trip:view"), tripHandler.GetTrips)
	protected.Get("/trips/:id", middleware.RequirePrivilege("trip:view"), tripHandler.GetTrip)
	protected.Post("/trips", middleware.RequirePrivilege("trip:create"), tripHandler.CreateTrip)
	protected.Post("/trips/:id/advance", middleware.RequirePrivilege("trip:advance"), tripHandler.Advance)
	protected.Post("/trips/:id/fail", middleware.RequirePrivilege("trip:fail"), tripHandler.Fail)
	protected.Get("/trips/:id/history", middleware.RequirePrivilege("trip:view"), tripHandler.History)

	// Weights
	protected.Get("/trips/:id/weights", middleware.RequirePrivilege("weight:view"), weightHandler.ListByTrip)
	protected.Post("/trips/:id/weights", middleware.RequirePrivilege("weight:capture"), weightHandler.Capture)

	// Unloadings
	protected.Get("/trips/:id/unloadings", middleware.RequirePrivilege("unloading:view"), unloadingHandler.ListByTrip)
	protected.Post("/trips/:id/unloadings", middleware.RequirePrivilege("unloading:verify"), unloadingHandler.Verify)

	// User Management
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Roles
	protected.Get("/roles", roleHandler.GetRoles)

	// Privileges (list all available privileges)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket Routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})

	// Dashboard subscribers: receive trip/weight/registration events and
	// rebroadcast detection frames.
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// Gate camera device feed: every message is a detection frame.
	// Malformed frames are reported back on the device connection and
	// dropped; they never reach dashboard clients.
	app.Get("/ws/detections", websocket.New(func(c *websocket.Conn) {
		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				break
			}
			if err := wsHub.PublishDetection(raw); err != nil {
				c.WriteJSON(fiber.Map{"error": err.Error()})
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		port := cfg.ServerPort
		if port == "" {
			port = os.Getenv("PORT")
		}
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets ALL privileges
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		db.Model(&masterRole).Association("Privileges").Replace(allPrivileges)
		log.Println("MASTER_ADMIN role assigned all privileges")
	}

	// ADMIN gets everything except user management
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		adminPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if p.Code != "user:create" && p.Code != "user:update" && p.Code != "user:delete" && p.Code != "user:update_privilege" {
				adminPrivileges = append(adminPrivileges, p)
			}
		}
		db.Model(&adminRole).Association("Privileges").Replace(adminPrivileges)
		log.Println("ADMIN role assigned limited privileges")
	}

	// Operational roles get their fixed privilege sets
	for roleCode, codes := range model.RolePrivilegeCodes {
		role, err := roleRepo.FindByCode(roleCode)
		if err != nil || len(role.Privileges) > 0 {
			continue
		}
		privileges, err := privilegeRepo.FindByCodes(codes)
		if err != nil {
			log.Printf("Warning: Failed to load privileges for %s: %v", roleCode, err)
			continue
		}
		db.Model(&role).Association("Privileges").Replace(privileges)
		log.Printf("%s role assigned %d privileges", roleCode, len(privileges))
	}

	// 4. Create default admin user with MASTER_ADMIN role
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Email:       "admin@example.com",
			FullName:    "Master Administrator",
			PhoneNumber: "",
			RoleID:      &masterRole.ID,
			IsActive:    true,
			Privileges:  masterRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin@example.com / admin123 (MASTER_ADMIN)")
		}
	}
}
