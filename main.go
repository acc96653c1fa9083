// main.go
// FieldOps Central API
// Serves the maintenance-service admin console: clients, equipment, service
// tasks, protocol templates and role-based user accounts over Firestore,
// with live mirrored views backing the console's real-time tables.

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fieldops/auth"
	"fieldops/config"
	"fieldops/db"
	"fieldops/handlers"
	"fieldops/middleware"
	"fieldops/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	cfg := config.Load()
	cfg.Validate()

	log.Printf("🚀 Starting FieldOps API Server")
	log.Printf("📍 Environment: %s", cfg.Server.Environment)
	log.Printf("🔧 Port: %s", cfg.Server.Port)

	ctx := context.Background()
	store, err := db.NewFirestoreDB(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsPath)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Firestore: %v", err)
	}
	defer store.Close()

	jwtManager := auth.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.Expiration,
		cfg.JWT.RefreshTokenExpiration,
	)
	log.Printf("🔐 JWT Manager initialized (expiration: %v)", cfg.JWT.Expiration)

	authHandler := handlers.NewAuthHandler(store, jwtManager)
	adminHandler := handlers.NewAdminHandler(store)
	templateHandler := handlers.NewTemplateHandler(store)
	clientHandler := handlers.NewClientHandler(store)
	equipmentHandler := handlers.NewEquipmentHandler(store)
	taskHandler := handlers.NewTaskHandler(store)
	supervisorHandler := handlers.NewSupervisorHandler(store)
	liveHandler := handlers.NewLiveHandler(store)
	defer liveHandler.Close()
	log.Printf("✅ Handlers initialized")

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	rateLimiter.CleanupOldLimiters()
	log.Printf("🛡️  Rate limiter initialized (%d requests per %v)", cfg.RateLimit.Requests, cfg.RateLimit.Window)

	mux := http.NewServeMux()

	// Public routes (no authentication required)
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/api/login", authHandler.Login)
	mux.HandleFunc("/api/refresh", authHandler.RefreshToken)

	// Protected routes (authentication required)
	authMiddleware := middleware.AuthMiddleware(jwtManager, store)

	// Admin endpoints (admin only)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	mux.Handle("/api/admin/users", authMiddleware(adminOnly(http.HandlerFunc(adminHandler.GetUsers))))
	mux.Handle("/api/admin/users/create", authMiddleware(adminOnly(http.HandlerFunc(adminHandler.CreateUser))))
	mux.Handle("/api/admin/users/update", authMiddleware(adminOnly(http.HandlerFunc(adminHandler.UpdateUser))))
	mux.Handle("/api/admin/users/delete", authMiddleware(adminOnly(http.HandlerFunc(adminHandler.DeleteUser))))
	mux.Handle("/api/admin/templates", authMiddleware(adminOnly(http.HandlerFunc(templateHandler.GetTemplates))))
	mux.Handle("/api/admin/templates/create", authMiddleware(adminOnly(http.HandlerFunc(templateHandler.CreateTemplate))))
	mux.Handle("/api/admin/templates/update", authMiddleware(adminOnly(http.HandlerFunc(templateHandler.UpdateTemplate))))
	mux.Handle("/api/admin/templates/delete", authMiddleware(adminOnly(http.HandlerFunc(templateHandler.DeleteTemplate))))

	// Management endpoints (supervisor or admin)
	supervisorOrAdmin := middleware.RequireRole(models.RoleSupervisor, models.RoleAdmin)
	mux.Handle("/api/clients", authMiddleware(supervisorOrAdmin(http.HandlerFunc(clientHandler.GetClients))))
	mux.Handle("/api/clients/create", authMiddleware(supervisorOrAdmin(http.HandlerFunc(clientHandler.CreateClient))))
	mux.Handle("/api/clients/update", authMiddleware(supervisorOrAdmin(http.HandlerFunc(clientHandler.UpdateClient))))
	mux.Handle("/api/clients/delete", authMiddleware(supervisorOrAdmin(http.HandlerFunc(clientHandler.DeleteClient))))
	mux.Handle("/api/equipment", authMiddleware(supervisorOrAdmin(http.HandlerFunc(equipmentHandler.GetEquipment))))
	mux.Handle("/api/equipment/create", authMiddleware(supervisorOrAdmin(http.HandlerFunc(equipmentHandler.CreateEquipment))))
	mux.Handle("/api/equipment/update", authMiddleware(supervisorOrAdmin(http.HandlerFunc(equipmentHandler.UpdateEquipment))))
	mux.Handle("/api/equipment/delete", authMiddleware(supervisorOrAdmin(http.HandlerFunc(equipmentHandler.DeleteEquipment))))
	mux.Handle("/api/supervisor/export", authMiddleware(supervisorOrAdmin(http.HandlerFunc(supervisorHandler.ExportTasks))))
	mux.Handle("/api/supervisor/reset-password", authMiddleware(supervisorOrAdmin(http.HandlerFunc(supervisorHandler.ResetPassword))))

	// Task endpoints (any authenticated role; technicians see only their own)
	mux.Handle("/api/tasks", authMiddleware(http.HandlerFunc(taskHandler.GetTasks)))
	mux.Handle("/api/tasks/create", authMiddleware(supervisorOrAdmin(http.HandlerFunc(taskHandler.CreateTask))))
	mux.Handle("/api/tasks/update", authMiddleware(supervisorOrAdmin(http.HandlerFunc(taskHandler.UpdateTask))))
	mux.Handle("/api/tasks/assign", authMiddleware(supervisorOrAdmin(http.HandlerFunc(taskHandler.AssignTask))))
	mux.Handle("/api/tasks/start", authMiddleware(http.HandlerFunc(taskHandler.StartTask)))
	mux.Handle("/api/tasks/complete", authMiddleware(http.HandlerFunc(taskHandler.CompleteTask)))
	mux.Handle("/api/tasks/cancel", authMiddleware(supervisorOrAdmin(http.HandlerFunc(taskHandler.CancelTask))))
	mux.Handle("/api/tasks/delete", authMiddleware(adminOnly(http.HandlerFunc(taskHandler.DeleteTask))))

	// Live mirrored views backing the console's real-time tables
	mux.Handle("/api/live/clients", authMiddleware(supervisorOrAdmin(http.HandlerFunc(liveHandler.Clients))))
	mux.Handle("/api/live/equipment", authMiddleware(supervisorOrAdmin(http.HandlerFunc(liveHandler.Equipment))))
	mux.Handle("/api/live/tasks", authMiddleware(http.HandlerFunc(liveHandler.Tasks)))
	mux.Handle("/api/live/users", authMiddleware(adminOnly(http.HandlerFunc(liveHandler.Users))))
	mux.Handle("/api/live/templates", authMiddleware(supervisorOrAdmin(http.HandlerFunc(liveHandler.Templates))))

	// Apply global middleware
	handler := middleware.CORSMiddleware(cfg.CORS.AllowedOrigins)(mux)
	handler = rateLimiter.Middleware()(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("✅ Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

// Health check endpoint
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":%d,"version":"1.0.0"}`, time.Now().Unix())
}
