package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"fieldops/auth"
	"fieldops/config"
	"fieldops/db"
	"fieldops/models"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	cfg := config.Load()
	cfg.Validate()

	// Initialize Firestore
	ctx := context.Background()
	firestoreDB, err := db.NewFirestoreDB(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firestore: %v", err)
	}
	defer firestoreDB.Close()

	log.Println("🌱 Starting database seeding...")

	if err := seedUsers(firestoreDB); err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	if err := seedClients(firestoreDB); err != nil {
		log.Fatalf("Failed to seed clients: %v", err)
	}

	if err := seedEquipment(firestoreDB); err != nil {
		log.Fatalf("Failed to seed equipment: %v", err)
	}

	if err := seedTemplates(firestoreDB); err != nil {
		log.Fatalf("Failed to seed templates: %v", err)
	}

	if err := seedTasks(firestoreDB); err != nil {
		log.Fatalf("Failed to seed tasks: %v", err)
	}

	log.Println("✅ Database seeding completed successfully!")
}

func seedUsers(firestoreDB *db.FirestoreDB) error {
	users := []struct {
		User     models.User
		Password string
	}{
		{
			User: models.User{
				UserID:    "user-admin",
				Email:     "admin@fieldops.example",
				FullName:  "System Administrator",
				Role:      models.RoleAdmin,
				CreatedAt: time.Now(),
			},
			Password: "admin1234",
		},
		{
			User: models.User{
				UserID:    "user-supervisor-laura",
				Email:     "laura@fieldops.example",
				FullName:  "Laura Mendez",
				Phone:     "+52 55 1234 5678",
				Role:      models.RoleSupervisor,
				CreatedAt: time.Now(),
			},
			Password: "super1234",
		},
		{
			User: models.User{
				UserID:    "user-tech-carlos",
				Email:     "carlos@fieldops.example",
				FullName:  "Carlos Rivera",
				Phone:     "+52 55 2345 6789",
				Role:      models.RoleTechnician,
				CreatedAt: time.Now(),
			},
			Password: "tech1234",
		},
		{
			User: models.User{
				UserID:    "user-tech-ana",
				Email:     "ana@fieldops.example",
				FullName:  "Ana Torres",
				Phone:     "+52 55 3456 7890",
				Role:      models.RoleTechnician,
				CreatedAt: time.Now(),
			},
			Password: "tech1234",
		},
	}

	for _, userData := range users {
		// Create user
		if err := firestoreDB.CreateUser(&userData.User); err != nil {
			return fmt.Errorf("failed to create user %s: %w", userData.User.Email, err)
		}

		// Hash and store password
		passwordHash, err := auth.HashPassword(userData.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", userData.User.Email, err)
		}

		if err := firestoreDB.StorePasswordHash(userData.User.UserID, passwordHash); err != nil {
			return fmt.Errorf("failed to store password for %s: %w", userData.User.Email, err)
		}

		log.Printf("  ✓ Created user: %s (role: %s)", userData.User.Email, userData.User.Role)
	}

	return nil
}

func seedClients(firestoreDB *db.FirestoreDB) error {
	clients := []models.Client{
		{
			ClientID:    "client-lavanderia-central",
			Name:        "Lavandería Central",
			TaxID:       "LCE850101AB1",
			Address:     "Av. Insurgentes Sur 1425, Ciudad de México",
			Phone:       "+52 55 5555 0101",
			Email:       "contacto@lavanderiacentral.example",
			ContactName: "Miguel Ángel Soto",
			Latitude:    19.3845,
			Longitude:   -99.1768,
			CreatedAt:   time.Now(),
		},
		{
			ClientID:    "client-hotel-mirador",
			Name:        "Hotel El Mirador",
			TaxID:       "HMI920315CD2",
			Address:     "Paseo de la Reforma 325, Ciudad de México",
			Phone:       "+52 55 5555 0202",
			Email:       "mantenimiento@hotelmirador.example",
			ContactName: "Patricia Luna",
			Latitude:    19.4284,
			Longitude:   -99.1677,
			CreatedAt:   time.Now(),
		},
		{
			ClientID:    "client-hospital-norte",
			Name:        "Hospital del Norte",
			TaxID:       "HNO880620EF3",
			Address:     "Calz. Vallejo 1020, Ciudad de México",
			Phone:       "+52 55 5555 0303",
			Email:       "servicios@hospitalnorte.example",
			ContactName: "Dr. Ernesto Vega",
			Latitude:    19.4978,
			Longitude:   -99.1561,
			CreatedAt:   time.Now(),
		},
	}

	for _, client := range clients {
		if err := firestoreDB.CreateClient(&client); err != nil {
			return fmt.Errorf("failed to create client %s: %w", client.ClientID, err)
		}
		log.Printf("  ✓ Created client: %s", client.Name)
	}

	return nil
}

func seedEquipment(firestoreDB *db.FirestoreDB) error {
	units := []models.Equipment{
		{
			EquipmentID:  "equipment-boiler-01",
			ClientID:     "client-lavanderia-central",
			Name:         "Caldera industrial",
			Model:        "Cleaver-Brooks CB-200",
			SerialNumber: "CB200-44781",
			Status:       models.EquipmentOperational,
			TemplateID:   "template-boiler-preventive",
			CreatedAt:    time.Now(),
		},
		{
			EquipmentID:  "equipment-washer-03",
			ClientID:     "client-lavanderia-central",
			Name:         "Lavadora industrial #3",
			Model:        "Milnor 36026V5Z",
			SerialNumber: "MN-36026-0093",
			Status:       models.EquipmentMaintenance,
			CreatedAt:    time.Now(),
		},
		{
			EquipmentID:  "equipment-chiller-01",
			ClientID:     "client-hotel-mirador",
			Name:         "Chiller torre norte",
			Model:        "Carrier 30XA-220",
			SerialNumber: "CR-30XA-5512",
			Status:       models.EquipmentOperational,
			TemplateID:   "template-hvac-preventive",
			CreatedAt:    time.Now(),
		},
		{
			EquipmentID:  "equipment-generator-01",
			ClientID:     "client-hospital-norte",
			Name:         "Generador de emergencia",
			Model:        "Cummins C500D6",
			SerialNumber: "CM-C500-8841",
			Status:       models.EquipmentOperational,
			CreatedAt:    time.Now(),
		},
	}

	for _, unit := range units {
		if err := firestoreDB.CreateEquipment(&unit); err != nil {
			return fmt.Errorf("failed to create equipment %s: %w", unit.EquipmentID, err)
		}
		log.Printf("  ✓ Created equipment: %s (client: %s)", unit.Name, unit.ClientID)
	}

	return nil
}

func seedTemplates(firestoreDB *db.FirestoreDB) error {
	templates := []models.Template{
		{
			TemplateID:  "template-boiler-preventive",
			Name:        "Mantenimiento preventivo de caldera",
			Category:    "Calderas",
			ServiceType: models.ServicePreventive,
			Activities: []string{
				"Revisar presión de operación",
				"Inspeccionar válvulas de seguridad",
				"Limpiar quemadores",
				"Verificar niveles de agua",
				"Registrar lecturas de temperatura",
			},
			Active:    true,
			CreatedAt: time.Now(),
		},
		{
			TemplateID:  "template-hvac-preventive",
			Name:        "Mantenimiento preventivo HVAC",
			Category:    "Climatización",
			ServiceType: models.ServicePreventive,
			Activities: []string{
				"Limpiar filtros de aire",
				"Revisar niveles de refrigerante",
				"Inspeccionar bandas y poleas",
				"Medir consumo eléctrico",
			},
			Active:    true,
			CreatedAt: time.Now(),
		},
		{
			TemplateID:  "template-emergency-checklist",
			Name:        "Protocolo de atención de emergencia",
			Category:    "General",
			ServiceType: models.ServiceEmergency,
			Activities: []string{
				"Evaluar condición del equipo",
				"Documentar falla reportada",
				"Aplicar corrección o aislamiento",
				"Notificar al supervisor",
			},
			Active:    true,
			CreatedAt: time.Now(),
		},
	}

	for _, template := range templates {
		if err := firestoreDB.CreateTemplate(&template); err != nil {
			return fmt.Errorf("failed to create template %s: %w", template.TemplateID, err)
		}
		log.Printf("  ✓ Created template: %s", template.Name)
	}

	return nil
}

func seedTasks(firestoreDB *db.FirestoreDB) error {
	tomorrow := time.Now().AddDate(0, 0, 1)
	nextWeek := time.Now().AddDate(0, 0, 7)

	tasks := []models.Task{
		{
			TaskID:        "task-boiler-service",
			CompanyID:     "client-lavanderia-central",
			ClientName:    "Lavandería Central",
			ContactName:   "Miguel Ángel Soto",
			Address:       "Av. Insurgentes Sur 1425, Ciudad de México",
			ScheduledDate: tomorrow,
			ScheduledTime: "09:00",
			Equipment: []models.TaskEquipment{
				{
					EquipmentID:  "equipment-boiler-01",
					Name:         "Caldera industrial",
					TemplateID:   "template-boiler-preventive",
					TemplateName: "Mantenimiento preventivo de caldera",
				},
			},
			ServiceType:  models.ServicePreventive,
			Priority:     models.PriorityHigh,
			Status:       models.TaskPending,
			TechnicianID: "user-tech-carlos",
			Description:  "Servicio trimestral programado",
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		},
		{
			TaskID:        "task-chiller-inspection",
			CompanyID:     "client-hotel-mirador",
			ClientName:    "Hotel El Mirador",
			ContactName:   "Patricia Luna",
			Address:       "Paseo de la Reforma 325, Ciudad de México",
			ScheduledDate: nextWeek,
			ScheduledTime: "14:30",
			Equipment: []models.TaskEquipment{
				{
					EquipmentID:  "equipment-chiller-01",
					Name:         "Chiller torre norte",
					TemplateID:   "template-hvac-preventive",
					TemplateName: "Mantenimiento preventivo HVAC",
				},
			},
			ServiceType: models.ServicePreventive,
			Priority:    models.PriorityMedium,
			Status:      models.TaskPending,
			Description: "Inspección previa a temporada alta",
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		},
	}

	for _, task := range tasks {
		if err := firestoreDB.CreateTask(&task); err != nil {
			return fmt.Errorf("failed to create task %s: %w", task.TaskID, err)
		}
		log.Printf("  ✓ Created task: %s (%s)", task.TaskID, task.ClientName)
	}

	return nil
}
