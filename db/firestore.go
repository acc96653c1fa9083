package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"fieldops/models"
	"fieldops/normalize"
)

// Collection names. Legacy documents inside them may still carry Spanish
// field names; every read goes through the normalize package.
const (
	colClients   = "clients"
	colEquipment = "equipment"
	colTasks     = "tasks"
	colUsers     = "users"
	colTemplates = "templates"
	colPasswords = "passwords"
	colAuditLogs = "audit_logs"
)

// FirestoreDB wraps the Firestore client
type FirestoreDB struct {
	client *firestore.Client
	ctx    context.Context
}

// NewFirestoreDB initializes a new Firestore client
func NewFirestoreDB(ctx context.Context, projectID, credentialsPath string) (*FirestoreDB, error) {
	opt := option.WithCredentialsFile(credentialsPath)

	config := &firebase.Config{ProjectID: projectID}
	app, err := firebase.NewApp(ctx, config, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firestore client: %w", err)
	}

	log.Printf("✅ Connected to Firestore project: %s", projectID)

	return &FirestoreDB{
		client: client,
		ctx:    ctx,
	}, nil
}

// Close closes the Firestore client
func (db *FirestoreDB) Close() error {
	return db.client.Close()
}

// collect drains a document iterator into raw id+data pairs. Parsing is
// deferred to the normalize package, which tolerates any document shape.
func collect(iter *firestore.DocumentIterator) ([]RawDoc, error) {
	defer iter.Stop()

	var docs []RawDoc
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, RawDoc{ID: doc.Ref.ID, Data: doc.Data()})
	}
	return docs, nil
}

// --- Client Operations ---

// CreateClient creates a new client in Firestore
func (db *FirestoreDB) CreateClient(client *models.Client) error {
	_, err := db.client.Collection(colClients).Doc(client.ClientID).Set(db.ctx, client)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// GetClient retrieves a client by ID
func (db *FirestoreDB) GetClient(clientID string) (*models.Client, error) {
	doc, err := db.client.Collection(colClients).Doc(clientID).Get(db.ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	client := normalize.ParseClient(doc.Ref.ID, doc.Data())
	return &client, nil
}

// GetAllClients retrieves all clients
func (db *FirestoreDB) GetAllClients() ([]models.Client, error) {
	docs, err := collect(db.client.Collection(colClients).Documents(db.ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}

	clients := make([]models.Client, 0, len(docs))
	for _, doc := range docs {
		clients = append(clients, normalize.ParseClient(doc.ID, doc.Data))
	}
	return clients, nil
}

// UpdateClient updates an existing client
func (db *FirestoreDB) UpdateClient(client *models.Client) error {
	_, err := db.client.Collection(colClients).Doc(client.ClientID).Set(db.ctx, client)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	return nil
}

// DeleteClient deletes a client
func (db *FirestoreDB) DeleteClient(clientID string) error {
	_, err := db.client.Collection(colClients).Doc(clientID).Delete(db.ctx)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

// --- Equipment Operations ---

// CreateEquipment creates a new equipment record
func (db *FirestoreDB) CreateEquipment(equipment *models.Equipment) error {
	_, err := db.client.Collection(colEquipment).Doc(equipment.EquipmentID).Set(db.ctx, equipment)
	if err != nil {
		return fmt.Errorf("failed to create equipment: %w", err)
	}
	return nil
}

// GetEquipment retrieves an equipment record by ID
func (db *FirestoreDB) GetEquipment(equipmentID string) (*models.Equipment, error) {
	doc, err := db.client.Collection(colEquipment).Doc(equipmentID).Get(db.ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}

	equipment := normalize.ParseEquipment(doc.Ref.ID, doc.Data())
	return &equipment, nil
}

// GetAllEquipment retrieves all equipment records
func (db *FirestoreDB) GetAllEquipment() ([]models.Equipment, error) {
	return db.equipmentFrom(db.client.Collection(colEquipment).Documents(db.ctx))
}

// GetEquipmentByClient retrieves the equipment installed at one client site
func (db *FirestoreDB) GetEquipmentByClient(clientID string) ([]models.Equipment, error) {
	iter := db.client.Collection(colEquipment).
		Where("client_id", "==", clientID).
		Documents(db.ctx)
	return db.equipmentFrom(iter)
}

func (db *FirestoreDB) equipmentFrom(iter *firestore.DocumentIterator) ([]models.Equipment, error) {
	docs, err := collect(iter)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate equipment: %w", err)
	}

	equipment := make([]models.Equipment, 0, len(docs))
	for _, doc := range docs {
		equipment = append(equipment, normalize.ParseEquipment(doc.ID, doc.Data))
	}
	return equipment, nil
}

// UpdateEquipment updates an existing equipment record
func (db *FirestoreDB) UpdateEquipment(equipment *models.Equipment) error {
	_, err := db.client.Collection(colEquipment).Doc(equipment.EquipmentID).Set(db.ctx, equipment)
	if err != nil {
		return fmt.Errorf("failed to update equipment: %w", err)
	}
	return nil
}

// DeleteEquipment deletes an equipment record
func (db *FirestoreDB) DeleteEquipment(equipmentID string) error {
	_, err := db.client.Collection(colEquipment).Doc(equipmentID).Delete(db.ctx)
	if err != nil {
		return fmt.Errorf("failed to delete equipment: %w", err)
	}
	return nil
}

// --- Task Operations ---

// CreateTask creates a new task in Firestore
func (db *FirestoreDB) CreateTask(task *models.Task) error {
	_, err := db.client.Collection(colTasks).Doc(task.TaskID).Set(db.ctx, task)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by ID
func (db *FirestoreDB) GetTask(taskID string) (*models.Task, error) {
	doc, err := db.client.Collection(colTasks).Doc(taskID).Get(db.ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	task := normalize.ParseTask(doc.Ref.ID, doc.Data())
	return &task, nil
}

// GetAllTasks retrieves all tasks
func (db *FirestoreDB) GetAllTasks() ([]models.Task, error) {
	return db.tasksFrom(db.client.Collection(colTasks).Documents(db.ctx))
}

// GetTasksByTechnician retrieves tasks assigned to a specific technician
func (db *FirestoreDB) GetTasksByTechnician(technicianID string) ([]models.Task, error) {
	iter := db.client.Collection(colTasks).
		Where("technician_id", "==", technicianID).
		Documents(db.ctx)
	return db.tasksFrom(iter)
}

func (db *FirestoreDB) tasksFrom(iter *firestore.DocumentIterator) ([]models.Task, error) {
	docs, err := collect(iter)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	tasks := make([]models.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, normalize.ParseTask(doc.ID, doc.Data))
	}
	return tasks, nil
}

// UpdateTask updates an existing task, stamping the server-side update time
func (db *FirestoreDB) UpdateTask(task *models.Task) error {
	task.UpdatedAt = time.Now()
	_, err := db.client.Collection(colTasks).Doc(task.TaskID).Set(db.ctx, task)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

// DeleteTask deletes a task
func (db *FirestoreDB) DeleteTask(taskID string) error {
	_, err := db.client.Collection(colTasks).Doc(taskID).Delete(db.ctx)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// --- User Operations ---

// CreateUser creates a new user in Firestore
func (db *FirestoreDB) CreateUser(user *models.User) error {
	_, err := db.client.Collection(colUsers).Doc(user.UserID).Set(db.ctx, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID
func (db *FirestoreDB) GetUser(userID string) (*models.User, error) {
	doc, err := db.client.Collection(colUsers).Doc(userID).Get(db.ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user := normalize.ParseUser(doc.Ref.ID, doc.Data())
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (db *FirestoreDB) GetUserByEmail(email string) (*models.User, error) {
	iter := db.client.Collection(colUsers).
		Where("email", "==", email).
		Limit(1).
		Documents(db.ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("user not found: %s", email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user := normalize.ParseUser(doc.Ref.ID, doc.Data())
	return &user, nil
}

// GetAllUsers retrieves all users
func (db *FirestoreDB) GetAllUsers() ([]models.User, error) {
	docs, err := collect(db.client.Collection(colUsers).Documents(db.ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, normalize.ParseUser(doc.ID, doc.Data))
	}
	return users, nil
}

// UpdateUser updates an existing user
func (db *FirestoreDB) UpdateUser(user *models.User) error {
	_, err := db.client.Collection(colUsers).Doc(user.UserID).Set(db.ctx, user)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// DeleteUser deletes a user
func (db *FirestoreDB) DeleteUser(userID string) error {
	_, err := db.client.Collection(colUsers).Doc(userID).Delete(db.ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// --- Template Operations ---

// CreateTemplate creates a new maintenance protocol template
func (db *FirestoreDB) CreateTemplate(template *models.Template) error {
	_, err := db.client.Collection(colTemplates).Doc(template.TemplateID).Set(db.ctx, template)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

// GetTemplate retrieves a template by ID
func (db *FirestoreDB) GetTemplate(templateID string) (*models.Template, error) {
	doc, err := db.client.Collection(colTemplates).Doc(templateID).Get(db.ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	template := normalize.ParseTemplate(doc.Ref.ID, doc.Data())
	return &template, nil
}

// GetAllTemplates retrieves all templates
func (db *FirestoreDB) GetAllTemplates() ([]models.Template, error) {
	docs, err := collect(db.client.Collection(colTemplates).Documents(db.ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to iterate templates: %w", err)
	}

	templates := make([]models.Template, 0, len(docs))
	for _, doc := range docs {
		templates = append(templates, normalize.ParseTemplate(doc.ID, doc.Data))
	}
	return templates, nil
}

// UpdateTemplate updates an existing template, stamping the update time
func (db *FirestoreDB) UpdateTemplate(template *models.Template) error {
	template.UpdatedAt = time.Now()
	_, err := db.client.Collection(colTemplates).Doc(template.TemplateID).Set(db.ctx, template)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	return nil
}

// DeleteTemplate deletes a template
func (db *FirestoreDB) DeleteTemplate(templateID string) error {
	_, err := db.client.Collection(colTemplates).Doc(templateID).Delete(db.ctx)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

// --- Password Operations ---

// StorePasswordHash stores a password hash for a user
func (db *FirestoreDB) StorePasswordHash(userID, passwordHash string) error {
	_, err := db.client.Collection(colPasswords).Doc(userID).Set(db.ctx, map[string]interface{}{
		"user_id":       userID,
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to store password hash: %w", err)
	}
	return nil
}

// GetPasswordHash retrieves a password hash for a user
func (db *FirestoreDB) GetPasswordHash(userID string) (string, error) {
	doc, err := db.client.Collection(colPasswords).Doc(userID).Get(db.ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get password hash: %w", err)
	}

	data := doc.Data()
	if hash, ok := data["password_hash"].(string); ok {
		return hash, nil
	}

	return "", fmt.Errorf("password hash not found for user: %s", userID)
}

// --- Audit Operations ---

// CreateAuditLog appends an audit trail entry
func (db *FirestoreDB) CreateAuditLog(entry *models.AuditLog) error {
	_, err := db.client.Collection(colAuditLogs).Doc(entry.LogID).Set(db.ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}
