// Command seed creates the bootstrap roles and the initial administrator
// account. It is idempotent: existing rows are left untouched.
package main

import (
	"log"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/henningcullin/service-system/internal/auth"
	"github.com/henningcullin/service-system/internal/config"
	"github.com/henningcullin/service-system/internal/db"
	"github.com/henningcullin/service-system/internal/model"
)

func main() {
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.Role{},
		&model.Facility{},
		&model.User{},
		&model.MachineType{},
		&model.MachineStatus{},
		&model.TaskType{},
		&model.TaskStatus{},
		&model.ReportType{},
		&model.ReportStatus{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	seedVocabularies(gormDB)

	admin := model.Role{
		Name:        "Administrator",
		Level:       1,
		HasPassword: true,

		UserView:   true,
		UserCreate: true,
		UserEdit:   true,
		UserDelete: true,

		MachineView:   true,
		MachineCreate: true,
		MachineEdit:   true,
		MachineDelete: true,

		TaskView:   true,
		TaskCreate: true,
		TaskEdit:   true,
		TaskDelete: true,

		ReportView:   true,
		ReportCreate: true,
		ReportEdit:   true,
		ReportDelete: true,

		FacilityView:   true,
		FacilityCreate: true,
		FacilityEdit:   true,
		FacilityDelete: true,
	}

	// Passwordless role for field staff, view access only.
	worker := model.Role{
		Name:        "Worker",
		Level:       100,
		HasPassword: false,

		UserView:     true,
		MachineView:  true,
		TaskView:     true,
		ReportView:   true,
		FacilityView: true,
	}

	if err := ensureRole(gormDB, &admin); err != nil {
		log.Fatalf("seed role %q: %v", admin.Name, err)
	}
	if err := ensureRole(gormDB, &worker); err != nil {
		log.Fatalf("seed role %q: %v", worker.Name, err)
	}

	adminEmail := strings.ToLower(getenv("ADMIN_EMAIL", "admin@example.com"))
	adminPassword := getenv("ADMIN_PASSWORD", "changeme")

	var count int64
	if err := gormDB.Model(&model.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		log.Fatalf("seed admin lookup: %v", err)
	}
	if count > 0 {
		log.Printf("admin user %s already exists, nothing to do", adminEmail)
		return
	}

	hash, err := auth.HashSecret(adminPassword)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}

	user := model.User{
		FirstName: "System",
		LastName:  "Administrator",
		Email:     adminEmail,
		Password:  &hash,
		RoleID:    admin.ID,
		Active:    true,
	}
	if err := gormDB.Create(&user).Error; err != nil {
		log.Fatalf("seed admin user: %v", err)
	}

	log.Printf("seeded admin user %s", adminEmail)
}

// ensureRole loads the role by name, creating it when absent. The loaded
// row wins so later edits through the API survive reseeding.
func ensureRole(gormDB *gorm.DB, role *model.Role) error {
	return gormDB.Where(model.Role{Name: role.Name}).FirstOrCreate(role).Error
}

// seedVocabularies creates a starter set of type and status rows. Machines,
// tasks and reports reference these by id, so an empty vocabulary blocks
// creation entirely.
func seedVocabularies(gormDB *gorm.DB) {
	for _, name := range []string{"Production", "Utility"} {
		ensureVocab(gormDB, &model.MachineType{Name: name})
	}
	for _, name := range []string{"Active", "Inactive"} {
		ensureVocab(gormDB, &model.MachineStatus{Name: name})
	}
	for _, name := range []string{"Inspection", "Repair", "Service"} {
		ensureVocab(gormDB, &model.TaskType{Name: name})
	}
	for _, name := range []string{"Pending", "Active", "Completed"} {
		ensureVocab(gormDB, &model.TaskStatus{Name: name})
	}
	for _, name := range []string{"Improvement suggestion", "Fault report"} {
		ensureVocab(gormDB, &model.ReportType{Name: name})
	}
	for _, name := range []string{"Pending", "Reviewed", "Resolved"} {
		ensureVocab(gormDB, &model.ReportStatus{Name: name})
	}
}

func ensureVocab[T any](gormDB *gorm.DB, row *T) {
	if err := gormDB.Where(row).FirstOrCreate(row).Error; err != nil {
		log.Fatalf("seed vocabulary row: %v", err)
	}
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
