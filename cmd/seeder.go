package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm: %v", err)
		}

		if clearData {
			fmt.Println("Clearing existing data...")
			for _, table := range []string{"maintenance_requests", "equipment", "maintenance_categories", "users", "companies"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

		// Platform admin has no company.
		adminEmail := "admin@gearkeep.io"
		if !rowExists(db, "SELECT 1 FROM users WHERE email = ?", adminEmail) {
			if err := db.Exec(
				"INSERT INTO users (name, email, password_hash, role, is_active, created_at, updated_at) VALUES (?, ?, ?, 'PLATFORM_ADMIN', true, now(), now())",
				"Platform Admin", adminEmail, string(hash)).Error; err != nil {
				log.Fatalf("failed to insert platform admin: %v", err)
			}
			fmt.Println("Seeded platform admin:", adminEmail)
		}

		// Demo tenant.
		companyName := "Acme Manufacturing"
		if !rowExists(db, "SELECT 1 FROM companies WHERE name = ?", companyName) {
			if err := db.Exec(
				"INSERT INTO companies (name, email, phone, address, created_at, updated_at) VALUES (?, 'ops@acme.example', '+1-555-0100', '1 Factory Rd', now(), now())",
				companyName).Error; err != nil {
				log.Fatalf("failed to insert company: %v", err)
			}
			fmt.Println("Seeded company:", companyName)
		}

		var companyID int64
		if err := db.Raw("SELECT id FROM companies WHERE name = ?", companyName).Row().Scan(&companyID); err != nil {
			log.Fatalf("failed to look up company: %v", err)
		}

		users := []struct {
			Name  string
			Email string
			Role  string
		}{
			{"Acme Admin", "admin@acme.example", "COMPANY_ADMIN"},
			{"Tina Wrench", "tina@acme.example", "MAINTENANCE_TEAM"},
			{"Mel Torque", "mel@acme.example", "MAINTENANCE_TEAM"},
			{"Eddie Line", "eddie@acme.example", "EMPLOYEE"},
		}
		for _, u := range users {
			if rowExists(db, "SELECT 1 FROM users WHERE email = ?", u.Email) {
				continue
			}
			if err := db.Exec(
				"INSERT INTO users (name, email, password_hash, role, company_id, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, true, now(), now())",
				u.Name, u.Email, string(hash), u.Role, companyID).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email)
		}

		var adminID int64
		if err := db.Raw("SELECT id FROM users WHERE email = ?", "admin@acme.example").Row().Scan(&adminID); err != nil {
			log.Fatalf("failed to look up company admin: %v", err)
		}

		categoryName := "Mechanical"
		if !rowExists(db, "SELECT 1 FROM maintenance_categories WHERE company_id = ? AND name = ?", companyID, categoryName) {
			if err := db.Exec(
				"INSERT INTO maintenance_categories (company_id, name, description, max_employees, is_active, created_by, created_at, updated_at) VALUES (?, ?, 'Presses, conveyors and line machinery', 0, true, ?, now(), now())",
				companyID, categoryName, adminID).Error; err != nil {
				log.Fatalf("failed to insert category: %v", err)
			}
			fmt.Println("Seeded category:", categoryName)
		}

		var categoryID int64
		if err := db.Raw("SELECT id FROM maintenance_categories WHERE company_id = ? AND name = ?", companyID, categoryName).Row().Scan(&categoryID); err != nil {
			log.Fatalf("failed to look up category: %v", err)
		}

		// Put the maintenance crew on the roster.
		if err := db.Exec(
			"UPDATE users SET maintenance_team_id = ? WHERE company_id = ? AND role = 'MAINTENANCE_TEAM'",
			categoryID, companyID).Error; err != nil {
			log.Fatalf("failed to assign team members: %v", err)
		}

		serial := "PRS-001"
		if !rowExists(db, "SELECT 1 FROM equipment WHERE company_id = ? AND serial_number = ?", companyID, serial) {
			if err := db.Exec(
				"INSERT INTO equipment (company_id, name, serial_number, location, department, maintenance_team_id, status, created_by, created_at, updated_at) VALUES (?, 'Hydraulic Press', ?, 'Hall A', 'Production', ?, 'ACTIVE', ?, now(), now())",
				companyID, serial, categoryID, adminID).Error; err != nil {
				log.Fatalf("failed to insert equipment: %v", err)
			}
			fmt.Println("Seeded equipment:", serial)
		}

		fmt.Println("Seeding complete")
	},
}

func rowExists(db *gorm.DB, query string, args ...interface{}) bool {
	var one int
	return db.Raw(query, args...).Row().Scan(&one) == nil
}
