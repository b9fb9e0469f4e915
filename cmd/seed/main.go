package main

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"salescrm/internal/database"
	"salescrm/internal/domain"
	"salescrm/internal/domain/conversion"
	"salescrm/internal/domain/lead"
)

func main() {
	db, err := database.Connect("salescrm.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.Tenant{},
		&domain.User{},
		&domain.Employee{},
		&domain.Campaign{},
		&domain.Product{},
		&domain.Category{},
		&domain.Interest{},
		&domain.Conversation{},
		&domain.Client{},
		&lead.Lead{},
		&lead.Assignment{},
		&conversion.ClientApprovalRequest{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM client_approval_requests")
	db.Exec("DELETE FROM lead_assignments")
	db.Exec("DELETE FROM leads")
	db.Exec("DELETE FROM clients")
	db.Exec("DELETE FROM conversations")
	db.Exec("DELETE FROM products")
	db.Exec("DELETE FROM campaigns")
	db.Exec("DELETE FROM interests")
	db.Exec("DELETE FROM categories")
	db.Exec("DELETE FROM employees")
	db.Exec("DELETE FROM users")
	db.Exec("DELETE FROM tenants")

	tenant := domain.Tenant{Name: "Acme Sales"}
	db.Create(&tenant)

	log.Println("Creating users and employees...")

	hash := func(pw string) string {
		h, _ := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		return string(h)
	}

	admin := domain.User{TenantID: tenant.ID, Email: "admin@acme.test", PasswordHash: hash("admin123"), Role: domain.RoleAdmin, Name: "Admin"}
	db.Create(&admin)

	managers := []string{"Maria", "Daniyar"}
	var employees []domain.Employee
	for _, name := range managers {
		u := domain.User{TenantID: tenant.ID, Email: name + "@acme.test", PasswordHash: hash("manager123"), Role: domain.RoleLeadManager, Name: name}
		db.Create(&u)
		e := domain.Employee{TenantID: tenant.ID, UserID: u.ID, Name: name, Role: domain.RoleLeadManager}
		db.Create(&e)
		employees = append(employees, e)
	}

	agents := []string{"Aidos", "Sofia", "Timur"}
	for _, name := range agents {
		u := domain.User{TenantID: tenant.ID, Email: name + "@acme.test", PasswordHash: hash("agent123"), Role: domain.RoleAgent, Name: name}
		db.Create(&u)
		e := domain.Employee{TenantID: tenant.ID, UserID: u.ID, Name: name, Role: domain.RoleAgent}
		db.Create(&e)
		employees = append(employees, e)
	}

	log.Println("Creating campaigns, products, lookups...")

	now := time.Now()
	active := domain.Campaign{TenantID: tenant.ID, Name: "Autumn Promo", StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0)}
	expired := domain.Campaign{TenantID: tenant.ID, Name: "Spring Promo", StartDate: now.AddDate(0, -6, 0), EndDate: now.AddDate(0, -5, 0)}
	db.Create(&active)
	db.Create(&expired)

	products := []domain.Product{
		{
			TenantID:       tenant.ID,
			Name:           "CRM Pro License",
			PurchasePrice:  decimal.NewFromInt(200),
			SalePrice:      decimal.NewFromInt(350),
			LeadPoints:     decimal.NewFromInt(10),
			CustomerPoints: decimal.NewFromInt(5),
		},
		{
			TenantID:      tenant.ID,
			Name:          "Starter Package",
			PurchasePrice: decimal.NewFromInt(50),
			SalePrice:     decimal.NewFromInt(80),
		},
	}
	for i := range products {
		db.Create(&products[i])
	}

	db.Create(&domain.Category{TenantID: tenant.ID, Name: "Software"})
	db.Create(&domain.Interest{TenantID: tenant.ID, Name: "Automation"})

	log.Println("Creating conversations and sample leads...")

	conv := domain.Conversation{
		TenantID:       tenant.ID,
		Platform:       "telegram",
		PlatformUserID: "tg-100500",
		CustomerName:   "Olzhas K.",
		CustomerPhone:  "+7 700 000 00 00",
		CustomerEmail:  "olzhas@example.com",
	}
	db.Create(&conv)

	creator := employees[2] // first agent
	l := lead.Lead{
		TenantID:     tenant.ID,
		Title:        "CRM rollout for Olzhas",
		Source:       lead.SourceInbox,
		CustomerName: conv.CustomerName,
		Status:       lead.StatusNew,
		CampaignID:   &active.ID,
		ProductID:    &products[0].ID,
		CreatorID:    creator.ID,
	}
	convID := conv.ID
	l.ConversationID = &convID
	db.Create(&l)

	// mirror the creation credit the service would apply
	db.Model(&domain.Employee{}).Where("id = ?", creator.ID).
		Update("reserve_points", products[0].LeadPoints)

	log.Println("Seed complete.")
	log.Printf("tenant=%d users=%d employees=%d leads=1", tenant.ID, 1+len(managers)+len(agents), len(employees))
}
