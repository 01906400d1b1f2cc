package main

import (
	"log"
	"os"

	"reservas/internal/database"
	"reservas/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "reservas.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.Organization{},
		&domain.User{},
		&domain.Room{},
		&domain.Booking{},
		&domain.Event{},
		&domain.Attendee{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	if db.Dialector.Name() == "postgres" {
		log.Println("Ensuring no-overbooking constraint...")
		db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist")
		db.Exec(`ALTER TABLE bookings ADD CONSTRAINT no_overbooking
EXCLUDE USING gist (room_id WITH =, tstzrange(start_time, end_time, '[)') WITH &&)
WHERE (status <> 'cancelled')`)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM attendees")
	db.Exec("DELETE FROM events")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM rooms")
	db.Exec("DELETE FROM users")
	db.Exec("DELETE FROM organizations")

	log.Println("Creating organization...")
	org := domain.Organization{
		Name:        "Uni Tech",
		Slug:        "uni-tech",
		Description: "Centro de inovação e tecnologia",
		Address:     "Av. Tecnologia, 123 - São Paulo, SP",
	}
	if err := db.Create(&org).Error; err != nil {
		log.Fatal(err)
	}

	log.Println("Creating users...")
	users := []domain.User{
		{Name: "Admin Bruno", Email: "admin@unitech.com", Role: domain.RoleAdmin},
		{Name: "Prof. Maria Santos", Email: "maria@unitech.com", Role: domain.RoleTeacher},
		{Name: "João Estudante", Email: "joao@unitech.com", Role: domain.RoleStudent},
	}
	for i := range users {
		hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		users[i].PasswordHash = string(hash)
		users[i].OrganizationID = org.ID
		if err := db.Create(&users[i]).Error; err != nil {
			log.Fatal(err)
		}
	}

	log.Println("Creating rooms...")
	rooms := []domain.Room{
		{
			OrganizationID: org.ID,
			Name:           "Auditório Principal",
			Description:    "Auditório com capacidade para grandes eventos",
			Capacity:       180,
			Location:       "Bloco A - 1º Andar",
			Equipment:      []string{"Projetor 4K", "Sistema de Som", "Ar Condicionado"},
			Availability: domain.Availability{
				Days:      []int{1, 2, 3, 4, 5},
				StartTime: "08:00",
				EndTime:   "22:00",
			},
			PricePerHour: 150,
			IsActive:     true,
		},
		{
			OrganizationID: org.ID,
			Name:           "Lab de Informática",
			Description:    "Laboratório com 30 computadores",
			Capacity:       30,
			Location:       "Bloco B - 2º Andar",
			Equipment:      []string{"30 Computadores", "Projetor", "Quadro Digital", "Wi-Fi"},
			Availability: domain.Availability{
				Days:      []int{1, 2, 3, 4, 5},
				StartTime: "07:00",
				EndTime:   "23:00",
			},
			PricePerHour: 80,
			IsActive:     true,
		},
	}
	for i := range rooms {
		if err := db.Create(&rooms[i]).Error; err != nil {
			log.Fatal(err)
		}
	}

	log.Printf("Seed complete: org=%d users=%d rooms=%d", org.ID, len(users), len(rooms))
}
