package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"handyconnect/internal/database"
	"handyconnect/internal/domain"
	"handyconnect/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "handyconnect.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM workers")
	db.Exec("DELETE FROM customers")
	db.Exec("DELETE FROM admins")

	ctx := context.Background()
	customers := repository.NewCustomerRepository(db)
	workers := repository.NewWorkerRepository(db)
	admins := repository.NewAdminRepository(db)
	bookings := repository.NewBookingRepository(db)

	// ================== ADMIN ==================
	log.Println("Creating admin...")
	admin := &domain.Admin{
		Name:         "Platform Admin",
		Email:        "admin@handyconnect.in",
		PasswordHash: hash("admin123"),
		Role:         "admin",
		IsActive:     true,
	}
	must(admins.Create(ctx, admin))
	log.Println("Admin created: admin@handyconnect.in / admin123")

	// ================== CUSTOMERS ==================
	log.Println("Creating customers...")
	seedCustomers := make([]*domain.Customer, 0, 3)
	for i, email := range []string{"ravi@mail.in", "priya@gmail.com", "amit@yahoo.in"} {
		c := &domain.Customer{
			Name:         fmt.Sprintf("Customer %d", i+1),
			Phone:        fmt.Sprintf("+91 98765 432%02d", i+10),
			Email:        email,
			PasswordHash: hash("customer123"),
			Address:      fmt.Sprintf("%d MG Road", i+12),
			City:         "Pune",
			State:        "Maharashtra",
			Pincode:      "411001",
		}
		must(customers.Create(ctx, c))
		seedCustomers = append(seedCustomers, c)
	}

	// ================== WORKERS ==================
	log.Println("Creating workers...")
	now := time.Now()

	approved := &domain.Worker{
		Name:         "Suresh Kumar",
		Phone:        "+91 98222 11001",
		Email:        "suresh@workers.in",
		PasswordHash: hash("worker123"),
		Address:      "4 Station Road",
		City:         "Pune",
		State:        "Maharashtra",
		Pincode:      "411002",
		Aadhaar:      "123412341234",
		ProfilePhoto: "https://res.cloudinary.com/demo/image/upload/workers/suresh.jpg",
		AadhaarPhoto: "https://res.cloudinary.com/demo/image/upload/workers/suresh-aadhaar.jpg",
		ServiceType:  "Plumbing",
		Status:       domain.WorkerApproved,
		ApprovedBy:   &admin.ID,
		ApprovedAt:   &now,
	}
	must(workers.Create(ctx, approved))

	electrician := &domain.Worker{
		Name:         "Manoj Patil",
		Phone:        "+91 98222 11002",
		Email:        "manoj@workers.in",
		PasswordHash: hash("worker123"),
		Address:      "9 FC Road",
		City:         "Pune",
		State:        "Maharashtra",
		Pincode:      "411004",
		Aadhaar:      "567856785678",
		ProfilePhoto: "https://res.cloudinary.com/demo/image/upload/workers/manoj.jpg",
		AadhaarPhoto: "https://res.cloudinary.com/demo/image/upload/workers/manoj-aadhaar.jpg",
		ServiceType:  "Electrical",
		Status:       domain.WorkerApproved,
		ApprovedBy:   &admin.ID,
		ApprovedAt:   &now,
	}
	must(workers.Create(ctx, electrician))

	pending := &domain.Worker{
		Name:         "Rahul Jadhav",
		Phone:        "+91 98222 11003",
		Email:        "rahul@workers.in",
		PasswordHash: hash("worker123"),
		Address:      "22 JM Road",
		City:         "Pune",
		State:        "Maharashtra",
		Pincode:      "411005",
		Aadhaar:      "999988887777",
		ProfilePhoto: "https://res.cloudinary.com/demo/image/upload/workers/rahul.jpg",
		AadhaarPhoto: "https://res.cloudinary.com/demo/image/upload/workers/rahul-aadhaar.jpg",
		ServiceType:  "Carpentry",
		Status:       domain.WorkerPending,
	}
	must(workers.Create(ctx, pending))

	rejected := &domain.Worker{
		Name:            "Vikas Shinde",
		Phone:           "+91 98222 11004",
		Email:           "vikas@workers.in",
		PasswordHash:    hash("worker123"),
		Address:         "7 Karve Road",
		City:            "Pune",
		State:           "Maharashtra",
		Pincode:         "411038",
		Aadhaar:         "111122223333",
		ProfilePhoto:    "https://res.cloudinary.com/demo/image/upload/workers/vikas.jpg",
		AadhaarPhoto:    "https://res.cloudinary.com/demo/image/upload/workers/vikas-aadhaar.jpg",
		ServiceType:     "Painting",
		Status:          domain.WorkerRejected,
		RejectionReason: "Aadhaar photo is unreadable",
	}
	must(workers.Create(ctx, rejected))

	// ================== BOOKINGS ==================
	// One booking per lifecycle state, driven through the same guarded
	// updates the API uses.
	log.Println("Creating bookings...")

	newBooking := func(owner *domain.Customer, serviceType, problem string) *domain.Booking {
		b := &domain.Booking{
			CustomerID:  owner.ID,
			ServiceType: serviceType,
			Problem:     problem,
			Urgency:     domain.UrgencyNormal,
			BookingFor:  domain.BookingForSelf,
			Location: domain.ServiceLocation{
				Address: owner.Address,
				City:    owner.City,
			},
			Date:         now.AddDate(0, 0, 2).Format("2006-01-02"),
			Time:         "10:00",
			ContactName:  owner.Name,
			ContactPhone: owner.Phone,
			ContactEmail: owner.Email,
			Status:       domain.BookingPending,
		}
		must(bookings.Create(ctx, b))
		return b
	}

	// Pending, visible to plumbers in Pune.
	newBooking(seedCustomers[0], "Plumbing", "Kitchen sink is leaking")

	// Accepted by the plumber.
	accepted := newBooking(seedCustomers[1], "Plumbing", "Bathroom tap replacement")
	mustClaim(bookings.ClaimIfPending(ctx, accepted.ID, approved.ID, now))

	// Rejected.
	declined := newBooking(seedCustomers[2], "Electrical", "Fan regulator not working")
	mustClaim(bookings.RejectIfPending(ctx, declined.ID, now))

	// Completed and rated.
	done := newBooking(seedCustomers[0], "Electrical", "Replace burnt socket")
	mustClaim(bookings.ClaimIfPending(ctx, done.ID, electrician.ID, now))
	mustClaim(bookings.CompleteIfAccepted(ctx, done.ID, electrician.ID, now))
	mustClaim(bookings.RateIfUnrated(ctx, done.ID, 5, "Quick and tidy work", now))

	log.Println("Seed completed!")
	log.Println("Test accounts:")
	log.Println("Admin:     admin@handyconnect.in / admin123")
	log.Println("Customers: ravi@mail.in, priya@gmail.com, amit@yahoo.in / customer123")
	log.Println("Workers:   suresh@workers.in (approved), manoj@workers.in (approved),")
	log.Println("           rahul@workers.in (pending), vikas@workers.in (rejected) / worker123")
}

func hash(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("bcrypt failed:", err)
	}
	return string(h)
}

func must(err error) {
	if err != nil {
		log.Fatal("seed failed:", err)
	}
}

func mustClaim(ok bool, err error) {
	must(err)
	if !ok {
		log.Fatal("seed failed: guarded update matched no rows")
	}
}
