package db

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fadecraft/barbershop-api/internal/models"
)

// Seed fills an empty database with the default service catalogue, the admin
// account and two barber profiles. Safe to call on every boot.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("seeding default data")

	services := []models.Service{
		{Name: "Classic Haircut", Type: models.ServiceHaircut, Description: "Traditional haircut with precision styling and hot towel finish.", Price: 2500, Duration: 30},
		{Name: "Beard Trim", Type: models.ServiceBeard, Description: "Expert beard shaping and styling with essential oils treatment.", Price: 1500, Duration: 20},
		{Name: "Premium Package", Type: models.ServiceCombo, Description: "Complete grooming experience with haircut, beard trim, and facial.", Price: 4500, Duration: 60},
		{Name: "Women's Haircut", Type: models.ServiceWomensHaircut, Description: "Precision cut tailored to your style.", Price: 3500, Duration: 45},
		{Name: "Blowout & Styling", Type: models.ServiceWomensStyling, Description: "Wash, blow-dry and styling for any occasion.", Price: 3000, Duration: 40},
	}
	if err := db.Create(&services).Error; err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     "admin",
		Email:        "admin@barbershop.com",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		FullName:     "Admin User",
		Phone:        "+1234567890",
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	barberSeeds := []struct {
		user   models.User
		barber models.Barber
	}{
		{
			user: models.User{
				Username:     "marco",
				Email:        "marco@barbershop.com",
				PasswordHash: string(hash),
				Role:         models.RoleBarber,
				FullName:     "Marco Rossi",
				Phone:        "+1234567891",
			},
			barber: models.Barber{
				Speciality: "Master Barber",
				Bio:        "With over 15 years of experience, Marco specializes in classic cuts and precision beard styling.",
			},
		},
		{
			user: models.User{
				Username:     "luca",
				Email:        "luca@barbershop.com",
				PasswordHash: string(hash),
				Role:         models.RoleBarber,
				FullName:     "Luca Bianchi",
				Phone:        "+1234567892",
			},
			barber: models.Barber{
				Speciality: "Style Specialist",
				Bio:        "Luca brings modern techniques and trendy styles, a favorite for clients after the latest trends.",
			},
		},
	}

	for _, s := range barberSeeds {
		u := s.user
		if err := db.Create(&u).Error; err != nil {
			return err
		}
		b := s.barber
		b.UserID = &u.ID
		if err := db.Create(&b).Error; err != nil {
			return err
		}
	}

	return nil
}
