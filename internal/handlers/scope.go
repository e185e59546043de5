package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fadecraft/barbershop-api/internal/middleware"
	"github.com/fadecraft/barbershop-api/internal/models"
)

type identity struct {
	UserID uint
	Role   string
}

func callerIdentity(c *gin.Context) identity {
	return identity{
		UserID: c.MustGet(middleware.ContextUserID).(uint),
		Role:   c.GetString(middleware.ContextUserRole),
	}
}

// callerBarberID resolves the barber record owned by the calling user. The
// token usually carries it; older tokens fall back to a lookup.
func callerBarberID(c *gin.Context, db *gorm.DB) (uint, bool) {
	if v, ok := c.Get(middleware.ContextBarberID); ok {
		if id, ok := v.(uint); ok {
			return id, true
		}
	}

	userID := c.MustGet(middleware.ContextUserID).(uint)

	var barber models.Barber
	if err := db.Where("user_id = ?", userID).First(&barber).Error; err != nil {
		return 0, false
	}
	return barber.ID, true
}

// barberOwns reports whether the caller may act on rows of barberID: admins
// always, barbers only on their own profile.
func barberOwns(c *gin.Context, db *gorm.DB, barberID uint) bool {
	id := callerIdentity(c)
	if id.Role == models.RoleAdmin {
		return true
	}
	if id.Role != models.RoleBarber {
		return false
	}

	own, ok := callerBarberID(c, db)
	return ok && own == barberID
}
