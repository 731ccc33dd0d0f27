package handlers

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mhnazari/zarshop-golang/internal/auth"
	"github.com/mhnazari/zarshop-golang/internal/models"
)

//
// --- Auth / Profile Handlers ---
//

type RegisterInput struct {
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// Register is the handler for POST /v1/auth/register.
func (h *Handlers) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now()
	result, err := h.DB.Exec(`
		INSERT INTO profiles (role, email, phone_number, password_hash, full_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		models.RoleCustomer, input.Email, input.PhoneNumber, password.Hash, input.FullName, now, now,
	)
	if err != nil {
		// Almost always the unique index on email/phone
		c.JSON(http.StatusConflict, gin.H{"error": "Email or phone number already registered"})
		return
	}

	userID, _ := result.LastInsertId()
	token, err := auth.GenerateToken(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registered successfully",
		"token":   token,
	})
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /v1/auth/login (email + password).
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.loginWith(c, "email = ?", input.Email, input.Password)
}

type PhoneLoginInput struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// LoginWithPhone is the handler for POST /v1/auth/login-phone.
func (h *Handlers) LoginWithPhone(c *gin.Context) {
	var input PhoneLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.loginWith(c, "phone_number = ?", input.PhoneNumber, input.Password)
}

// loginWith checks credentials against one identifier column and issues a
// token. The same generic error is sent for an unknown identifier and a
// wrong password.
func (h *Handlers) loginWith(c *gin.Context, where string, identifier string, plaintext string) {
	var userID int64
	var hash string
	err := h.DB.QueryRow("SELECT id, password_hash FROM profiles WHERE "+where, identifier).Scan(&userID, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	password := models.Password{Hash: hash}
	ok, err := password.Matches(plaintext)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify password"})
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

type SendOtpInput struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// SendOtp is the handler for POST /v1/auth/otp/send. A 6-digit code is
// stored against the profile with a 5-minute expiry. Delivery (SMS) is out
// of scope here; the code is logged for the operator.
func (h *Handlers) SendOtp(c *gin.Context) {
	var input SendOtpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code, err := generateOtpCode()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate code"})
		return
	}
	expiry := time.Now().Add(5 * time.Minute)

	result, err := h.DB.Exec(
		"UPDATE profiles SET otp_code = ?, otp_expiry = ? WHERE phone_number = ?",
		code, expiry, input.PhoneNumber,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store code"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No account with this phone number"})
		return
	}

	log.Printf("OTP for %s: %s", input.PhoneNumber, code)
	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

type VerifyOtpInput struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Code        string `json:"code" binding:"required,len=6"`
}

// VerifyOtp is the handler for POST /v1/auth/otp/verify. A correct,
// unexpired code signs the user in; the code is cleared after use.
func (h *Handlers) VerifyOtp(c *gin.Context) {
	var input VerifyOtpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var userID int64
	var code sql.NullString
	var expiry sql.NullTime
	err := h.DB.QueryRow(
		"SELECT id, otp_code, otp_expiry FROM profiles WHERE phone_number = ?",
		input.PhoneNumber,
	).Scan(&userID, &code, &expiry)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "No account with this phone number"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !code.Valid || code.String != input.Code {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect verification code"})
		return
	}
	if !expiry.Valid || expiry.Time.Before(time.Now()) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Verification code has expired"})
		return
	}

	// One-shot code
	if _, err := h.DB.Exec("UPDATE profiles SET otp_code = NULL, otp_expiry = NULL WHERE id = ?", userID); err != nil {
		log.Printf("Failed to clear OTP for user %d: %v", userID, err)
	}

	token, err := auth.GenerateToken(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GetMe is the handler for GET /v1/profile/me.
func (h *Handlers) GetMe(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	var u models.User
	err := h.DB.QueryRow(
		"SELECT id, role, email, phone_number, full_name, created_at, updated_at FROM profiles WHERE id = ?",
		userID,
	).Scan(&u.ID, &u.Role, &u.Email, &u.PhoneNumber, &u.FullName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, u)
}

func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
