package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"go-storefront/models"
	"go-storefront/stores/mongostore"
	"go-storefront/utils"

	"golang.org/x/crypto/bcrypt"
)

// UserController handles registration, login and profile updates
type UserController struct {
	users *mongostore.UserRepo
	email *utils.EmailService
}

// NewUserController creates a new UserController with EmailService
func NewUserController(users *mongostore.UserRepo, email *utils.EmailService) *UserController {
	return &UserController{users: users, email: email}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if user.Email == "" || user.Password == "" {
		http.Error(w, "Email and password required", http.StatusBadRequest)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}
	user.Password = string(hashedPassword)
	user.Role = "user" // Default role
	user.IsVerified = false

	verificationToken, err := utils.GenerateJWT(user.Email, user.Role)
	if err != nil {
		http.Error(w, "Error generating verification token", http.StatusInternalServerError)
		return
	}
	user.VerificationToken = verificationToken

	created, err := uc.users.Insert(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if uc.email != nil {
		go func(email, token string) {
			if err := uc.email.SendVerificationEmail(email, token); err != nil {
				slog.Warn("verification email failed", "email", email, "error", err)
			}
		}(created.Email, verificationToken)
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered successfully. Please check your email to verify your account.",
	})
}

// Login authenticates a user and returns a JWT
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	user, err := uc.users.FindByEmail(r.Context(), credentials.Email)
	if err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(credentials.Password)); err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateJWT(user.Email, user.Role)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// VerifyEmail handles email verification
func (uc *UserController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Verification token missing", http.StatusBadRequest)
		return
	}

	if err := uc.users.MarkVerified(r.Context(), token); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Email verified successfully"})
}

// UpdateProfile applies a typed patch to the authenticated user's profile.
// Only name and address are mutable; identifiers, role and verification
// state are not reachable from here.
func (uc *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, uc.users)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var patch mongostore.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	if err := uc.users.Update(r.Context(), user.ID, patch); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile updated"})
}
