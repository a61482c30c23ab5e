package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-grocery/middleware"
	"go-grocery/models"
	"go-grocery/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// UserController handles registration, login and profile requests.
type UserController struct {
	Users   *mongo.Collection
	Vendors *mongo.Collection
}

// NewUserController creates a new UserController
func NewUserController(client *mongo.Client) *UserController {
	db := client.Database("grocery")
	return &UserController{
		Users:   db.Collection("users"),
		Vendors: db.Collection("vendors"),
	}
}

// Register handles customer self-registration. Vendor and admin accounts
// are created through the admin flows.
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		PhoneNumber string `json:"phone_number"`
		Password    string `json:"password"`
		Address     string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, utils.NewBadRequest("Invalid input"))
		return
	}
	if body.PhoneNumber == "" || body.Password == "" {
		utils.WriteError(w, utils.NewBadRequest("Phone number and password are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := uc.Users.CountDocuments(ctx, bson.M{"phone_number": body.PhoneNumber})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if count > 0 {
		utils.WriteError(w, utils.NewConflict("Phone number already in use"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	now := time.Now()
	user := models.User{
		Name:        body.Name,
		Email:       body.Email,
		PhoneNumber: body.PhoneNumber,
		Password:    string(hashedPassword),
		Role:        models.RoleCustomer,
		IsActive:    true,
		Address:     body.Address,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := uc.Users.InsertOne(ctx, user)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	user.ID = res.InsertedID.(primitive.ObjectID)

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role, "")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
		"token":   token,
	})
}

// Login authenticates by phone number and password.
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		PhoneNumber string `json:"phone_number"`
		Password    string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.WriteError(w, utils.NewBadRequest("Invalid input"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := uc.Users.FindOne(ctx, bson.M{"phone_number": creds.PhoneNumber}).Decode(&user); err != nil {
		utils.WriteError(w, &utils.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid phone number or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		utils.WriteError(w, &utils.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid phone number or password"})
		return
	}
	if !user.IsActive {
		utils.WriteError(w, &utils.APIError{StatusCode: http.StatusForbidden, Message: "Your account is inactive"})
		return
	}

	// Vendor sessions carry the vendor id so fulfillment views can be
	// scoped without an extra lookup per request.
	vendorID := ""
	if user.Role == models.RoleVendor {
		var vendor models.Vendor
		if err := uc.Vendors.FindOne(ctx, bson.M{"user_id": user.ID}).Decode(&vendor); err == nil {
			vendorID = vendor.ID.Hex()
		}
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role, vendorID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	response := map[string]interface{}{
		"message": "Login successful",
		"user": map[string]interface{}{
			"id":           user.ID,
			"name":         user.Name,
			"phone_number": user.PhoneNumber,
			"role":         user.Role,
		},
		"token": token,
	}
	if vendorID != "" {
		response["user"].(map[string]interface{})["vendor_id"] = vendorID
	}
	utils.WriteJSON(w, http.StatusOK, response)
}

// GetProfile retrieves the authenticated user's profile.
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.WriteError(w, utils.NewBadRequest("Invalid user id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := uc.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		utils.WriteError(w, utils.NewNotFound("User not found"))
		return
	}
	user.Password = ""
	utils.WriteJSON(w, http.StatusOK, user)
}
