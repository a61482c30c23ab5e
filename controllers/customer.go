package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"go-grocery/models"
	"go-grocery/services"
	"go-grocery/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// CustomerController handles admin management of customer accounts.
type CustomerController struct {
	Users   *mongo.Collection
	Vendors *mongo.Collection
	Orders  *mongo.Collection
}

// NewCustomerController creates a new CustomerController
func NewCustomerController(client *mongo.Client) *CustomerController {
	db := client.Database("grocery")
	return &CustomerController{
		Users:   db.Collection("users"),
		Vendors: db.Collection("vendors"),
		Orders:  db.Collection("orders"),
	}
}

// CreateCustomer provisions a customer account bound to a vendor (Admin
// only). The vendor binding is required and must reference an existing
// vendor; without it the customer could never place an order.
func (cc *CustomerController) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string   `json:"name"`
		Email       string   `json:"email"`
		PhoneNumber string   `json:"phone_number"`
		Password    string   `json:"password"`
		VendorID    string   `json:"vendor_id"`
		Address     string   `json:"address"`
		MapURL      string   `json:"map_url"`
		LandMark    string   `json:"land_mark"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
		IsVeg       bool     `json:"is_veg"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, utils.NewBadRequest("Invalid input"))
		return
	}
	if body.Name == "" || body.PhoneNumber == "" || body.Password == "" {
		utils.WriteError(w, utils.NewBadRequest("Name, phone number and password are required"))
		return
	}
	vendorID, err := primitive.ObjectIDFromHex(body.VendorID)
	if err != nil {
		utils.WriteError(w, utils.NewBadRequest("Invalid vendor id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := cc.Vendors.CountDocuments(ctx, bson.M{"_id": vendorID})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if count == 0 {
		utils.WriteError(w, utils.NewNotFound("Vendor not found"))
		return
	}

	count, err = cc.Users.CountDocuments(ctx, bson.M{"phone_number": body.PhoneNumber})
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
		VendorID:    &vendorID,
		Address:     body.Address,
		MapURL:      body.MapURL,
		LandMark:    body.LandMark,
		Latitude:    body.Latitude,
		Longitude:   body.Longitude,
		IsVeg:       body.IsVeg,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := cc.Users.InsertOne(ctx, user)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	user.Password = ""

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Customer created successfully",
		"customer": user,
	})
}

// GetCustomers lists customer accounts, searchable by name or phone number,
// optionally scoped to one vendor, paginated (Admin only).
func (cc *CustomerController) GetCustomers(w http.ResponseWriter, r *http.Request) {
	query := bson.M{"role": models.RoleCustomer}
	if search := r.URL.Query().Get("search"); search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
		query["$or"] = []bson.M{{"name": pattern}, {"phone_number": pattern}}
	}
	if vendor := r.URL.Query().Get("vendorId"); vendor != "" {
		vendorID, err := primitive.ObjectIDFromHex(vendor)
		if err != nil {
			utils.WriteError(w, utils.NewBadRequest("Invalid vendor id"))
			return
		}
		query["vendor_id"] = vendorID
	}
	page, limit := services.NormalizePage(queryInt(r, "page"), queryInt(r, "limit"))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	totalResults, err := cc.Users.CountDocuments(ctx, query)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"password": 0})
	cursor, err := cc.Users.Find(ctx, query, opts)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	var customers []models.User
	if err := cursor.All(ctx, &customers); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"results":       customers,
		"page":          page,
		"limit":         limit,
		"total_pages":   services.TotalPages(totalResults, limit),
		"total_results": totalResults,
	})
}

// UpdateCustomer edits a customer's profile and vendor binding (Admin only).
func (cc *CustomerController) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var body struct {
		Name      *string  `json:"name"`
		Email     *string  `json:"email"`
		VendorID  *string  `json:"vendor_id"`
		Address   *string  `json:"address"`
		MapURL    *string  `json:"map_url"`
		LandMark  *string  `json:"land_mark"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		IsVeg     *bool    `json:"is_veg"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, utils.NewBadRequest("Invalid input"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	set := bson.M{"updated_at": time.Now()}
	if body.Name != nil {
		set["name"] = *body.Name
	}
	if body.Email != nil {
		set["email"] = *body.Email
	}
	if body.VendorID != nil {
		vendorID, err := primitive.ObjectIDFromHex(*body.VendorID)
		if err != nil {
			utils.WriteError(w, utils.NewBadRequest("Invalid vendor id"))
			return
		}
		count, err := cc.Vendors.CountDocuments(ctx, bson.M{"_id": vendorID})
		if err != nil {
			utils.WriteError(w, err)
			return
		}
		if count == 0 {
			utils.WriteError(w, utils.NewNotFound("Vendor not found"))
			return
		}
		set["vendor_id"] = vendorID
	}
	if body.Address != nil {
		set["address"] = *body.Address
	}
	if body.MapURL != nil {
		set["map_url"] = *body.MapURL
	}
	if body.LandMark != nil {
		set["land_mark"] = *body.LandMark
	}
	if body.Latitude != nil {
		set["latitude"] = *body.Latitude
	}
	if body.Longitude != nil {
		set["longitude"] = *body.Longitude
	}
	if body.IsVeg != nil {
		set["is_veg"] = *body.IsVeg
	}

	res, err := cc.Users.UpdateOne(ctx, bson.M{"_id": id, "role": models.RoleCustomer}, bson.M{"$set": set})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if res.MatchedCount == 0 {
		utils.WriteError(w, utils.NewNotFound("Customer not found"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Customer updated successfully"})
}

// UpdateCustomerStatus activates or deactivates a customer account (Admin
// only).
func (cc *CustomerController) UpdateCustomerStatus(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var body struct {
		IsActive *bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.IsActive == nil {
		utils.WriteError(w, utils.NewBadRequest("is_active is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := cc.Users.UpdateOne(ctx,
		bson.M{"_id": id, "role": models.RoleCustomer},
		bson.M{"$set": bson.M{"is_active": *body.IsActive, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if res.MatchedCount == 0 {
		utils.WriteError(w, utils.NewNotFound("Customer not found"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Customer status updated successfully"})
}

// DeleteCustomer removes a customer account (Admin only). Customers with
// existing orders are never physically deleted.
func (cc *CustomerController) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	referenced, err := cc.Orders.CountDocuments(ctx, bson.M{"customer": id})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if referenced > 0 {
		utils.WriteError(w, utils.NewConflict("Cannot delete customer because there are associated orders"))
		return
	}

	res, err := cc.Users.DeleteOne(ctx, bson.M{"_id": id, "role": models.RoleCustomer})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if res.DeletedCount == 0 {
		utils.WriteError(w, utils.NewNotFound("Customer not found"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Customer deleted successfully"})
}
