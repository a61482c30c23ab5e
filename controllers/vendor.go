package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"regexp"
	"time"

	"go-grocery/middleware"
	"go-grocery/models"
	"go-grocery/services"
	"go-grocery/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// VendorController handles vendor administration and the vendor dashboard
// stats endpoints.
type VendorController struct {
	Users   *mongo.Collection
	Vendors *mongo.Collection
	Orders  *mongo.Collection
	Service *services.OrderService
}

// NewVendorController creates a new VendorController
func NewVendorController(client *mongo.Client, service *services.OrderService) *VendorController {
	db := client.Database("grocery")
	return &VendorController{
		Users:   db.Collection("users"),
		Vendors: db.Collection("vendors"),
		Orders:  db.Collection("orders"),
		Service: service,
	}
}

type vendorInput struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	PhoneNumber      string   `json:"phone_number"`
	Password         string   `json:"password"`
	Address          string   `json:"address"`
	GovtID           string   `json:"govt_id"`
	GovtID2          string   `json:"govt_id2"`
	VendorCode       string   `json:"vendor_code"`
	ServiceLocations []string `json:"service_locations"`
}

// CreateVendor provisions a vendor: the login account plus the vendor
// record (Admin only). Phone number, email and vendor code must all be
// unique; a government ID is required before a vendor can be activated.
func (vc *VendorController) CreateVendor(w http.ResponseWriter, r *http.Request) {
	var body vendorInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, utils.NewBadRequest("Invalid input"))
		return
	}
	if body.Name == "" || body.PhoneNumber == "" || body.Password == "" || body.VendorCode == "" {
		utils.WriteError(w, utils.NewBadRequest("Name, phone number, password and vendor code are required"))
		return
	}
	if body.GovtID == "" {
		utils.WriteError(w, utils.NewPreconditionFailed("Government ID is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userQuery := []bson.M{{"phone_number": body.PhoneNumber}}
	if body.Email != "" {
		userQuery = append(userQuery, bson.M{"email": body.Email})
	}
	count, err := vc.Users.CountDocuments(ctx, bson.M{"$or": userQuery})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if count > 0 {
		utils.WriteError(w, utils.NewConflict("Phone number or email already in use"))
		return
	}
	count, err = vc.Vendors.CountDocuments(ctx, bson.M{"vendor_code": body.VendorCode})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if count > 0 {
		utils.WriteError(w, utils.NewConflict("Vendor code already in use"))
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
		Role:        models.RoleVendor,
		IsActive:    true,
		Address:     body.Address,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	userRes, err := vc.Users.InsertOne(ctx, user)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	user.ID = userRes.InsertedID.(primitive.ObjectID)

	vendor := models.Vendor{
		UserID:           user.ID,
		GovtID:           body.GovtID,
		GovtID2:          body.GovtID2,
		VendorCode:       body.VendorCode,
		ServiceLocations: body.ServiceLocations,
		Status:           models.VendorActive,
	}
	vendorRes, err := vc.Vendors.InsertOne(ctx, vendor)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	vendor.ID = vendorRes.InsertedID.(primitive.ObjectID)

	user.Password = ""
	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Vendor created successfully",
		"user":    user,
		"vendor":  vendor,
	})
}

// UpdateVendor edits vendor fields and the linked account (Admin only).
func (vc *VendorController) UpdateVendor(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var body struct {
		Name             *string   `json:"name"`
		Email            *string   `json:"email"`
		PhoneNumber      *string   `json:"phone_number"`
		Address          *string   `json:"address"`
		GovtID           *string   `json:"govt_id"`
		GovtID2          *string   `json:"govt_id2"`
		ServiceLocations *[]string `json:"service_locations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, utils.NewBadRequest("Invalid input"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var vendor models.Vendor
	if err := vc.Vendors.FindOne(ctx, bson.M{"_id": id}).Decode(&vendor); err != nil {
		utils.WriteError(w, utils.NewNotFound("Vendor not found"))
		return
	}

	vendorSet := bson.M{}
	if body.GovtID != nil {
		vendorSet["govt_id"] = *body.GovtID
	}
	if body.GovtID2 != nil {
		vendorSet["govt_id2"] = *body.GovtID2
	}
	if body.ServiceLocations != nil {
		vendorSet["service_locations"] = *body.ServiceLocations
	}
	if len(vendorSet) > 0 {
		if _, err := vc.Vendors.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": vendorSet}); err != nil {
			utils.WriteError(w, err)
			return
		}
	}

	userSet := bson.M{"updated_at": time.Now()}
	if body.Name != nil {
		userSet["name"] = *body.Name
	}
	if body.Email != nil {
		userSet["email"] = *body.Email
	}
	if body.PhoneNumber != nil {
		userSet["phone_number"] = *body.PhoneNumber
	}
	if body.Address != nil {
		userSet["address"] = *body.Address
	}
	if _, err := vc.Users.UpdateOne(ctx, bson.M{"_id": vendor.UserID}, bson.M{"$set": userSet}); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Vendor updated successfully"})
}

// DeleteVendor removes a vendor and its login account (Admin only). Vendors
// with customers still bound to them cannot be deleted.
func (vc *VendorController) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var vendor models.Vendor
	if err := vc.Vendors.FindOne(ctx, bson.M{"_id": id}).Decode(&vendor); err != nil {
		utils.WriteError(w, utils.NewNotFound("Vendor not found"))
		return
	}

	bound, err := vc.Users.CountDocuments(ctx, bson.M{"role": models.RoleCustomer, "vendor_id": id})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if bound > 0 {
		utils.WriteError(w, utils.NewConflict("Cannot delete vendor because customers are assigned to it"))
		return
	}

	if _, err := vc.Vendors.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		utils.WriteError(w, err)
		return
	}
	if _, err := vc.Users.DeleteOne(ctx, bson.M{"_id": vendor.UserID}); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Vendor deleted successfully"})
}

// UploadDocuments stores a vendor's government-ID scans on disk under
// unique names and records the paths on the vendor record (Admin only).
// Form fields: govt_id (required), govt_id2 (optional).
func (vc *VendorController) UploadDocuments(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.WriteError(w, utils.NewBadRequest("Failed to parse multipart form"))
		return
	}

	set := bson.M{}
	for field, key := range map[string]string{"govt_id": "govt_id", "govt_id2": "govt_id2"} {
		file, handler, err := r.FormFile(field)
		if err != nil {
			continue
		}
		path, err := saveUpload(file, handler.Filename, filepath.Join("uploads", "vendors"))
		file.Close()
		if err != nil {
			utils.WriteError(w, err)
			return
		}
		set[key] = path
	}
	if len(set) == 0 {
		utils.WriteError(w, utils.NewBadRequest("No documents provided"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := vc.Vendors.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if res.MatchedCount == 0 {
		utils.WriteError(w, utils.NewNotFound("Vendor not found"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Documents uploaded successfully"})
}

// ChangeStatus moves a vendor between active, inactive and suspended
// (Admin only).
func (vc *VendorController) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, utils.NewBadRequest("Invalid input"))
		return
	}
	switch body.Status {
	case models.VendorActive, models.VendorInactive, models.VendorSuspended:
	default:
		utils.WriteError(w, utils.NewBadRequest("Status must be active, inactive or suspended"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := vc.Vendors.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": body.Status}})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if res.MatchedCount == 0 {
		utils.WriteError(w, utils.NewNotFound("Vendor not found"))
		return
	}

	// Suspended and inactive vendors cannot log in.
	var vendor models.Vendor
	if err := vc.Vendors.FindOne(ctx, bson.M{"_id": id}).Decode(&vendor); err == nil {
		active := body.Status == models.VendorActive
		_, _ = vc.Users.UpdateOne(ctx, bson.M{"_id": vendor.UserID}, bson.M{"$set": bson.M{"is_active": active}})
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Vendor status updated successfully"})
}

// vendorView is a vendor joined with its account details.
type vendorView struct {
	models.Vendor
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address,omitempty"`
}

// GetVendors lists vendors with their account details, searchable by vendor
// code and paginated (Admin only).
func (vc *VendorController) GetVendors(w http.ResponseWriter, r *http.Request) {
	query := bson.M{}
	if search := r.URL.Query().Get("search"); search != "" {
		query["vendor_code"] = bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	}
	if status := r.URL.Query().Get("status"); status != "" {
		query["status"] = status
	}
	page, limit := services.NormalizePage(queryInt(r, "page"), queryInt(r, "limit"))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	totalResults, err := vc.Vendors.CountDocuments(ctx, query)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := vc.Vendors.Find(ctx, query, opts)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	var vendors []models.Vendor
	if err := cursor.All(ctx, &vendors); err != nil {
		utils.WriteError(w, err)
		return
	}

	userIDs := make([]primitive.ObjectID, 0, len(vendors))
	for _, v := range vendors {
		userIDs = append(userIDs, v.UserID)
	}
	users := map[primitive.ObjectID]models.User{}
	if len(userIDs) > 0 {
		uc, err := vc.Users.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
		if err != nil {
			utils.WriteError(w, err)
			return
		}
		var list []models.User
		if err := uc.All(ctx, &list); err != nil {
			utils.WriteError(w, err)
			return
		}
		for _, u := range list {
			users[u.ID] = u
		}
	}

	views := make([]vendorView, 0, len(vendors))
	for _, v := range vendors {
		view := vendorView{Vendor: v}
		if u, ok := users[v.UserID]; ok {
			view.Name = u.Name
			view.Email = u.Email
			view.PhoneNumber = u.PhoneNumber
			view.Address = u.Address
		}
		views = append(views, view)
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"results":       views,
		"page":          page,
		"limit":         limit,
		"total_pages":   services.TotalPages(totalResults, limit),
		"total_results": totalResults,
	})
}

// GetVendorByID returns one vendor with account details, bound-customer and
// order counts, and total revenue (Admin only).
func (vc *VendorController) GetVendorByID(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var vendor models.Vendor
	if err := vc.Vendors.FindOne(ctx, bson.M{"_id": id}).Decode(&vendor); err != nil {
		utils.WriteError(w, utils.NewNotFound("Vendor not found"))
		return
	}

	view := vendorView{Vendor: vendor}
	var user models.User
	if err := vc.Users.FindOne(ctx, bson.M{"_id": vendor.UserID}).Decode(&user); err == nil {
		view.Name = user.Name
		view.Email = user.Email
		view.PhoneNumber = user.PhoneNumber
		view.Address = user.Address
	}

	customerCount, err := vc.Users.CountDocuments(ctx, bson.M{"role": models.RoleCustomer, "vendor_id": id})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	orderCount, err := vc.Orders.CountDocuments(ctx, bson.M{"vendor": id})
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	pipeline := []bson.M{
		{"$match": bson.M{"vendor": id, "status": bson.M{"$ne": models.StatusCancelled}}},
		{"$group": bson.M{"_id": nil, "revenue": bson.M{"$sum": "$total_price"}}},
	}
	revenue := 0.0
	cursor, err := vc.Orders.Aggregate(ctx, pipeline)
	if err == nil {
		var rows []struct {
			Revenue float64 `bson:"revenue"`
		}
		if err := cursor.All(ctx, &rows); err == nil && len(rows) > 0 {
			revenue = rows[0].Revenue
		}
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"vendor":         view,
		"customer_count": customerCount,
		"order_count":    orderCount,
		"total_revenue":  revenue,
	})
}

// GetOrderStats returns the authenticated vendor's same-day dashboard.
func (vc *VendorController) GetOrderStats(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stats, err := vc.Service.GetOrderStats(ctx, userID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}

// GetWeeklyReport returns a vendor's last-seven-days order aggregates.
func (vc *VendorController) GetWeeklyReport(w http.ResponseWriter, r *http.Request) {
	vendorID, err := objectIDParam(r, "vendorId")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stats, err := vc.Service.GetWeeklyReport(ctx, vendorID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}

// GetWeeklyOrdersCount returns a vendor's rolling seven-week order-count
// histogram.
func (vc *VendorController) GetWeeklyOrdersCount(w http.ResponseWriter, r *http.Request) {
	vendorID, err := objectIDParam(r, "vendorId")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	series, err := vc.Service.GetWeeklyOrdersCount(ctx, vendorID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, series)
}
