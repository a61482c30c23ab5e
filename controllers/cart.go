package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-grocery/middleware"
	"go-grocery/models"
	"go-grocery/services"
	"go-grocery/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CartController handles the customer's cart: add/replace, list and remove.
type CartController struct {
	Carts    *mongo.Collection
	Products *mongo.Collection
	BaseURL  string
}

// NewCartController creates a new CartController
func NewCartController(client *mongo.Client, baseURL string) *CartController {
	db := client.Database("grocery")
	return &CartController{
		Carts:    db.Collection("carts"),
		Products: db.Collection("products"),
		BaseURL:  baseURL,
	}
}

func customerID(r *http.Request) (primitive.ObjectID, error) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		return primitive.NilObjectID, &utils.APIError{StatusCode: http.StatusUnauthorized, Message: "Unauthorized"}
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, utils.NewBadRequest("Invalid user id")
	}
	return id, nil
}

// AddToCart adds a product to the caller's cart. Adding a product already in
// the cart replaces the stored quantity rather than accumulating it.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	customer, err := customerID(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var body struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, utils.NewBadRequest("Invalid input"))
		return
	}
	productID, err := primitive.ObjectIDFromHex(body.ProductID)
	if err != nil {
		utils.WriteError(w, utils.NewBadRequest("Invalid product id"))
		return
	}
	if body.Quantity <= 0 {
		utils.WriteError(w, utils.NewBadRequest("Quantity must be positive"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := cc.Products.FindOne(ctx, bson.M{"_id": productID, "active": true}).Decode(&product); err != nil {
		utils.WriteError(w, utils.NewNotFound("Product not found"))
		return
	}

	now := time.Now()
	filter := bson.M{"customer": customer, "product_id": productID}
	update := bson.M{
		"$set": bson.M{
			"quantity":   body.Quantity,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"customer":   customer,
			"product_id": productID,
			"created_at": now,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := cc.Carts.UpdateOne(ctx, filter, update, opts); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Item added to cart"})
}

// cartItemView is one cart row joined with its product.
type cartItemView struct {
	ID                primitive.ObjectID `json:"id"`
	Product           models.Product     `json:"product"`
	Quantity          int                `json:"quantity"`
	FormattedQuantity string             `json:"formatted_quantity"`
	Total             float64            `json:"total"`
}

// GetCart lists the caller's cart joined with product details, with a grand
// total computed from current catalog prices.
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	customer, err := customerID(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := cc.Carts.Find(ctx, bson.M{"customer": customer})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		utils.WriteError(w, err)
		return
	}

	productIDs := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}
	products := map[primitive.ObjectID]models.Product{}
	if len(productIDs) > 0 {
		pc, err := cc.Products.Find(ctx, bson.M{"_id": bson.M{"$in": productIDs}})
		if err != nil {
			utils.WriteError(w, err)
			return
		}
		var list []models.Product
		if err := pc.All(ctx, &list); err != nil {
			utils.WriteError(w, err)
			return
		}
		for _, p := range list {
			products[p.ID] = p
		}
	}

	views := make([]cartItemView, 0, len(items))
	grandTotal := 0.0
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		product.Image = utils.AttachImageURL(cc.BaseURL, product.Image)

		view := cartItemView{
			ID:                item.ID,
			Product:           product,
			Quantity:          item.Quantity,
			FormattedQuantity: services.FormatQuantity(product.Unit, item.Quantity),
		}
		if total, err := services.LineCost(product.Unit, product.Price, item.Quantity); err == nil {
			view.Total = services.Round2(total)
			grandTotal += total
		}
		views = append(views, view)
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": views,
		"total": services.Round2(grandTotal),
	})
}

// RemoveFromCart deletes one of the caller's cart rows by id.
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	customer, err := customerID(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	id, err := objectIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := cc.Carts.DeleteOne(ctx, bson.M{"_id": id, "customer": customer})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if res.DeletedCount == 0 {
		utils.WriteError(w, utils.NewNotFound("Cart item not found"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart"})
}
