package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"regexp"
	"time"

	"go-grocery/models"
	"go-grocery/services"
	"go-grocery/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const productListCacheTTL = 5 * time.Minute

// ProductController handles catalog requests: admin CRUD plus the customer
// browse views. Listings go through an optional Redis read cache that is
// invalidated on every catalog mutation.
type ProductController struct {
	Products *mongo.Collection
	Orders   *mongo.Collection
	Cache    *utils.Cache
	BaseURL  string
}

// NewProductController creates a new ProductController
func NewProductController(client *mongo.Client, cache *utils.Cache, baseURL string) *ProductController {
	db := client.Database("grocery")
	return &ProductController{
		Products: db.Collection("products"),
		Orders:   db.Collection("orders"),
		Cache:    cache,
		BaseURL:  baseURL,
	}
}

// CreateProduct handles adding a new product (Admin only)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.WriteError(w, utils.NewBadRequest("Invalid input"))
		return
	}
	if product.Name == "" || product.Category == "" || product.Subcategory == "" {
		utils.WriteError(w, utils.NewBadRequest("Name, category and subcategory are required"))
		return
	}
	if product.Unit != models.UnitKg && product.Unit != models.UnitPiece {
		utils.WriteError(w, utils.NewBadRequest("Unit must be kg or piece"))
		return
	}
	if product.Stock < 0 {
		utils.WriteError(w, utils.NewBadRequest("Stock cannot be negative"))
		return
	}

	now := time.Now()
	product.Active = product.Stock >= 1
	product.CreatedAt = now
	product.UpdatedAt = now

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := pc.Products.InsertOne(ctx, product)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	pc.invalidateListings(ctx)

	utils.WriteJSON(w, http.StatusCreated, product)
}

type productUpdate struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Subcategory *string  `json:"subcategory"`
	Price       *float64 `json:"price"`
	Unit        *string  `json:"unit"`
	Stock       *int     `json:"stock"`
	Active      *bool    `json:"active"`
	Description *string  `json:"description"`
	QuickPicks  *bool    `json:"quick_picks"`
	NewlyAdd    *bool    `json:"newly_add"`
}

// UpdateProduct handles partial product edits (Admin only). Replenishing
// stock does not flip Active back on by itself; the caller sets it
// explicitly alongside the new stock.
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var body productUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, utils.NewBadRequest("Invalid input"))
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if body.Name != nil {
		set["name"] = *body.Name
	}
	if body.Category != nil {
		set["category"] = *body.Category
	}
	if body.Subcategory != nil {
		set["subcategory"] = *body.Subcategory
	}
	if body.Price != nil {
		set["price"] = *body.Price
	}
	if body.Unit != nil {
		if *body.Unit != models.UnitKg && *body.Unit != models.UnitPiece {
			utils.WriteError(w, utils.NewBadRequest("Unit must be kg or piece"))
			return
		}
		set["unit"] = *body.Unit
	}
	if body.Stock != nil {
		if *body.Stock < 0 {
			utils.WriteError(w, utils.NewBadRequest("Stock cannot be negative"))
			return
		}
		set["stock"] = *body.Stock
	}
	if body.Active != nil {
		set["active"] = *body.Active
	}
	if body.Description != nil {
		set["description"] = *body.Description
	}
	if body.QuickPicks != nil {
		set["quick_picks"] = *body.QuickPicks
	}
	if body.NewlyAdd != nil {
		set["newly_add"] = *body.NewlyAdd
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := pc.Products.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if res.MatchedCount == 0 {
		utils.WriteError(w, utils.NewNotFound("Product not found"))
		return
	}
	pc.invalidateListings(ctx)

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Product updated successfully"})
}

// DeleteProduct removes a product (Admin only). Products referenced by any
// existing order are never physically deleted.
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	referenced, err := pc.Orders.CountDocuments(ctx, bson.M{"items.product_id": id})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if referenced > 0 {
		utils.WriteError(w, utils.NewConflict("Cannot delete product because there are associated orders"))
		return
	}

	res, err := pc.Products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if res.DeletedCount == 0 {
		utils.WriteError(w, utils.NewNotFound("Product not found"))
		return
	}
	pc.invalidateListings(ctx)

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// GetProductByID retrieves a single product by ID
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := pc.Products.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		utils.WriteError(w, utils.NewNotFound("Product not found"))
		return
	}
	product.Image = utils.AttachImageURL(pc.BaseURL, product.Image)
	utils.WriteJSON(w, http.StatusOK, product)
}

// productPage is one page of the customer browse listing.
type productPage struct {
	Results    []models.Product `json:"results"`
	Pagination struct {
		Page         int   `json:"page"`
		Limit        int   `json:"limit"`
		TotalPages   int64 `json:"total_pages"`
		TotalResults int64 `json:"total_results"`
	} `json:"pagination"`
}

// GetProducts is the customer browse listing: active products filtered by
// category, subcategory and name, paginated. Served from the Redis cache
// when possible.
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	pc.listProducts(w, r, bson.M{"active": true})
}

// GetQuickPicks lists active products flagged for the quick-picks shelf.
func (pc *ProductController) GetQuickPicks(w http.ResponseWriter, r *http.Request) {
	pc.listProducts(w, r, bson.M{"active": true, "quick_picks": true})
}

// GetNewlyAdded lists active products flagged as newly added.
func (pc *ProductController) GetNewlyAdded(w http.ResponseWriter, r *http.Request) {
	pc.listProducts(w, r, bson.M{"active": true, "newly_add": true})
}

func (pc *ProductController) listProducts(w http.ResponseWriter, r *http.Request, query bson.M) {
	q := r.URL.Query()
	if category := q.Get("category"); category != "" {
		query["category"] = category
	}
	if subcategory := q.Get("subcategory"); subcategory != "" {
		query["subcategory"] = subcategory
	}
	if name := q.Get("name"); name != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(name), "$options": "i"}
	}
	page, limit := services.NormalizePage(queryInt(r, "page"), queryInt(r, "limit"))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cacheKey := fmt.Sprintf("products:%s:%s:%s:%s:%d:%d",
		r.URL.Path, q.Get("category"), q.Get("subcategory"), q.Get("name"), page, limit)
	var cached productPage
	if hit, err := pc.Cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		utils.WriteJSON(w, http.StatusOK, cached)
		return
	}

	totalResults, err := pc.Products.CountDocuments(ctx, query)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := pc.Products.Find(ctx, query, opts)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	var results []models.Product
	if err := cursor.All(ctx, &results); err != nil {
		utils.WriteError(w, err)
		return
	}
	for i := range results {
		results[i].Image = utils.AttachImageURL(pc.BaseURL, results[i].Image)
	}

	response := productPage{Results: results}
	response.Pagination.Page = page
	response.Pagination.Limit = limit
	response.Pagination.TotalPages = services.TotalPages(totalResults, limit)
	response.Pagination.TotalResults = totalResults

	if err := pc.Cache.SetJSON(ctx, cacheKey, response, productListCacheTTL, utils.ProductListCacheSet); err != nil {
		log.Printf("Failed to cache product listing: %v", err)
	}
	utils.WriteJSON(w, http.StatusOK, response)
}

// UploadProductImage stores a product image upload on disk under a unique
// name and records the path on the product record.
func (pc *ProductController) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.WriteError(w, utils.NewBadRequest("Failed to parse multipart form"))
		return
	}
	file, handler, err := r.FormFile("image")
	if err != nil {
		utils.WriteError(w, utils.NewBadRequest("Failed to retrieve file"))
		return
	}
	defer file.Close()

	imagePath, err := saveUpload(file, handler.Filename, filepath.Join("uploads", "products"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := pc.Products.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"image": imagePath, "updated_at": time.Now()},
	})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if res.MatchedCount == 0 {
		utils.WriteError(w, utils.NewNotFound("Product not found"))
		return
	}
	pc.invalidateListings(ctx)

	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Image uploaded successfully",
		"image":   utils.AttachImageURL(pc.BaseURL, imagePath),
	})
}

func (pc *ProductController) invalidateListings(ctx context.Context) {
	if err := pc.Cache.InvalidateSet(ctx, utils.ProductListCacheSet); err != nil {
		log.Printf("Failed to invalidate product listing cache: %v", err)
	}
}
