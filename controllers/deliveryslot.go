package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"go-grocery/models"
	"go-grocery/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// clockPattern matches 12-hour clock strings like "07:00 AM".
var clockPattern = regexp.MustCompile(`^(0[1-9]|1[0-2]):[0-5][0-9] (AM|PM)$`)

// DeliverySlotController handles admin management of the delivery windows
// used for batch assignment.
type DeliverySlotController struct {
	Slots *mongo.Collection
}

// NewDeliverySlotController creates a new DeliverySlotController
func NewDeliverySlotController(client *mongo.Client) *DeliverySlotController {
	return &DeliverySlotController{
		Slots: client.Database("grocery").Collection("deliveryslots"),
	}
}

func validateSlot(name, startTime, endTime string) error {
	if name != models.BatchMorning && name != models.BatchEvening {
		return utils.NewBadRequest("Slot name must be Morning or Evening")
	}
	if !clockPattern.MatchString(startTime) || !clockPattern.MatchString(endTime) {
		return utils.NewBadRequest("Times must be 12-hour clock strings like 07:00 AM")
	}
	return nil
}

// CreateSlot adds a delivery window (Admin only). Only one slot per batch
// name can be active at a time.
func (dc *DeliverySlotController) CreateSlot(w http.ResponseWriter, r *http.Request) {
	var slot models.DeliverySlot
	if err := json.NewDecoder(r.Body).Decode(&slot); err != nil {
		utils.WriteError(w, utils.NewBadRequest("Invalid input"))
		return
	}
	if err := validateSlot(slot.Name, slot.StartTime, slot.EndTime); err != nil {
		utils.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if slot.IsActive {
		count, err := dc.Slots.CountDocuments(ctx, bson.M{"name": slot.Name, "is_active": true})
		if err != nil {
			utils.WriteError(w, err)
			return
		}
		if count > 0 {
			utils.WriteError(w, utils.NewConflict("An active slot already exists for this batch"))
			return
		}
	}

	now := time.Now()
	slot.CreatedAt = now
	slot.UpdatedAt = now

	res, err := dc.Slots.InsertOne(ctx, slot)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	slot.ID = res.InsertedID.(primitive.ObjectID)
	utils.WriteJSON(w, http.StatusCreated, slot)
}

// UpdateSlot edits a delivery window (Admin only).
func (dc *DeliverySlotController) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var body struct {
		Name      *string `json:"name"`
		StartTime *string `json:"start_time"`
		EndTime   *string `json:"end_time"`
		IsActive  *bool   `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, utils.NewBadRequest("Invalid input"))
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if body.Name != nil {
		if *body.Name != models.BatchMorning && *body.Name != models.BatchEvening {
			utils.WriteError(w, utils.NewBadRequest("Slot name must be Morning or Evening"))
			return
		}
		set["name"] = *body.Name
	}
	if body.StartTime != nil {
		if !clockPattern.MatchString(*body.StartTime) {
			utils.WriteError(w, utils.NewBadRequest("Times must be 12-hour clock strings like 07:00 AM"))
			return
		}
		set["start_time"] = *body.StartTime
	}
	if body.EndTime != nil {
		if !clockPattern.MatchString(*body.EndTime) {
			utils.WriteError(w, utils.NewBadRequest("Times must be 12-hour clock strings like 07:00 AM"))
			return
		}
		set["end_time"] = *body.EndTime
	}
	if body.IsActive != nil {
		set["is_active"] = *body.IsActive
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := dc.Slots.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if res.MatchedCount == 0 {
		utils.WriteError(w, utils.NewNotFound("Delivery slot not found"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Delivery slot updated successfully"})
}

// GetSlots lists delivery windows. Customers and vendors see only active
// slots; pass all=true for the admin view.
func (dc *DeliverySlotController) GetSlots(w http.ResponseWriter, r *http.Request) {
	query := bson.M{"is_active": true}
	if r.URL.Query().Get("all") == "true" {
		query = bson.M{}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := dc.Slots.Find(ctx, query)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	var slots []models.DeliverySlot
	if err := cursor.All(ctx, &slots); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, slots)
}

// DeleteSlot removes a delivery window (Admin only).
func (dc *DeliverySlotController) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := dc.Slots.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if res.DeletedCount == 0 {
		utils.WriteError(w, utils.NewNotFound("Delivery slot not found"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Delivery slot deleted successfully"})
}
