package controllers

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go-grocery/services"
	"go-grocery/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// objectIDParam parses a path variable as a Mongo object id.
func objectIDParam(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[name])
	if err != nil {
		return primitive.NilObjectID, utils.NewBadRequest("Invalid " + name)
	}
	return id, nil
}

func queryInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(name))
	return v
}

// parseDate accepts RFC3339 timestamps or plain YYYY-MM-DD dates.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	return nil
}

// saveUpload writes an uploaded file into dir under a unique name and
// returns the stored path in URL form.
func saveUpload(file multipart.File, originalName, dir string) (string, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}
	fullPath := filepath.Join(dir, uuid.NewString()+filepath.Ext(originalName))

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(fullPath), nil
}

// orderFilterFromQuery reads the common order-list filters from the query
// string: status, search, dateFrom, dateTo, page, limit.
func orderFilterFromQuery(r *http.Request) services.OrderFilter {
	q := r.URL.Query()
	return services.OrderFilter{
		Status:   q.Get("status"),
		Search:   q.Get("search"),
		DateFrom: parseDate(q.Get("dateFrom")),
		DateTo:   parseDate(q.Get("dateTo")),
		Page:     queryInt(r, "page"),
		Limit:    queryInt(r, "limit"),
	}
}
